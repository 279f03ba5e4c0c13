package board

import "strconv"

// Entry is one scoreboard row after ingest normalization. Blood counts
// are not stored on the entry; they are joined in at render time.
type Entry struct {
	Team      string `json:"team"`
	Score     int    `json:"score"`
	NumSolves int    `json:"num_solves"`
}

// RenderedEntry is an Entry with the team's current first-blood count
// attached.
type RenderedEntry struct {
	Entry
	NumBloods int `json:"num_bloods"`
}

// Display is the transient first-blood overlay payload.
type Display struct {
	Team      string `json:"team"`
	Challenge string `json:"challenge"`
}

// View names for the read path.
const (
	ViewFirstBlood = "first_blood"
	ViewScoreboard = "scoreboard"
)

// View is what GET / returns: the overlay while it is active, otherwise
// the scoreboard with blood counts joined in.
type View struct {
	View       string          `json:"view"`
	FirstBlood *Display        `json:"first_blood,omitempty"`
	Scoreboard []RenderedEntry `json:"scoreboard,omitempty"`
}

// CoerceScore normalizes an untrusted score value to an int. Missing,
// empty, and null-ish values are 0; numeric strings parse; JSON numbers
// truncate. The bool reports whether the value was garbage rather than
// merely absent, so callers can log it at diagnostic level.
func CoerceScore(v any) (int, bool) {
	switch s := v.(type) {
	case nil:
		return 0, false
	case float64:
		return int(s), false
	case string:
		if s == "" || s == "null" {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, true
		}
		return n, false
	default:
		return 0, true
	}
}
