package types

// SolveEvent is what the detection hook POSTs to /api/solve. The hook
// also sends user and date; only team/challenge/first_blood drive state.
type SolveEvent struct {
	Team       string `json:"team"`
	User       string `json:"user,omitempty"`
	Challenge  string `json:"challenge"`
	FirstBlood int    `json:"first_blood"`
	Date       string `json:"date,omitempty"`
}

// RawEntry is one scoreboard row as posted by the hook. Score arrives
// as a string, a number, or null depending on the platform, so it is
// decoded loosely and coerced downstream.
type RawEntry struct {
	Team      string `json:"team"`
	Score     any    `json:"score"`
	NumSolves int    `json:"num_solves"`
}

// Event names pushed to connected viewers.
const (
	EventNewFirstBlood    = "new_first_blood"
	EventScoreboardUpdate = "scoreboard_update"
)

// ServerMessage is the envelope for every frame pushed to a viewer.
// Seq is assigned at commit time, so frames arrive in commit order.
type ServerMessage struct {
	Type string `json:"type"`
	Seq  int    `json:"seq"`
	Data any    `json:"data"`
}
