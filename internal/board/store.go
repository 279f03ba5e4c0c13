package board

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mwestby/livescoreboard/internal/types"
)

// Publisher receives committed events for fan-out to viewers. The store
// calls Publish while holding its lock, so implementations must not
// block (buffered channel enqueues only).
type Publisher interface {
	Publish(msg types.ServerMessage)
}

// Store is the single source of truth for the live board: the current
// scoreboard snapshot, per-team first-blood counters, the first-blood
// overlay state, and the pending dwell timer. One mutex covers all four
// so multi-field updates triggered by a single event are atomic as a
// group.
type Store struct {
	mu         sync.Mutex
	scoreboard []Entry
	bloods     map[string]int
	display    Display
	active     bool

	dwell    time.Duration
	timer    *time.Timer
	timerGen int

	seq int

	pub Publisher
	log *zap.Logger
}

// NewStore creates an empty store. dwell is how long the first-blood
// overlay stays up before reverting to the scoreboard.
func NewStore(dwell time.Duration, pub Publisher, log *zap.Logger) *Store {
	return &Store{
		bloods: make(map[string]int),
		dwell:  dwell,
		pub:    pub,
		log:    log,
	}
}

// ApplySolve processes one solve event. Only first-blood solves change
// state; anything else is accepted and ignored. Returns whether a
// broadcast was emitted.
func (s *Store) ApplySolve(ev types.SolveEvent) bool {
	if ev.FirstBlood != 1 {
		return false
	}

	s.mu.Lock()
	s.bloods[ev.Team]++
	count := s.bloods[ev.Team]
	s.display = Display{Team: ev.Team, Challenge: ev.Challenge}
	s.active = true
	s.armLocked()
	s.publishLocked(types.EventNewFirstBlood, s.display)
	s.mu.Unlock()

	s.log.Info("first blood",
		zap.String("team", ev.Team),
		zap.String("challenge", ev.Challenge),
		zap.Int("count", count))
	return true
}

// ApplyScoreboard coerces the raw rows, replaces the stored snapshot
// wholesale, and broadcasts the entries with blood counts attached.
func (s *Store) ApplyScoreboard(raw []types.RawEntry) {
	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		score, garbage := CoerceScore(r.Score)
		if garbage {
			s.log.Debug("unparseable score, coerced to 0",
				zap.String("team", r.Team),
				zap.Any("score", r.Score))
		}
		entries = append(entries, Entry{Team: r.Team, Score: score, NumSolves: r.NumSolves})
	}

	s.mu.Lock()
	s.scoreboard = entries
	s.publishLocked(types.EventScoreboardUpdate, s.renderLocked())
	s.mu.Unlock()
}

// View renders the current state as of a single moment: the overlay
// while active, otherwise the scoreboard joined with live blood counts.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		d := s.display
		return View{View: ViewFirstBlood, FirstBlood: &d}
	}
	return View{View: ViewScoreboard, Scoreboard: s.renderLocked()}
}

// Snapshot returns a copy of the stored scoreboard (no blood counts).
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.scoreboard))
	copy(out, s.scoreboard)
	return out
}

// ReplaceScoreboard swaps in a pre-normalized snapshot without
// broadcasting. Ingest goes through ApplyScoreboard instead.
func (s *Store) ReplaceScoreboard(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scoreboard = entries
}

// IncrementBlood bumps a team's first-blood counter and returns the new
// value. The counter never decreases.
func (s *Store) IncrementBlood(team string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bloods[team]++
	return s.bloods[team]
}

// BloodCount returns a team's current first-blood counter.
func (s *Store) BloodCount(team string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bloods[team]
}

// SetFirstBloodDisplay overwrites the overlay payload and marks it
// active. It does not arm the dwell timer; ApplySolve does.
func (s *Store) SetFirstBloodDisplay(team, challenge string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display = Display{Team: team, Challenge: challenge}
	s.active = true
}

// ClearFirstBloodDisplay deactivates the overlay and cancels any
// pending reversion.
func (s *Store) ClearFirstBloodDisplay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
}

// FirstBloodActive reports whether the overlay is currently shown.
func (s *Store) FirstBloodActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// armLocked (re)starts the dwell timer. Arming stops any pending timer
// and bumps the generation, so a stale firing that already escaped Stop
// is a no-op in expire.
func (s *Store) armLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerGen++
	gen := s.timerGen
	s.timer = time.AfterFunc(s.dwell, func() { s.expire(gen) })
}

// expire runs on the timer goroutine when the dwell window ends. A
// generation mismatch means a later first blood re-armed the window.
func (s *Store) expire(gen int) {
	s.mu.Lock()
	if gen != s.timerGen || !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.timer = nil
	s.publishLocked(types.EventScoreboardUpdate, s.renderLocked())
	s.mu.Unlock()

	s.log.Info("first blood display reverted to scoreboard")
}

// publishLocked stamps the event with the next sequence number and
// hands it to the broadcaster before the lock is released, so fan-out
// order matches commit order.
func (s *Store) publishLocked(event string, data any) {
	if s.pub == nil {
		return
	}
	s.seq++
	s.pub.Publish(types.ServerMessage{Type: event, Seq: s.seq, Data: data})
}

// renderLocked joins the snapshot with current blood counts.
func (s *Store) renderLocked() []RenderedEntry {
	out := make([]RenderedEntry, 0, len(s.scoreboard))
	for _, e := range s.scoreboard {
		out = append(out, RenderedEntry{Entry: e, NumBloods: s.bloods[e.Team]})
	}
	return out
}
