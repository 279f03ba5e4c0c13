package hub

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mwestby/livescoreboard/internal/types"
)

// outboxSize bounds how far a viewer can fall behind before it is
// dropped. Publish never blocks on a full outbox.
const outboxSize = 16

// Broadcaster fans committed events out to connected viewer sessions.
// Delivery is best-effort and at-most-once; sessions that connect after
// an event was published do not receive it retroactively.
type Broadcaster struct {
	mu       sync.Mutex
	sessions map[string]chan types.ServerMessage
	log      *zap.Logger
}

func NewBroadcaster(log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		sessions: make(map[string]chan types.ServerMessage),
		log:      log,
	}
}

// Subscribe registers a viewer session and returns its outbox. The
// channel is closed on Unsubscribe or when the session is dropped for
// falling behind.
func (b *Broadcaster) Subscribe(id string) <-chan types.ServerMessage {
	ch := make(chan types.ServerMessage, outboxSize)
	b.mu.Lock()
	b.sessions[id] = ch
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a session and closes its outbox. Safe to call for
// a session the broadcaster already dropped.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.sessions[id]; ok {
		delete(b.sessions, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers msg to every connected session without blocking. A
// session with a full outbox is dropped so one stuck viewer cannot
// stall the rest.
func (b *Broadcaster) Publish(msg types.ServerMessage) {
	var dropped []string

	b.mu.Lock()
	for id, ch := range b.sessions {
		select {
		case ch <- msg:
		default:
			close(ch)
			delete(b.sessions, id)
			dropped = append(dropped, id)
		}
	}
	b.mu.Unlock()

	for _, id := range dropped {
		b.log.Warn("dropped slow viewer session", zap.String("session", id))
	}
}

// NumSessions returns the number of connected sessions.
func (b *Broadcaster) NumSessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}
