package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mwestby/livescoreboard/internal/hub"
)

const writeTimeout = 3 * time.Second

// Handler upgrades a viewer connection and streams committed events to
// it until either side goes away. The socket is push-only: inbound
// frames are discarded, but reading them is how we notice the peer
// closing.
func Handler(b *hub.Broadcaster, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		id := uuid.NewString()
		out := b.Subscribe(id)
		defer b.Unsubscribe(id)

		log.Debug("viewer connected", zap.String("session", id))
		defer log.Debug("viewer disconnected", zap.String("session", id))

		readCtx, readDone := context.WithCancel(r.Context())
		defer readDone()
		go func() {
			defer readDone()
			for {
				if _, _, err := conn.Read(readCtx); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-readCtx.Done():
				return

			case msg, ok := <-out:
				if !ok {
					// Dropped by the broadcaster for falling behind.
					conn.Close(websocket.StatusPolicyViolation, "too slow")
					return
				}
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Warn("marshal broadcast", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(readCtx, writeTimeout)
				err = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					return
				}
			}
		}
	}
}
