package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mwestby/livescoreboard/internal/board"
	"github.com/mwestby/livescoreboard/internal/hub"
	"github.com/mwestby/livescoreboard/internal/ws"
)

func SetupRoutes(store *board.Store, b *hub.Broadcaster, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Viewer-facing
	r.Get("/", View(store))
	r.Get("/events", ws.Handler(b, log))
	r.Get("/healthz", Healthz)

	// Inbound webhook from the solve-detection hook
	r.Post("/api/solve", Solve(store, log))
	r.Post("/api/scoreboard", Scoreboard(store, log))

	return r
}
