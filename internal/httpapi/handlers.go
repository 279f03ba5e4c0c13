package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mwestby/livescoreboard/internal/board"
	"github.com/mwestby/livescoreboard/internal/types"
)

var errEmptySolvePayload = errors.New("empty solve payload")

// Solve accepts a solve event from the detection hook. The hook wraps
// payloads inconsistently, so a single object and a one-element array
// are both accepted. Non-first-blood solves get a 200 and change
// nothing.
func Solve(store *board.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			clientError(w, "invalid json")
			return
		}

		ev, err := decodeSolve(raw)
		if err != nil {
			log.Debug("rejected solve payload", zap.Error(err))
			clientError(w, err.Error())
			return
		}

		store.ApplySolve(ev)
		statusOK(w)
	}
}

// Scoreboard accepts a full standings snapshot and replaces the stored
// one wholesale.
func Scoreboard(store *board.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw []types.RawEntry
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			log.Debug("rejected scoreboard payload", zap.Error(err))
			clientError(w, "invalid scoreboard payload")
			return
		}

		store.ApplyScoreboard(raw)
		statusOK(w)
	}
}

// View serves the current rendered view: the first-blood overlay while
// active, otherwise the scoreboard with blood counts joined in.
func View(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.View())
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func decodeSolve(raw json.RawMessage) (types.SolveEvent, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var evs []types.SolveEvent
		if err := json.Unmarshal(raw, &evs); err != nil {
			return types.SolveEvent{}, errors.New("invalid solve payload")
		}
		if len(evs) == 0 {
			return types.SolveEvent{}, errEmptySolvePayload
		}
		return evs[0], nil
	}

	var ev types.SolveEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return types.SolveEvent{}, errors.New("invalid solve payload")
	}
	return ev, nil
}

func statusOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
	}{Status: "ok"})
}

func clientError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg})
}
