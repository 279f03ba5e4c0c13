package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mwestby/livescoreboard/internal/board"
	"github.com/mwestby/livescoreboard/internal/config"
	"github.com/mwestby/livescoreboard/internal/httpapi"
	"github.com/mwestby/livescoreboard/internal/hub"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	b := hub.NewBroadcaster(log)
	store := board.NewStore(cfg.Dwell, b, log)

	// Build the router *with* the store and broadcaster injected
	handler := httpapi.SetupRoutes(store, b, log)

	log.Info("listening", zap.String("addr", cfg.Addr), zap.Duration("dwell", cfg.Dwell))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
