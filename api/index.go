package handler

import (
	"net/http"

	"github.com/arnavshah/roster-optimizer/pkg/config"
	"github.com/arnavshah/roster-optimizer/pkg/logging"
	"github.com/arnavshah/roster-optimizer/pkg/server"
)

var (
	router  http.Handler
	initErr error
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	logger := logging.Setup(cfg.Environment)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("initialize server")
		initErr = err
		return
	}
	router = app.Router
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	if initErr != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	router.ServeHTTP(w, req)
}
