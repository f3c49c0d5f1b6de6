package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/seat-planner-go/internal/app"
	"github.com/arnavshah/seat-planner-go/pkg/config"
	"github.com/arnavshah/seat-planner-go/pkg/logging"
)

var (
	r       http.Handler
	initErr error
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logger = zap.NewNop()
	}

	// Serverless instances cannot keep background workers alive
	cfg.Events.Enabled = false
	cfg.AutoRun.Enabled = false

	gin.SetMode(gin.ReleaseMode)
	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		initErr = err
		return
	}
	r = a.Router
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	if initErr != nil {
		http.Error(w, `{"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	r.ServeHTTP(w, req)
}
