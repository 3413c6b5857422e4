package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/shrink-ray/pkg/app"
	"github.com/wadjakorntonsri/shrink-ray/pkg/config"
	"github.com/wadjakorntonsri/shrink-ray/pkg/logger"
)

var mux http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	// Note: On Vercel, the sqlite file is ephemeral unless DATABASE_URL points at Turso or Postgres
	application, err := app.New(cfg, log)
	if err != nil {
		panic(err)
	}
	mux = application.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
