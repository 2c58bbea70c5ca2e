package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo_app/internal/config"
	"todo_app/internal/dashboard/apiclient"
	"todo_app/internal/dashboard/session"
	"todo_app/internal/dashboard/web"
	"todo_app/internal/logger"
	"todo_app/internal/server"

	"github.com/gin-contrib/sessions"
	"github.com/joho/godotenv"
)

const configDir = "configs"

func main() {
	boot := logger.Get(logger.InfoLevel)

	// .env is optional and never overrides the real environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		boot.Warnw("ignoring unreadable .env", "err", err)
	}

	cfg, err := config.LoadDashboard(configDir, "dashboard")
	if err != nil {
		boot.Fatalw("error reading config", "err", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format).With("service", "dashboard")
	defer func() { _ = log.Sync() }()

	// session backend: external redis or embedded miniredis
	startCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	backend, err := session.OpenBackend(startCtx, cfg.Session, log)
	cancel()
	if err != nil {
		log.Fatalw("failed to open session backend", "err", err)
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			log.Errorw("failed to close session backend", "err", cerr)
		}
	}()

	store := session.NewRedisStore(backend.Client, cfg.Session.IdleTimeout, []byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.IdleTimeout / time.Second),
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	api := apiclient.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout})
	engine, err := web.New(api, store, log).Routes()
	if err != nil {
		log.Fatalw("failed to build dashboard routes", "err", err)
	}

	srv := server.New(cfg.HTTP)
	go func() {
		log.Infow("dashboard listening", "port", cfg.Port, "api", cfg.APIBaseURL, "embedded_redis", backend.Embedded())
		if err := srv.Run(cfg.Port, engine); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("shutting down dashboard...")

	ctx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("dashboard forced to shutdown", "err", err)
	}
}
