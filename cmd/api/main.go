// @title                       Todo API
// @version                     1.0
// @description                 Todo list CRUD guarded by JWT bearer tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "todo_app/docs"
	"todo_app/internal/config"
	"todo_app/internal/handlers"
	"todo_app/internal/logger"
	"todo_app/internal/repository"
	"todo_app/internal/repository/db"
	"todo_app/internal/server"
	"todo_app/internal/service"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const configDir = "configs"

func main() {
	// bootstrap logger until the configured one exists
	boot := logger.Get(logger.InfoLevel)

	// .env is optional and never overrides the real environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		boot.Warnw("ignoring unreadable .env", "err", err)
	}

	// load configs/config.yml + env
	cfg, err := config.LoadAPI(configDir, "config")
	if err != nil {
		boot.Fatalw("error reading config", "err", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format).With("service", "api")
	defer func() { _ = log.Sync() }()

	// open DB
	gdb, err := openDB(cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to init database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := db.Close(gdb); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(gdb)
	services := service.NewService(repos, service.AuthConfig{
		Secret:     []byte(cfg.JWTSecret),
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	})
	apiHandler := handlers.NewHandler(services, log, cfg.AllowedOrigins...)

	// start HTTP server
	srv := server.New(cfg.HTTP)
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, cfg.HTTP, log)
}

// openDB connects and migrates the configured store.
func openDB(cfg config.DB, log *logger.Logger) (*gorm.DB, error) {
	if cfg.Driver == db.DriverSQLite && cfg.Path == "" {
		log.Infow("db.path not set in config; using default file", "default", "todo.db")
		cfg.Path = "todo.db"
	}
	return db.Open(cfg)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("api listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, cfg config.HTTP, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
