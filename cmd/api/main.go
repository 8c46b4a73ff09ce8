package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/tasteboard/recipebox/internal/config"
	"github.com/tasteboard/recipebox/internal/db"
	"github.com/tasteboard/recipebox/internal/repo"
	"github.com/tasteboard/recipebox/internal/scheduler"
)

func main() {

	// Load configuration
	cfg := config.Load()

	setupLogging(cfg.LogFormat)

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	// Apply pending migrations
	if err := db.Run(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Background sweep of expired sessions
	sessionRepo := repo.NewSessionRepo(database, 0) // TTL unused by the sweeper
	sweeper, err := scheduler.Run(sessionRepo, cfg.SessionSweepMinutes)
	if err != nil {
		log.Fatalf("Failed to start session sweeper: %v", err)
	}
	defer sweeper.Stop()

	r := newRouter(database, cfg)

	// Start server LAST
	slog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		err = http.ListenAndServeTLS(":"+cfg.Port, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		err = http.ListenAndServe(":"+cfg.Port, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// setupLogging installs the default slog handler: text for dev, json for log shippers.
func setupLogging(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
