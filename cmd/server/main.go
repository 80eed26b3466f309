package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruit-backend/internal/api"
	"recruit-backend/internal/config"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/ratelimit"
	"recruit-backend/internal/repository/postgres"
	"recruit-backend/internal/security"
	"recruit-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting recruit server", "address", cfg.GetServerAddress())

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database", "host", cfg.Database.Host, "database", cfg.Database.Database)

	store := postgres.NewStore(db)

	windowService := service.NewWindowService(store.WindowRepository)
	sessionService := service.NewSessionService(store.SessionRepository)
	outboxPublisher := service.NewOutboxPublisher(store.OutboxRepository)
	recruitService := service.NewRecruitService(store.ApplicationRepository, sessionService, windowService, outboxPublisher)
	admissionService := service.NewAdmissionService(store.ApplicationRepository, store.AdmissionRepository, outboxPublisher, cfg.Security.LinkCodeSecret)

	router := api.NewRouter(api.RouterDeps{
		Recruit:   recruitService,
		Sessions:  sessionService,
		Window:    windowService,
		Admission: admissionService,
		Tokens:    security.NewTokenManager(cfg.Security.JWTSecret),
		Limiter:   ratelimit.NewStoreLimiter(store.RateLimitRepository),
		RateLimit: cfg.RateLimit,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("Shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Server stopped")
}
