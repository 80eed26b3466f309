package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruit-backend/internal/config"
	"recruit-backend/internal/jobs"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository/postgres"
	"recruit-backend/internal/scheduler"
	"recruit-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	runOnce := flag.Bool("run-once", false, "drain one outbox batch and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting outbox worker", "run_once", *runOnce)

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

	store := postgres.NewStore(db)
	emailService := service.NewEmailService(cfg.Email)
	runner := jobs.NewJobRunner(store.OutboxRepository, emailService)

	if *runOnce {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := runner.DeliverPendingOutbox(ctx); err != nil {
			logger.Error("Outbox delivery failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sched := scheduler.New(runner)
	if err := sched.Register(cfg.Scheduler); err != nil {
		logger.Error("Failed to register jobs", "error", err)
		os.Exit(1)
	}
	sched.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Shutting down", "signal", sig.String())

	sched.Stop()
	logger.Info("Worker stopped")
}
