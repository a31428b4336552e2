package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/quantum-solver/internal/backend"
	"github.com/aristath/quantum-solver/internal/config"
	"github.com/aristath/quantum-solver/internal/database"
	"github.com/aristath/quantum-solver/internal/modules/optimizer"
	"github.com/aristath/quantum-solver/internal/modules/qubo"
	"github.com/aristath/quantum-solver/internal/modules/simulator"
	"github.com/aristath/quantum-solver/internal/modules/solver"
	"github.com/aristath/quantum-solver/internal/scheduler"
	"github.com/aristath/quantum-solver/internal/server"
	"github.com/aristath/quantum-solver/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	log.Info().Msg("Starting quantum solver service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Reinitialize logger with the configured level
	log = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	// runs.db - solve run history
	runsDB, err := database.New(database.Config{
		Path:    cfg.DataDir + "/runs.db",
		Profile: database.ProfileStandard,
		Name:    "runs",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize runs database")
	}
	defer runsDB.Close()

	if err := solver.InitSchema(runsDB.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize runs schema")
	}

	// Execution stack: simulator engine, local backend, optimizer, solver
	engine := simulator.New(simulator.Config{
		MaxQubits: cfg.MaxQubits,
		Log:       log,
	})
	localBackend := backend.NewLocal(engine, log)
	log.Info().
		Str("backend", localBackend.Name()).
		Int("max_qubits", cfg.MaxQubits).
		Msg("Execution backend ready")

	runsRepo := solver.NewRepository(runsDB.Conn(), log)
	encoder := qubo.NewEncoder(log)
	opt := optimizer.New(localBackend, log)
	solverService := solver.NewService(encoder, localBackend, opt, runsRepo, cfg.SolveDefaults(), log)

	// Scheduler with the run retention job
	sched := scheduler.New(log)
	retentionJob := scheduler.NewRunRetentionJob(runsRepo, runsDB, cfg.RetentionDays, log)
	if err := sched.AddJob("@daily", retentionJob); err != nil {
		log.Warn().Err(err).Msg("Failed to register retention job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		RunsDB:    runsDB,
		Backend:   localBackend,
		Solver:    solverService,
		Runs:      runsRepo,
		Scheduler: sched,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
