/*
main.go - Application entry point

PURPOSE:
  Starts the cash ledger engine server. Wiring order:

  1. Load configuration (env / .env)
  2. Set up logging
  3. Open the local journal (sqlite)
  4. Build the fallback store (remote document + journal)
  5. Load the snapshot into the Book (best-effort: offline start is fine)
  6. Start the sync retry job
  7. Serve HTTP with graceful shutdown

ENVIRONMENT:
  STORE_URL              remote JSON document endpoint (required)
  STORE_TIMEOUT_SECONDS  load/persist timeout (default 10)
  JOURNAL_PATH           local sqlite journal (default cashbook.db)
  SYNC_SCHEDULE          cron expression for the retry job
  OPERATOR_PIN/ADMIN_PIN shared secrets (required)
  PORT, LOG_LEVEL, LOG_FORMAT

SEE ALSO:
  - api/server.go: router configuration
  - store/fallback.go: persistence wiring
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hafid/cashbook-engine/api"
	"github.com/hafid/cashbook-engine/config"
	"github.com/hafid/cashbook-engine/jobs"
	"github.com/hafid/cashbook-engine/ledger"
	"github.com/hafid/cashbook-engine/logger"
	"github.com/hafid/cashbook-engine/store"
	"github.com/hafid/cashbook-engine/store/remote"
	"github.com/hafid/cashbook-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	rootLog, err := logger.Setup(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	journal, err := sqlite.Open(cfg.JournalPath)
	if err != nil {
		rootLog.Fatal().Err(err).Msg("failed to open local journal")
	}
	defer journal.Close()

	remoteStore := remote.New(cfg.StoreURL, cfg.StoreTimeout, rootLog)
	backing := store.NewFallback(remoteStore, journal, rootLog)

	book := ledger.NewBook(backing, rootLog)

	// Offline start is a degraded mode, not a failure: the book keeps
	// the journaled (or empty) snapshot and the retry job catches up.
	loadCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout+time.Second)
	if err := book.Load(loadCtx); err != nil {
		rootLog.Warn().Err(err).Msg("starting with local snapshot, remote pending")
	}
	cancel()

	runner := jobs.NewRunner(book, backing, rootLog)
	if err := runner.Start(cfg.SyncSchedule); err != nil {
		rootLog.Fatal().Err(err).Msg("failed to schedule sync job")
	}
	defer runner.Stop()

	handler := api.NewHandler(book, api.Auth{
		OperatorPIN: cfg.OperatorPIN,
		AdminPIN:    cfg.AdminPIN,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		rootLog.Info().Int("port", cfg.Port).Msg("cash ledger engine listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	rootLog.Info().Msg("shutting down")
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctx); err != nil {
		rootLog.Error().Err(err).Msg("forced shutdown")
	}
}
