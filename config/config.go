// Package config loads engine configuration from the environment, with
// an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the server needs to start.
type Config struct {
	// HTTP
	Port int

	// Remote document store (GET/PUT of one JSON document).
	StoreURL     string
	StoreTimeout time.Duration

	// Local journal.
	JournalPath string

	// Sync retry schedule (cron expression).
	SyncSchedule string

	// Shared PINs resolved to roles by the API layer. The engine itself
	// only ever sees the resolved role.
	OperatorPIN string
	AdminPIN    string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:         envInt("PORT", 8080),
		StoreURL:     os.Getenv("STORE_URL"),
		StoreTimeout: time.Duration(envInt("STORE_TIMEOUT_SECONDS", 10)) * time.Second,
		JournalPath:  envString("JOURNAL_PATH", "cashbook.db"),
		SyncSchedule: envString("SYNC_SCHEDULE", "*/5 * * * *"),
		OperatorPIN:  os.Getenv("OPERATOR_PIN"),
		AdminPIN:     os.Getenv("ADMIN_PIN"),
		LogLevel:     envString("LOG_LEVEL", "info"),
		LogFormat:    envString("LOG_FORMAT", "console"),
	}

	if cfg.StoreURL == "" {
		return cfg, fmt.Errorf("STORE_URL is required (the remote JSON document endpoint)")
	}
	if cfg.OperatorPIN == "" || cfg.AdminPIN == "" {
		return cfg, fmt.Errorf("OPERATOR_PIN and ADMIN_PIN are required")
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
