// Package cli provides common command initialization utilities: env file
// loading, logging, configuration, and storage setup.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"kharcha/internal/config"
	applog "kharcha/internal/log"
	"kharcha/internal/storage"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the given level string
// and installs it as the process default.
func SetupLogger(level string) *applog.Logger {
	logger := applog.New(applog.Config{Level: applog.ParseLevel(level)})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it, exiting
// the process on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// InitStorage opens the SQLite key-value store, exiting the process on
// failure.
func InitStorage(logger *applog.Logger, dbPath string) *storage.KV {
	kv, err := storage.New(dbPath, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", applog.FieldError, err.Error(), "path", dbPath)
		os.Exit(1)
	}
	return kv
}
