// Package config provides functionality for loading and accessing environment
// variables and the application configuration.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fjacquet/statement-ledger/internal/logging"
)

var (
	once sync.Once
	// Logger is used before the configuration has been loaded.
	Logger = logrus.New()
)

// ConfigureLogging configures the bootstrap logger from LEDGER_LOG_LEVEL and
// LEDGER_LOG_FORMAT (LOG_LEVEL and LOG_FORMAT are still honored) and returns it.
func ConfigureLogging() *logrus.Logger {
	level := GetEnv("LEDGER_LOG_LEVEL", GetEnv("LOG_LEVEL", "info"))
	format := GetEnv("LEDGER_LOG_FORMAT", GetEnv("LOG_FORMAT", "text"))
	logging.Configure(Logger, level, format)
	return Logger
}

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() {
	once.Do(func() {
		// Try to find .env file in current directory
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			// Try to find .env in parent directory (project root)
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				Logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			Logger.Warnf("Error loading .env file: %v", err)
			return
		}
		Logger.Debugf("Loaded environment variables from %s", envFile)

		ConfigureLogging()
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
