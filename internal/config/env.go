// Package config provides shared configuration utilities for the binaries.
package config

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
)

// Environment variables shared by every binary.
const (
	EnvConfig   = "DODGE_CONFIG"    // path to a TOML game config
	EnvStore    = "DODGE_STORE"     // path to the best-time records file
	EnvLogLevel = "DODGE_LOG_LEVEL" // debug, info, warn, error
	EnvLogFile  = "DODGE_LOG"       // log file for the local terminal game
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvFloat returns the environment variable named by the key parsed as a
// float, or fallback if it is unset or not a finite number.
func GetEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// StorePath returns the records file location: DODGE_STORE if set, else
// dodge/records.toml under the user config directory.
func StorePath() string {
	if p := GetEnv(EnvStore, ""); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "dodge", "records.toml")
}

// NewLogger builds the process logger writing to w. The level comes from
// DODGE_LOG_LEVEL and defaults to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(GetEnv(EnvLogLevel, "info")); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
