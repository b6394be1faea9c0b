package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("DODGE_TEST_VALUE", "set")
	if got := GetEnv("DODGE_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q, want set", got)
	}
	if got := GetEnv("DODGE_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q, want fallback", got)
	}
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"Number", "2.5", 2.5},
		{"Negative", "-3", -3},
		{"Garbage", "soon", 7},
		{"NaN", "NaN", 7},
		{"Inf", "+Inf", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DODGE_TEST_FLOAT", tt.value)
			if got := GetEnvFloat("DODGE_TEST_FLOAT", 7); got != tt.want {
				t.Errorf("GetEnvFloat = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStorePath(t *testing.T) {
	t.Setenv(EnvStore, "/tmp/records.toml")
	if got := StorePath(); got != "/tmp/records.toml" {
		t.Errorf("StorePath = %q", got)
	}

	t.Setenv(EnvStore, "")
	if got := StorePath(); !strings.HasSuffix(got, filepath.Join("dodge", "records.toml")) {
		t.Errorf("StorePath = %q, want default location", got)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output %q", buf.String())
	}
}
