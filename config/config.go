package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Diagnostics modes select where per-record failures are reported.
const (
	DiagnosticsStderr = "stderr"
	DiagnosticsLog    = "log"
	DiagnosticsBoth   = "both"
	DiagnosticsOff    = "off"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	LogLevel    string
	LogFormat   string
	Diagnostics string

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// Load reads an optional .env file and returns the Config built from the
// environment. Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	loaded := godotenv.Load(files...) == nil

	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "console")),
		Diagnostics:   strings.ToLower(getEnv("DIAGNOSTICS", DiagnosticsStderr)),
		EnvFileLoaded: loaded,
	}

	switch cfg.Diagnostics {
	case DiagnosticsStderr, DiagnosticsLog, DiagnosticsBoth, DiagnosticsOff:
	default:
		return nil, fmt.Errorf("invalid DIAGNOSTICS %q: want stderr, log, both or off", cfg.Diagnostics)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the application logger. Logs always go to stderr so that
// stdout stays reserved for the account snapshot.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
