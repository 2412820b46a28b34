package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pable/scrimstats/internal/model"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Inputs
	DataPath   string
	RosterPath string
	Variant    model.Variant // empty means detect from the data header
	Sheet      string

	// HTTP timeouts
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables.
// It returns an error if a value is present but invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8501),
		Env:  getEnv("ENV", "development"),

		DataPath:   getEnv("DATA_PATH", "data.csv"),
		RosterPath: getEnv("ROSTER_PATH", ""),
		Sheet:      getEnv("SHEET", ""),

		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	// CORS
	cfg.AllowedOrigins = SplitList(getEnv("ALLOWED_ORIGINS", "*"))

	if v := getEnv("VARIANT", ""); v != "" {
		variant, ok := model.ParseVariant(v)
		if !ok {
			return nil, fmt.Errorf("invalid VARIANT %q: want internal or scrim", v)
		}
		cfg.Variant = variant
	}

	return cfg, nil
}

// IsProduction reports whether ENV selects the production logger.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
