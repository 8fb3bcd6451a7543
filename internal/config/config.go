// internal/config/config.go
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the externally overridable settings. The base address of the
// remote service is the one setting any deployment must care about; the rest
// default sensibly for local development.
type Config struct {
	// APIBaseURL is the base address of the remote library service,
	// including the /api prefix.
	APIBaseURL string

	// StateDir is where the session and token records are kept.
	StateDir string

	// TraceEndpoint is an optional OTLP/HTTP collector address. Tracing
	// export stays off when empty.
	TraceEndpoint string
}

const defaultAPIBaseURL = "http://127.0.0.1:8000/api"

// Load reads configuration from an optional .env file and the process
// environment. Environment variables win over .env entries.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}

	return Config{
		APIBaseURL:    getEnv("LIBRA_API_URL", defaultAPIBaseURL),
		StateDir:      getEnv("LIBRA_STATE_DIR", defaultStateDir()),
		TraceEndpoint: getEnv("LIBRA_TRACE_ENDPOINT", ""),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".libraclient"
	}
	return filepath.Join(home, ".libraclient")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
