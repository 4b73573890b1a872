package devserver

import (
	"os"
	"strings"
)

const (
	defaultAddr     = ":8790"
	defaultDSN      = "file:otakulist?mode=memory&cache=shared"
	defaultLogFile  = "devserver.log"
	defaultDevToken = "dev-token"
)

// Config holds the development server settings
type Config struct {
	Addr     string
	DSN      string
	LogFile  string
	LogLevel string
	// DevToken is the bearer token of the seeded demo user
	DevToken string
}

// LoadConfig reads the server settings from the environment. Call
// godotenv.Load first to pick up a .env file.
func LoadConfig() Config {
	return Config{
		Addr:     getEnvOrDefault("OTAKULIST_ADDR", defaultAddr),
		DSN:      getEnvOrDefault("OTAKULIST_DSN", defaultDSN),
		LogFile:  getEnvOrDefault("OTAKULIST_LOG_FILE", defaultLogFile),
		LogLevel: getEnvOrDefault("OTAKULIST_LOG_LEVEL", "info"),
		DevToken: getEnvOrDefault("OTAKULIST_DEV_TOKEN", defaultDevToken),
	}
}

// isPostgres reports whether dsn names a postgres database
func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
