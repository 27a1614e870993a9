package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	TokenSecret string
	TokenTTL    time.Duration

	TriviaBaseURL string

	// Minimum questions answered in a (category, difficulty) bucket
	// before a user appears on that bucket's leaderboard.
	LeaderboardMinQuestions int

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./triviaclash.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		TokenSecret: getEnv("TOKEN_SECRET", "dev-only-insecure-secret"),
		TokenTTL:    getDuration("TOKEN_TTL", 24*time.Hour),

		TriviaBaseURL: getEnv("TRIVIA_BASE_URL", "https://opentdb.com/api.php"),

		LeaderboardMinQuestions: getInt("LEADERBOARD_MIN_QUESTIONS", 50),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "TriviaClash"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),

		AuthRateLimit:  getInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getDuration("AUTH_RATE_WINDOW", time.Minute),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
