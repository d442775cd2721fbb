package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment with
// an optional .env file for development.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	// Completion provider (OpenAI-compatible).
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	LLMTimeout    time.Duration

	// Web push. Both keys must be set for push to be enabled.
	VAPIDPublicKey  string
	VAPIDPrivateKey string

	// S3-compatible backup target. Backups run only when Bucket is set.
	BackupBucket    string
	BackupEndpoint  string
	BackupRegion    string
	BackupAccessKey string
	BackupSecretKey string
	BackupInterval  time.Duration
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getEnv("TROLLEY_PORT", "8080"),
		DBPath:   getEnv("TROLLEY_DB_PATH", "trolley.db"),
		LogLevel: getEnv("TROLLEY_LOG_LEVEL", "info"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		LLMTimeout:    getEnvDuration("TROLLEY_LLM_TIMEOUT", 60*time.Second),

		VAPIDPublicKey:  getEnv("TROLLEY_VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("TROLLEY_VAPID_PRIVATE_KEY", ""),

		BackupBucket:    getEnv("TROLLEY_BACKUP_BUCKET", ""),
		BackupEndpoint:  getEnv("TROLLEY_BACKUP_ENDPOINT", ""),
		BackupRegion:    getEnv("TROLLEY_BACKUP_REGION", "auto"),
		BackupAccessKey: getEnv("TROLLEY_BACKUP_ACCESS_KEY", ""),
		BackupSecretKey: getEnv("TROLLEY_BACKUP_SECRET_KEY", ""),
		BackupInterval:  getEnvDuration("TROLLEY_BACKUP_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
