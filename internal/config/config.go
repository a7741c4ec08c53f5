package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// PublicBaseURL is the externally reachable address of the invitation
	// front end. Share links and bot deep links are built from it.
	PublicBaseURL string

	// Telegram bot credentials. The webhook endpoint is only registered
	// when BotToken is set.
	BotToken   string
	BotAPIBase string

	// ElevenLabs text-to-speech
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	ElevenLabsBaseURL string
	AudioCachePath    string

	// Amazon SES (share-by-email); disabled when SESFromEmail is empty
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// Operator API auth
	AdminPasswordHash string
	AdminTokenSecret  string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	// A missing .env file is fine; real deployments set variables directly
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./partyfox.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotAPIBase: getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),

		ElevenLabsAPIKey:  getEnv("ELEVEN_LABS_API_KEY", ""),
		ElevenLabsVoiceID: getEnv("VOICE_ID", "9v8bxagMX43JiaF92sqe"),
		ElevenLabsBaseURL: getEnv("ELEVEN_LABS_BASE_URL", "https://api.elevenlabs.io"),
		AudioCachePath:    getEnv("AUDIO_CACHE_PATH", "./static/audio"),

		AWSRegion:    getEnv("AWS_REGION", "eu-central-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "PartyFox"),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminTokenSecret:  getEnv("ADMIN_TOKEN_SECRET", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
