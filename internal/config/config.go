// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	NatsURL     string
	NatsToken   string
	DatabaseURL string
	LogLevel    string

	AvalAIAPIKey  string
	AvalAIBaseURL string
	AvalAIModel   string

	TelegramToken string

	ExtractTimeout  time.Duration
	ConversationTTL time.Duration
}

func Load() Config {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	return Config{
		Port:            envInt("LISTINGBOT_PORT", 8750),
		NatsURL:         envStr("NATS_URL", "nats://gateway:4222"),
		NatsToken:       envStr("NATS_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		AvalAIAPIKey:    envStr("AVALAI_API_KEY", ""),
		AvalAIBaseURL:   envStr("AVALAI_BASE_URL", "https://api.avalai.ir/v1"),
		AvalAIModel:     envStr("LISTINGBOT_MODEL", "gpt-4o-mini"),
		TelegramToken:   envStr("TELEGRAM_BOT_TOKEN", ""),
		ExtractTimeout:  envDuration("LISTINGBOT_EXTRACT_TIMEOUT", 15*time.Second),
		ConversationTTL: envDuration("LISTINGBOT_CONVERSATION_TTL", 60*time.Minute),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
