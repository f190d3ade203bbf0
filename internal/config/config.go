package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all server configuration, read once at startup.
type Config struct {
	ListenAddr     string
	DBPath         string
	AllowedOrigins []string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	HistoryWindow int
	Temperature   float64
}

// Load reads configuration from environment variables. OPENAI_API_KEY is the
// only required setting; everything else has a default suited to local use.
func Load() (Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required in environment")
	}

	return Config{
		ListenAddr:     envOrDefault("LISTEN_ADDR", ":3001"),
		DBPath:         envOrDefault("COACH_DB_PATH", "chat.db"),
		AllowedOrigins: splitOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		OpenAIAPIKey:   apiKey,
		OpenAIBaseURL:  envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:    envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		HistoryWindow:  envIntOrDefault("CHAT_HISTORY_WINDOW", 10),
		Temperature:    envFloatOrDefault("CHAT_TEMPERATURE", 0.7),
	}, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloatOrDefault(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
