package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":3001", cfg.ListenAddr)
	require.Equal(t, "chat.db", cfg.DBPath)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	require.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	require.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	require.Equal(t, 10, cfg.HistoryWindow)
	require.InDelta(t, 0.7, cfg.Temperature, 1e-9)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LISTEN_ADDR", ":8080")
	t.Setenv("CHAT_HISTORY_WINDOW", "20")
	t.Setenv("CHAT_TEMPERATURE", "0.2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://coach.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, 20, cfg.HistoryWindow)
	require.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	require.Equal(t, []string{"http://localhost:5173", "https://coach.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CHAT_HISTORY_WINDOW", "not-a-number")
	t.Setenv("CHAT_TEMPERATURE", "warm")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10, cfg.HistoryWindow)
	require.InDelta(t, 0.7, cfg.Temperature, 1e-9)
}
