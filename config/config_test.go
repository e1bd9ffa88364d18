package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Setenv("AI_PLUGIN", "")
		os.Unsetenv("AI_PLUGIN")

		cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "together", cfg.AI.Plugin)
		assert.Equal(t, "https://api.together.xyz/v1", cfg.AI.Together.BaseURL)
		assert.Equal(t, "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free", cfg.AI.Together.Model)
		assert.Equal(t, 0.7, cfg.AI.Temperature)
		assert.Equal(t, "www.google.com", cfg.Google.MapsHost)
		assert.Equal(t, "input", cfg.Google.LegLabels)
		assert.Equal(t, "Australia/Perth", cfg.Telegram.Timezone)
		assert.Equal(t, "memory", cfg.Session.Backend)
		assert.Equal(t, 5, cfg.Tavily.MaxResults)
		assert.Equal(t, "8000", cfg.Server.Port)
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		t.Setenv("AI_PLUGIN", "ollama")
		t.Setenv("GPLACES_API_KEY", "maps-key")
		t.Setenv("ROUTES_LEG_LABELS", "optimized")

		cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "ollama", cfg.AI.Plugin)
		assert.Equal(t, "maps-key", cfg.Google.APIKey)
		assert.Equal(t, "optimized", cfg.Google.LegLabels)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		yaml := "telegram:\n  token: tg-token\ngoogle:\n  maps_host: maps.example.com\n"
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "tg-token", cfg.Telegram.Token)
		assert.Equal(t, "maps.example.com", cfg.Google.MapsHost)
		assert.Equal(t, "together", cfg.AI.Plugin)
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{AI: AIConfig{Plugin: "together"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "missing API keys: TAVILY_API_KEY, TOGETHER_API_KEY, GPLACES_API_KEY", err.Error())

	cfg.Tavily.APIKey = "t"
	cfg.AI.Together.APIKey = "k"
	cfg.Google.APIKey = "g"
	assert.NoError(t, cfg.Validate())

	cfg.AI.Plugin = "ollama"
	cfg.AI.Together.APIKey = ""
	assert.NoError(t, cfg.Validate())

	cfg.AI.Plugin = "bard"
	assert.ErrorContains(t, cfg.Validate(), "unknown AI plugin")
}
