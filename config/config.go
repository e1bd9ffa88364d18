package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	AI       AIConfig       `yaml:"ai"`
	Google   GoogleConfig   `yaml:"google"`
	Tavily   TavilyConfig   `yaml:"tavily"`
	Session  SessionConfig  `yaml:"session"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

type TelegramConfig struct {
	Token       string `yaml:"token" env:"TELEGRAM_BOT_API"`
	Timezone    string `yaml:"timezone" env:"TIMEZONE" env-default:"Australia/Perth"`
	PollTimeout int    `yaml:"poll_timeout" env:"TELEGRAM_POLL_TIMEOUT" env-default:"60"`
}

type AIConfig struct {
	Plugin       string         `yaml:"plugin" env:"AI_PLUGIN" env-default:"together"`
	Temperature  float64        `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.7"`
	MaxTurns     int            `yaml:"max_turns" env:"AI_MAX_TURNS" env-default:"10"`
	HistoryLimit int            `yaml:"history_limit" env:"AI_HISTORY_LIMIT" env-default:"20"`
	Together     TogetherConfig `yaml:"together"`
	Gemini       GeminiConfig   `yaml:"gemini"`
	Ollama       OllamaConfig   `yaml:"ollama"`
}

// TogetherConfig points at any OpenAI-compatible chat endpoint; Together AI by default.
type TogetherConfig struct {
	APIKey  string `yaml:"api_key" env:"TOGETHER_API_KEY"`
	BaseURL string `yaml:"base_url" env:"TOGETHER_BASE_URL" env-default:"https://api.together.xyz/v1"`
	Model   string `yaml:"model" env:"TOGETHER_MODEL" env-default:"meta-llama/Llama-3.3-70B-Instruct-Turbo-Free"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
}

type OllamaConfig struct {
	Model   string `yaml:"model" env:"OLLAMA_MODEL" env-default:"qwen3:4b"`
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL" env-default:"http://localhost:11434"`
}

type GoogleConfig struct {
	APIKey    string `yaml:"api_key" env:"GPLACES_API_KEY"`
	MapsHost  string `yaml:"maps_host" env:"GOOGLE_MAPS_HOST" env-default:"www.google.com"`
	RoutesURL string `yaml:"routes_url" env:"GOOGLE_ROUTES_URL" env-default:"https://routes.googleapis.com/directions/v2:computeRoutes"`
	// Timeout in seconds for Routes API calls
	Timeout   int `yaml:"timeout" env:"GOOGLE_TIMEOUT" env-default:"30"`
	RateLimit int `yaml:"rate_limit" env:"GOOGLE_RATE_LIMIT" env-default:"10"`
	// GeocodeCacheTTL in minutes for remembered place lookups, 0 disables
	GeocodeCacheTTL int `yaml:"geocode_cache_ttl" env:"GOOGLE_GEOCODE_CACHE_TTL" env-default:"60"`
	// LegLabels selects how intermediate legs are labelled: "input" or "optimized"
	LegLabels string `yaml:"leg_labels" env:"ROUTES_LEG_LABELS" env-default:"input"`
}

type TavilyConfig struct {
	APIKey     string `yaml:"api_key" env:"TAVILY_API_KEY"`
	MaxResults int    `yaml:"max_results" env:"TAVILY_MAX_RESULTS" env-default:"5"`
	Timeout    int    `yaml:"timeout" env:"TAVILY_TIMEOUT" env-default:"30"`
}

type SessionConfig struct {
	Backend string `yaml:"backend" env:"SESSION_BACKEND" env-default:"memory"`
	DSN     string `yaml:"dsn" env:"SESSION_DSN" env-default:"file::memory:?cache=shared"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from config.yaml and environment variables
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	// A missing or unreadable file is not fatal, env vars and defaults still apply.
	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	return &cfg, nil
}

// Validate reports every missing API key in a single error.
func (c *Config) Validate() error {
	var missing []string
	if c.Tavily.APIKey == "" {
		missing = append(missing, "TAVILY_API_KEY")
	}
	switch c.AI.Plugin {
	case "together":
		if c.AI.Together.APIKey == "" {
			missing = append(missing, "TOGETHER_API_KEY")
		}
	case "gemini":
		if c.AI.Gemini.APIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown AI plugin %q (expected together, gemini or ollama)", c.AI.Plugin)
	}
	if c.Google.APIKey == "" {
		missing = append(missing, "GPLACES_API_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing API keys: %s", strings.Join(missing, ", "))
	}
	return nil
}
