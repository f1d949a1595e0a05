package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	// GeminiAPIKey may be empty; the assistant then answers with its fallback text.
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	LegacyAPIKey     string        `env:"API_KEY"`
	GeminiModel      string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL    string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	AssistantTimeout time.Duration `env:"ASSISTANT_TIMEOUT" envDefault:"30s"`

	WishlistAutoLogin bool `env:"WISHLIST_AUTO_LOGIN" envDefault:"true"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Printf("config: %v, falling back to defaults", err)
		cfg = defaults()
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = cfg.LegacyAPIKey
	}

	return cfg
}

func defaults() *Config {
	return &Config{
		AppPort:           "8080",
		AppEnv:            "development",
		GeminiModel:       "gemini-2.5-flash",
		GeminiBaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		AssistantTimeout:  30 * time.Second,
		WishlistAutoLogin: true,
		CORSOrigins:       []string{"http://localhost:3000"},
	}
}
