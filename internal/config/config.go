// /internal/config/config.go
package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// Config holds the process settings read from the environment.
type Config struct {
	DiscordToken string  `env:"DISCORD_TOKEN,required,notEmpty"`
	EventConfig  string  `env:"EVENT_CONFIG" envDefault:"config.json"`
	StoragePath  string  `env:"STORAGE_PATH" envDefault:"datastore.json"`
	LogLevel     string  `env:"LOG_LEVEL" envDefault:"info"`
	LogFile      string  `env:"LOG_FILE"`
	MetricsAddr  string  `env:"METRICS_ADDR"`
	APIRate      float64 `env:"API_RATE" envDefault:"5"`
	APIRateMax   float64 `env:"API_RATE_MAX" envDefault:"20"`
}

func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.APIRateMax < cfg.APIRate {
		cfg.APIRateMax = cfg.APIRate
	}
	return &cfg, nil
}
