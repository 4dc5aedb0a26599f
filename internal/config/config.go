package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Everything comes from the environment
// (optionally seeded from a .env file in the working directory).
type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Telegram struct {
		BotToken      string `env:"BOT_TOKEN"`
		AdminID       int64  `env:"ADMIN_ID" envDefault:"0"`
		UseWebhook    bool   `env:"TG_USE_WEBHOOK" envDefault:"false"`
		WebhookSecret string `env:"TG_WEBHOOK_SECRET"`
	}

	Download struct {
		Dir     string        `env:"DOWNLOAD_DIR" envDefault:"downloads"`
		Timeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"5m"`
	}

	DBPath string `env:"DB_PATH" envDefault:"clipfetch.db"`
	Addr   string `env:"ADDR" envDefault:":8080"`
}

// ErrNoToken is reported when BOT_TOKEN is missing from the environment.
// main turns it into a plain operator-facing message, not a stack trace.
var ErrNoToken = errors.New("BOT_TOKEN environment variable not set")

// ErrNoWebhookSecret is reported when webhook transport is enabled without a
// secret. An unsecured webhook would accept forged updates from anyone who
// can reach the listen address.
var ErrNoWebhookSecret = errors.New("TG_USE_WEBHOOK requires TG_WEBHOOK_SECRET to be set")

func Load() (*Config, error) {
	// A .env file is a convenience for local runs; in production the
	// variables are set directly, so a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Telegram.BotToken == "" {
		return nil, ErrNoToken
	}
	if cfg.Telegram.UseWebhook && cfg.Telegram.WebhookSecret == "" {
		return nil, ErrNoWebhookSecret
	}
	return cfg, nil
}
