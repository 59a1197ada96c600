// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the configuration for the application.
type Config struct {
	// Telegram settings, required by the bot and unused by the CLI.
	TelegramBotToken   string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookURL string  `env:"TELEGRAM_WEBHOOK_URL"`
	TelegramAllowedIDs []int64 `env:"TELEGRAM_ALLOWED_USER_IDS" envSeparator:","`

	// Ghost settings; the recipe box sync stays off while they are empty.
	GhostURL        string `env:"GHOST_API_URL"`
	GhostContentKey string `env:"GHOST_CONTENT_API_KEY"`
	GhostAdminKey   string `env:"GHOST_ADMIN_API_KEY"`

	// File locations.
	CatalogPath  string `env:"CATALOG_PATH" envDefault:"catalog.json"`
	PantryPath   string `env:"PANTRY_PATH" envDefault:"pantry.json"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/meal-planner.db"`

	Port string `env:"PORT" envDefault:"8080"`
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.GhostAdminKey == "" {
		// Fallback for setups that only configure one Ghost key.
		cfg.GhostAdminKey = cfg.GhostContentKey
	}
	return cfg, nil
}

// ValidateTelegram checks the settings the bot cannot start without.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return errors.New("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

// GhostEnabled reports whether the Ghost integration is configured.
func (c *Config) GhostEnabled() bool {
	return c.GhostURL != "" && c.GhostContentKey != ""
}

// UserAllowed reports whether a Telegram user may talk to the bot. An empty
// allow-list leaves the bot open to everyone.
func (c *Config) UserAllowed(userID int64) bool {
	if len(c.TelegramAllowedIDs) == 0 {
		return true
	}
	for _, id := range c.TelegramAllowedIDs {
		if id == userID {
			return true
		}
	}
	return false
}
