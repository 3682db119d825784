package config

import (
	"fmt"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Files locates the record files. It can be loaded on its own for offline
// inspection, without a bot token.
type Files struct {
	BalancesPath     string `envconfig:"CSV_FILE_PATH" default:"user_reactions.csv"`
	IgnoredUsersPath string `envconfig:"IGNORED_USERS_FILE_PATH" default:"ignored_users.csv"`
	RewardsPath      string `envconfig:"REWARDS_FILE_PATH" default:"rewards.csv"`
}

type Config struct {
	// Discord Bot
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`

	Files

	// Credits
	ReactionIncrement int    `envconfig:"REACTION_INCREMENT" default:"1"`
	RecuerdatePrice   int    `envconfig:"RECUERDATE_PRICE" default:"5"`
	TargetChannelID   uint64 `envconfig:"TARGET_CHANNEL_ID" default:"0"`
	FlushSchedule     string `envconfig:"FLUSH_SCHEDULE" default:"@every 5m"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Discord OAuth2
	DiscordClientID     string `envconfig:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `envconfig:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI  string `envconfig:"DISCORD_REDIRECT_URI" default:"http://localhost:3000/api/auth/callback"`

	// Web Server
	WebBind      string `envconfig:"WEB_BIND" default:"0.0.0.0:3000"`
	WebUIBaseURL string `ignored:"true"`

	// Session
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-only-change-me"`
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.WebUIBaseURL = extractBaseURL(cfg.DiscordRedirectURI)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadFiles() (*Files, error) {
	_ = godotenv.Load()

	var files Files
	if err := envconfig.Process("", &files); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &files, nil
}

func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.ReactionIncrement <= 0 {
		return fmt.Errorf("REACTION_INCREMENT must be > 0")
	}
	if c.RecuerdatePrice <= 0 {
		return fmt.Errorf("RECUERDATE_PRICE must be > 0")
	}
	return nil
}

// OAuthEnabled reports whether the web login flow can be offered.
func (c *Config) OAuthEnabled() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != ""
}

func extractBaseURL(redirectURI string) string {
	// e.g., "http://localhost:3000/api/auth/callback" -> "http://localhost:3000"
	parsed, err := url.Parse(redirectURI)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "http://localhost:3000"
	}

	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
}
