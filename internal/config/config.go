// Package config loads client configuration from an optional YAML file with
// LEARNHUB_* environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration for the client and its tooling.
type Config struct {
	API       APIConfig `yaml:"api"`
	UI        UIConfig  `yaml:"ui"`
	LogFile   string    `yaml:"log_file" env:"LEARNHUB_LOG_FILE" env-default:"learnhub.log"`
	ExportDir string    `yaml:"export_dir" env:"LEARNHUB_EXPORT_DIR" env-default:"."`
}

// APIConfig points the client at the student records backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"LEARNHUB_API_URL" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env:"LEARNHUB_API_TIMEOUT" env-default:"10s"`
}

// UIConfig holds the interface timings.
type UIConfig struct {
	// NotificationTTL is how long a banner stays up before auto-hiding.
	NotificationTTL time.Duration `yaml:"notification_ttl" env:"LEARNHUB_NOTIFICATION_TTL" env-default:"5s"`
	// RedirectDelay is the pause between a successful mutation and the
	// follow-up navigation or refresh.
	RedirectDelay time.Duration `yaml:"redirect_delay" env:"LEARNHUB_REDIRECT_DELAY" env-default:"1500ms"`
}

// Load reads the config file at path when given, then applies environment
// overrides and defaults. An empty path uses environment and defaults only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from env: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base_url %q is not a valid http(s) URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base_url %q is not a valid http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %s", c.API.Timeout)
	}
	if c.UI.NotificationTTL <= 0 {
		return fmt.Errorf("ui notification_ttl must be positive, got %s", c.UI.NotificationTTL)
	}
	if c.UI.RedirectDelay <= 0 {
		return fmt.Errorf("ui redirect_delay must be positive, got %s", c.UI.RedirectDelay)
	}
	return nil
}
