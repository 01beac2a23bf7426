// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type SweepConfig struct {
	// Cron expression for the reservation lifecycle sweep. Cadence is a
	// tuning knob, not a correctness requirement; the sweep endpoint can
	// always be triggered manually.
	Cron    string `yaml:"cron"`
	Enabled bool   `yaml:"enabled"`
}

type AuthConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl"`
	// DefaultRegion is the ISO country code used when validating phone
	// numbers given without an international prefix.
	DefaultRegion string `yaml:"default_region"`
}

// UnmarshalYAML accepts session_ttl as a duration string like "8h" or "45m".
// Fields absent from the document keep their current values.
func (a *AuthConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		SessionTTL    string `yaml:"session_ttl"`
		DefaultRegion string `yaml:"default_region"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.SessionTTL != "" {
		d, err := time.ParseDuration(raw.SessionTTL)
		if err != nil {
			return fmt.Errorf("invalid session_ttl %q: %w", raw.SessionTTL, err)
		}
		a.SessionTTL = d
	}
	if raw.DefaultRegion != "" {
		a.DefaultRegion = raw.DefaultRegion
	}
	return nil
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Auth     AuthConfig     `yaml:"auth"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with working development defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "courtbook"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "data/courtbook.db"
	cfg.Sweep.Cron = "* * * * *"
	cfg.Sweep.Enabled = true
	cfg.Auth.SessionTTL = 8 * time.Hour
	cfg.Auth.DefaultRegion = "US"
	return cfg
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}

	if c.Sweep.Enabled {
		if c.Sweep.Cron == "" {
			return fmt.Errorf("sweep cron expression is required")
		}
		if _, err := cron.ParseStandard(c.Sweep.Cron); err != nil {
			return fmt.Errorf("invalid sweep cron expression %q: %w", c.Sweep.Cron, err)
		}
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth session ttl must be positive")
	}

	return nil
}
