package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides (QUEUEBOT_BOT_TOKEN, ...).
const EnvPrefix = "QUEUEBOT"

// FileName is the config file looked up in the config directory.
const FileName = "config.json"

// DefaultNotifyInterval is how often the notifier scans for the next entry.
const DefaultNotifyInterval = 10 * time.Second

// Config represents the queuebot configuration.
type Config struct {
	BotToken       string        `json:"bot_token,omitempty" envconfig:"BOT_TOKEN"`
	AdminIDs       []int64       `json:"admin_ids" envconfig:"ADMIN_IDS" validate:"dive,gt=0"`
	DBPath         string        `json:"db_path" envconfig:"DB_PATH" validate:"required"`
	NotifyInterval time.Duration `json:"notify_interval" envconfig:"NOTIFY_INTERVAL" validate:"gte=1s"`
	LogLevel       string        `json:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=panic fatal error warn warning info debug trace"`
}

// fileConfig mirrors Config with a human-readable interval ("10s").
type fileConfig struct {
	BotToken       string  `json:"bot_token,omitempty"`
	AdminIDs       []int64 `json:"admin_ids"`
	DBPath         string  `json:"db_path,omitempty"`
	NotifyInterval string  `json:"notify_interval,omitempty"`
	LogLevel       string  `json:"log_level,omitempty"`
}

// Default returns a config with every optional field populated.
func Default() *Config {
	return &Config{
		DBPath:         DefaultDBPath(),
		NotifyInterval: DefaultNotifyInterval,
		LogLevel:       "info",
	}
}

// LoadConfig builds the configuration for the given directory.
// Resolution order: defaults, then dir/config.json (optional), then dir/.env
// and the process environment (QUEUEBOT_*). The result is validated.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.applyFile(data); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(data []byte) error {
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return err
	}

	c.BotToken = fc.BotToken
	c.AdminIDs = fc.AdminIDs
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.NotifyInterval != "" {
		d, err := time.ParseDuration(fc.NotifyInterval)
		if err != nil {
			return fmt.Errorf("notify_interval: %w", err)
		}
		c.NotifyInterval = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireBotToken fails when no chat token is configured. Only the serve
// command needs one; operator commands work against the database alone.
func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("bot token is not configured (set bot_token in %s or %s_BOT_TOKEN)", FileName, EnvPrefix)
	}
	return nil
}

// Admins returns the immutable administrator set for this config.
func (c *Config) Admins() AdminSet {
	return NewAdminSet(c.AdminIDs)
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	fc := fileConfig{
		BotToken:       cfg.BotToken,
		AdminIDs:       cfg.AdminIDs,
		DBPath:         cfg.DBPath,
		NotifyInterval: cfg.NotifyInterval.String(),
		LogLevel:       cfg.LogLevel,
	}
	if fc.AdminIDs == nil {
		fc.AdminIDs = []int64{}
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultDir returns ~/.queuebot, or a relative .queuebot if the home
// directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".queuebot"
	}
	return filepath.Join(home, ".queuebot")
}

// DefaultDBPath returns the database path inside DefaultDir.
func DefaultDBPath() string {
	return filepath.Join(DefaultDir(), "queue.db")
}
