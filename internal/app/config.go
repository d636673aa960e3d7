// Package app provides application-level configuration and initialization.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lazyvibe/propertydesk/internal/notify"
	"github.com/lazyvibe/propertydesk/internal/store"
	"github.com/lazyvibe/propertydesk/pkg/utils"
)

// BackendRemote selects the HTTP gateway instead of a local store.
const BackendRemote = "remote"

// Config keys. They double as JSON field names in config.json.
const (
	KeyBackend       = "backend"
	KeyDataDir       = "data_dir"
	KeyRemoteURL     = "remote_url"
	KeyListenAddr    = "listen_addr"
	KeyPriceMax      = "price_max"
	KeyMinSearchLen  = "min_search_len"
	KeyLogLevel      = "log_level"
	KeyNotifyDesktop = "notify_desktop"
	KeyNotifyWebhook = "notify_webhook"
)

// EnvPrefix prefixes environment overrides, e.g. PROPERTYDESK_BACKEND.
const EnvPrefix = "PROPERTYDESK"

// Config holds the application configuration.
type Config struct {
	// Backend is json, sqlite or remote.
	Backend string `mapstructure:"backend" json:"backend"`
	// DataDir holds the local store. Empty means the config directory.
	DataDir string `mapstructure:"data_dir" json:"data_dir,omitempty"`
	// RemoteURL is the propertydesk server used by the remote backend.
	RemoteURL string `mapstructure:"remote_url" json:"remote_url,omitempty"`
	// ListenAddr is where serve listens.
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	// PriceMax is the upper bound of the price filter.
	PriceMax float64 `mapstructure:"price_max" json:"price_max"`
	// MinSearchLen is the shortest term that triggers a search.
	MinSearchLen int    `mapstructure:"min_search_len" json:"min_search_len"`
	LogLevel     string `mapstructure:"log_level" json:"log_level"`

	NotifyDesktop bool   `mapstructure:"notify_desktop" json:"notify_desktop"`
	NotifyWebhook string `mapstructure:"notify_webhook" json:"notify_webhook,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:      store.BackendJSON,
		ListenAddr:   "127.0.0.1:8484",
		PriceMax:     10000000,
		MinSearchLen: 3,
		LogLevel:     "info",
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath(configDir string) string {
	return filepath.Join(configDir, "config.json")
}

// NewViper returns a viper instance seeded with defaults, the config file
// location and environment overrides. Flags are bound by the caller.
func NewViper(configDir string) *viper.Viper {
	d := DefaultConfig()
	v := viper.New()
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyRemoteURL, d.RemoteURL)
	v.SetDefault(KeyListenAddr, d.ListenAddr)
	v.SetDefault(KeyPriceMax, d.PriceMax)
	v.SetDefault(KeyMinSearchLen, d.MinSearchLen)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyNotifyDesktop, d.NotifyDesktop)
	v.SetDefault(KeyNotifyWebhook, d.NotifyWebhook)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the config file, if any, and decodes the merged
// settings. A missing config.json is not an error.
func LoadConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	config.Backend = strings.ToLower(strings.TrimSpace(config.Backend))
	if config.DataDir != "" {
		config.DataDir = utils.ExpandPath(config.DataDir)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks option combinations.
func (c *Config) Validate() error {
	switch c.Backend {
	case store.BackendJSON, store.BackendSQLite:
	case BackendRemote:
		if c.RemoteURL == "" {
			return fmt.Errorf("backend %q requires %s", BackendRemote, KeyRemoteURL)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.PriceMax <= 0 {
		return fmt.Errorf("%s must be positive", KeyPriceMax)
	}
	if c.MinSearchLen < 1 {
		return fmt.Errorf("%s must be at least 1", KeyMinSearchLen)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// StoreDir returns the directory of the local store.
func (c *Config) StoreDir(configDir string) string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return configDir
}

// Notify returns the notification channels.
func (c *Config) Notify() notify.Config {
	return notify.Config{Desktop: c.NotifyDesktop, WebhookURL: c.NotifyWebhook}
}

// SaveConfig saves the configuration to disk.
func SaveConfig(configDir string, config *Config) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(configDir), data, 0644)
}
