// Package config loads etapa's settings from a YAML file under the user's
// config directory, then applies ETAPA_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/etapa/internal/config/colors"
	"github.com/thenoetrevino/etapa/internal/models"
)

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig     `yaml:"database"`
	Board       BoardConfig        `yaml:"board"`
	API         APIConfig          `yaml:"api"`
	Notify      NotifyConfig       `yaml:"notify"`
	KeyMappings KeyMappings        `yaml:"key_mappings"`
	ColorScheme colors.ColorScheme `yaml:"theme"`
}

// DatabaseConfig selects the position store backend
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite, a connection URL for postgres.
	// Empty means ~/.etapa/etapa.db.
	DSN string `yaml:"dsn"`
}

// BoardConfig holds the board behaviour shared by the store and the controller
type BoardConfig struct {
	Tenant        string `yaml:"tenant"`
	ArchivePolicy string `yaml:"archive_policy"`
	AdjacentOnly  bool   `yaml:"adjacent_only"`
}

// APIConfig configures both sides of the HTTP surface. Addr and Tokens are
// read by `etapa serve`; BaseURL and Token by clients. An empty BaseURL means
// the board talks to the database directly.
type APIConfig struct {
	Addr    string              `yaml:"addr"`
	BaseURL string              `yaml:"base_url"`
	Token   string              `yaml:"token"`
	Tokens  map[string][]string `yaml:"tokens"`
}

// NotifyConfig enables the redis notification sink when RedisURL is set
type NotifyConfig struct {
	RedisURL      string `yaml:"redis_url"`
	ChannelPrefix string `yaml:"channel_prefix"`
	History       int    `yaml:"history"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		cfg := Default()
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	return LoadFile(configPath)
}

// LoadFile loads config from path; a missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	loadThemeFile(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(configPath)
}

// SaveFile writes the config as YAML, creating the directory if needed
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx":
	default:
		return fmt.Errorf("%w: unknown database driver %q", models.ErrInvalidArgument, c.Database.Driver)
	}
	if _, err := models.ParseArchivePolicy(c.Board.ArchivePolicy); err != nil {
		return err
	}
	if c.Notify.History < 0 {
		return fmt.Errorf("%w: notify.history cannot be negative", models.ErrInvalidArgument)
	}
	return nil
}

// ArchivePolicy returns the parsed board archive policy
func (c *Config) ArchivePolicy() models.ArchivePolicy {
	p, err := models.ParseArchivePolicy(c.Board.ArchivePolicy)
	if err != nil {
		return models.ArchiveDeleteDeals
	}
	return p
}

// Path returns the path to the config file
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "etapa", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "etapa", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Board.Tenant == "" {
		c.Board.Tenant = "default"
	}
	if c.Board.ArchivePolicy == "" {
		c.Board.ArchivePolicy = string(models.ArchiveDeleteDeals)
	}
	if c.API.Addr == "" {
		c.API.Addr = "127.0.0.1:8787"
	}
	if c.Notify.ChannelPrefix == "" {
		c.Notify.ChannelPrefix = "etapa:notify:"
	}
	if c.Notify.History == 0 {
		c.Notify.History = 50
	}
	c.KeyMappings.applyDefaults()
	c.ColorScheme.ApplyDefaults()
}

// applyEnv overrides file values with ETAPA_* variables that are set
func (c *Config) applyEnv() {
	c.Database.Driver = getenv("ETAPA_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getenv("ETAPA_DB_DSN", c.Database.DSN)
	c.Board.Tenant = getenv("ETAPA_TENANT", c.Board.Tenant)
	c.Board.ArchivePolicy = getenv("ETAPA_ARCHIVE_POLICY", c.Board.ArchivePolicy)
	c.Board.AdjacentOnly = getenvBool("ETAPA_ADJACENT_ONLY", c.Board.AdjacentOnly)
	c.API.Addr = getenv("ETAPA_API_ADDR", c.API.Addr)
	c.API.BaseURL = getenv("ETAPA_API_URL", c.API.BaseURL)
	c.API.Token = getenv("ETAPA_API_TOKEN", c.API.Token)
	c.Notify.RedisURL = getenv("ETAPA_REDIS_URL", c.Notify.RedisURL)
	c.Notify.History = getenvInt("ETAPA_NOTIFY_HISTORY", c.Notify.History)
}

// loadThemeFile merges the theme from ETAPA_THEME_FILE when it points at a
// readable YAML file
func loadThemeFile(cfg *Config) {
	themeFile := os.Getenv("ETAPA_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme colors.ColorScheme `yaml:"theme"`
	}
	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		cfg.ColorScheme.MergeFrom(themeConfig.Theme)
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
