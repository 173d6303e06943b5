// Package config loads craftwise configuration.
//
// Values come from, in increasing priority: built-in defaults, a TOML file,
// and CRAFTWISE_-prefixed environment variables (a .env file in the working
// directory is loaded first). Nested keys use underscores in the environment:
// pool.backend is CRAFTWISE_POOL_BACKEND.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppName names the config, data and cache directories.
const AppName = "craftwise"

// Config is the full craftwise configuration.
type Config struct {
	Pool    PoolConfig    `mapstructure:"pool"`
	Recipes RecipesConfig `mapstructure:"recipes"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`

	// File is the config file that was read, or empty if none was found.
	File string `mapstructure:"-"`
}

// PoolConfig selects and configures the resource pool store.
type PoolConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite redis mongo memory"`

	// Path is the JSON pool file for the file backend.
	Path string `mapstructure:"path" validate:"required_if=Backend file"`

	// DSN is the database file for the sqlite backend.
	DSN string `mapstructure:"dsn" validate:"required_if=Backend sqlite"`

	RedisAddr string `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisKey  string `mapstructure:"redis_key" validate:"required_if=Backend redis"`

	MongoURI        string `mapstructure:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string `mapstructure:"mongo_database" validate:"required_if=Backend mongo"`
	MongoCollection string `mapstructure:"mongo_collection" validate:"required_if=Backend mongo"`

	// Qualifiers restricts which leading words an imported item name may
	// carry and still merge into its canonical entry. Empty means any word.
	Qualifiers []string `mapstructure:"qualifiers" validate:"dive,required"`
}

// RecipeFile is a local recipe override document.
type RecipeFile struct {
	Path     string `mapstructure:"path" validate:"required"`
	Priority int    `mapstructure:"priority"`
}

// RecipesConfig lists the recipe sources.
type RecipesConfig struct {
	Bundled         bool `mapstructure:"bundled"`
	BundledPriority int  `mapstructure:"bundled_priority"`

	Files []RecipeFile `mapstructure:"files" validate:"dive"`

	RemoteURL      string `mapstructure:"remote_url" validate:"omitempty,url"`
	RemotePriority int    `mapstructure:"remote_priority"`

	// RefreshInterval reloads the recipe table periodically while serving.
	// Zero disables refresh.
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"gte=0"`
}

// CacheConfig configures the resolution and recipe document cache.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend" validate:"required,oneof=file memory redis none"`
	Dir       string        `mapstructure:"dir" validate:"required_if=Backend file"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gte=0"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`

	// RateLimit is the sustained request rate allowed on mutating routes,
	// per second.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gt=0"`
	Burst     int     `mapstructure:"burst" validate:"gte=1"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Load reads configuration. If path is empty, craftwise.toml is looked up in
// the user config directory and then the working directory; a missing file is
// not an error. An explicit path that does not exist is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("toml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// configDir returns $XDG_CONFIG_HOME/craftwise or ~/.config/craftwise.
func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DataDir returns $XDG_DATA_HOME/craftwise or ~/.local/share/craftwise.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", AppName)
	}
	return filepath.Join(os.TempDir(), AppName)
}

// CacheDir returns $XDG_CACHE_HOME/craftwise or ~/.cache/craftwise.
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", AppName)
	}
	return filepath.Join(os.TempDir(), AppName, "cache")
}
