package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const AppName = "cryptoticker"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Ticker  TickerConfig  `mapstructure:"ticker"`
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"` // directory holding <asset_id>.json entries
	TTL     time.Duration `mapstructure:"ttl"`
}

type TickerConfig struct {
	Interval   time.Duration     `mapstructure:"interval"`
	ShortNames map[string]string `mapstructure:"short_names"` // asset id -> display prefix, e.g. litecoin: ltc
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load reads config.yaml from the standard search paths and applies
// CRYPTOTICKER_* environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	for _, dir := range searchPaths() {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// Support environment variables with dot notation (e.g., CRYPTOTICKER_API_BASE_URL)
	v.SetEnvPrefix("CRYPTOTICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir()
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = filepath.Join(cfg.Cache.Dir, "history.db")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.coinmarketcap.com/v1/ticker/")
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", 30*time.Minute)

	v.SetDefault("ticker.interval", 90*time.Second)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "dev")

	v.SetDefault("history.driver", "")
	v.SetDefault("history.retention", time.Duration(0))
	v.SetDefault("history.sqlite.path", "")
	v.SetDefault("history.postgres.host", "localhost")
	v.SetDefault("history.postgres.port", 5432)
	v.SetDefault("history.postgres.user", "postgres")
	v.SetDefault("history.postgres.dbname", AppName)
	v.SetDefault("history.postgres.sslmode", "disable")
	v.SetDefault("history.postgres.environment", "dev")
	v.SetDefault("history.postgres.max_open_conns", 2)
	v.SetDefault("history.postgres.max_idle_conns", 1)
	v.SetDefault("history.postgres.conn_max_lifetime", time.Hour)
}

// searchPaths lists config directories in priority order.
func searchPaths() []string {
	paths := []string{"./config"}

	if ex, err := os.Executable(); err == nil && !strings.Contains(ex, "go-build") {
		paths = append(paths, filepath.Join(filepath.Dir(ex), "../config"))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, AppName))
	}
	return paths
}

// DefaultCacheDir is the per-user cache directory for this process.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(os.TempDir(), AppName)
}
