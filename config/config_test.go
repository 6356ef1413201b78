package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// go test -v --run TestLoadFromFile
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
api:
  base_url: http://localhost:8080/ticker/
  timeout: 3s
cache:
  dir: ` + filepath.Join(dir, "cache") + `
  ttl: 5m
ticker:
  interval: 15s
  short_names:
    litecoin: ltc
log:
  level: debug
history:
  driver: sqlite
  retention: 720h
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8080/ticker/" || cfg.API.Timeout != 3*time.Second {
		t.Errorf("unexpected api config: %+v", cfg.API)
	}
	if cfg.Cache.TTL != 5*time.Minute || !cfg.Cache.Enabled {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Ticker.Interval != 15*time.Second || cfg.Ticker.ShortNames["litecoin"] != "ltc" {
		t.Errorf("unexpected ticker config: %+v", cfg.Ticker)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.History.Driver != HistoryDriverSQLite || cfg.History.Retention != 720*time.Hour {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if cfg.History.SQLite.Path != filepath.Join(dir, "cache", "history.db") {
		t.Errorf("expected sqlite path under cache dir, got %s", cfg.History.SQLite.Path)
	}
}

// go test -v --run TestLoadDefaults
func TestLoadDefaults(t *testing.T) {
	// run from an empty directory so no config.yaml is found in ./config
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://api.coinmarketcap.com/v1/ticker/" {
		t.Errorf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.Cache.TTL != 30*time.Minute || !cfg.Cache.Enabled {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if !strings.HasSuffix(cfg.Cache.Dir, AppName) {
		t.Errorf("expected cache dir ending in %s, got %s", AppName, cfg.Cache.Dir)
	}
	if cfg.Ticker.Interval != 90*time.Second {
		t.Errorf("unexpected interval: %v", cfg.Ticker.Interval)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("unexpected log level: %s", cfg.Log.Level)
	}
	if cfg.History.Driver != HistoryDriverNone {
		t.Errorf("history must be disabled by default, got %q", cfg.History.Driver)
	}
}

// go test -v --run TestLoadEnvOverride
func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  timeout: 3s\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CRYPTOTICKER_API_BASE_URL", "http://example.test/v1/ticker/")
	t.Setenv("CRYPTOTICKER_CACHE_ENABLED", "false")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://example.test/v1/ticker/" {
		t.Errorf("expected env override, got %s", cfg.API.BaseURL)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled by env")
	}
}

// go test -v --run TestLoadFromFileMissing
func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

// go test -v --run TestPostgresDSN
func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		DBName:   "cryptoticker",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	want := "host=localhost port=5432 user=postgres password=pw dbname=cryptoticker sslmode=disable TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("dev DSN:\n got  %s\n want %s", got, want)
	}

	cfg.Environment = "prod"
	secrets := map[string]string{
		ParamDBHost:     "db.internal",
		ParamDBUser:     "ticker",
		ParamDBPassword: "secret",
	}
	got := cfg.DSNWith(func(name string, decrypt bool) string {
		if !decrypt {
			t.Errorf("expected decrypted lookup for %s", name)
		}
		return secrets[name]
	})
	want = "host=db.internal port=5432 user=ticker password=secret dbname=cryptoticker sslmode=disable TimeZone=UTC"
	if got != want {
		t.Errorf("prod DSN:\n got  %s\n want %s", got, want)
	}
}
