package config

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

const (
	HistoryDriverNone     = ""
	HistoryDriverPostgres = "postgres"
	HistoryDriverSQLite   = "sqlite"
)

// HistoryConfig selects where fetched prices are archived. An empty driver disables history.
type HistoryConfig struct {
	Driver    string         `mapstructure:"driver"`
	Retention time.Duration  `mapstructure:"retention"` // rows older than this are pruned; 0 keeps everything
	SQLite    SQLiteConfig   `mapstructure:"sqlite"`
	Postgres  PostgresConfig `mapstructure:"postgres"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig defines the configuration for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`

	// "prod" pulls host and credentials from AWS Parameter Store
	Environment string `mapstructure:"environment"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Parameter Store names read in prod.
const (
	ParamDBHost     = "CRYPTOTICKER_DB_HOST"
	ParamDBUser     = "CRYPTOTICKER_DB_USER"
	ParamDBPassword = "CRYPTOTICKER_DB_PASSWORD"
)

// ParameterLookup resolves a named secret; empty string means unavailable.
type ParameterLookup func(name string, decrypt bool) string

func (cfg *PostgresConfig) DSN() string {
	return cfg.DSNWith(getParameterStoreValue)
}

// DSNWith builds the DSN, consulting lookup for host and credentials in prod.
func (cfg *PostgresConfig) DSNWith(lookup ParameterLookup) string {
	host, user, password := cfg.credentials(lookup)
	return cfg.dsn(host, user, password, cfg.DBName)
}

// ServerDSN targets the maintenance "postgres" database, used to create DBName.
func (cfg *PostgresConfig) ServerDSN() string {
	host, user, password := cfg.credentials(getParameterStoreValue)
	return cfg.dsn(host, user, password, "postgres")
}

func (cfg *PostgresConfig) credentials(lookup ParameterLookup) (host, user, password string) {
	if cfg.Environment == "prod" {
		return lookup(ParamDBHost, true), lookup(ParamDBUser, true), lookup(ParamDBPassword, true)
	}
	return cfg.Host, cfg.User, cfg.Password
}

func (cfg *PostgresConfig) dsn(host, user, password, dbname string) string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, cfg.Port, user, password, dbname, cfg.SSLMode,
	)

	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}

	return dsn
}

func getParameterStoreValue(parameterName string, decrypt bool) string {
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctxWithTimeout)
	if err != nil {
		return ""
	}

	client := ssm.NewFromConfig(cfg)

	input := &ssm.GetParameterInput{
		Name:           &parameterName,
		WithDecryption: &decrypt,
	}

	result, err := client.GetParameter(ctxWithTimeout, input)
	if err != nil {
		return ""
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return ""
	}

	return *result.Parameter.Value
}
