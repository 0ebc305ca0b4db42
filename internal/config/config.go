// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Game      GameConfig      `mapstructure:"game"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// StorageConfig selects where player documents live.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// GameConfig holds game rules that vary per deployment.
type GameConfig struct {
	// Timezone names the IANA zone whose calendar days bound challenges,
	// streaks and daily bonuses.
	Timezone    string        `mapstructure:"timezone"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// HTTPConfig holds the read-only API server configuration.
type HTTPConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Location resolves the game timezone.
func (g *GameConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", g.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// e.g. BOT_TOKEN, STORAGE_DRIVER, DATABASE_HOST, GAME_TIMEZONE
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is OK - env vars can provide all config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Keys without a real default are still registered so that
	// AutomaticEnv can fill them during Unmarshal.
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.poll_timeout", "10s")
	v.SetDefault("whitelist.chats", []int64{})

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "lucky-dice.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "luckydice")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "luckydice")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("game.timezone", "Local")
	v.SetDefault("game.lock_timeout", "5s")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.metrics", true)

	v.SetDefault("log.level", "info")
}

// Validate checks values viper cannot check by type.
func (c *Config) Validate() error {
	drivers := []string{DriverMemory, DriverSQLite, DriverPostgres}
	if !slices.Contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("unknown storage driver %q (want one of %s)", c.Storage.Driver, strings.Join(drivers, ", "))
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.SQLitePath == "" {
		return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
	}
	if _, err := c.Game.Location(); err != nil {
		return err
	}
	return nil
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	return slices.Contains(c.Whitelist.Chats, chatID)
}
