package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// RedisConfig holds connection settings for the job queue and mute set.
type RedisConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	DB   int    `mapstructure:"db" yaml:"db"`
}

// AIConfig holds settings for the extraction service integration.
type AIConfig struct {
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// ReminderConfig holds the reminder scheduling policy.
type ReminderConfig struct {
	// LeadMinutes is how far before the deadline the reminder fires.
	// This is the single authoritative lead time; the advisory value
	// carried on ParsedDeadline is not consulted.
	LeadMinutes int `mapstructure:"lead_minutes" yaml:"lead_minutes"`

	// Queue is the job queue name reminders are enqueued on.
	Queue string `mapstructure:"queue" yaml:"queue"`
}

// CalendarConfig holds settings for the calendar-event creator.
// An empty BaseURL disables event creation.
type CalendarConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Token   string `mapstructure:"token" yaml:"token"`
}

// NotificationConfig holds settings for user-visible alerts.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// LogConfig holds structured-logging preferences.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DBPath        string             `mapstructure:"db_path" yaml:"db_path"`
	Redis         RedisConfig        `mapstructure:"redis" yaml:"redis"`
	AI            AIConfig           `mapstructure:"ai" yaml:"ai"`
	Reminders     ReminderConfig     `mapstructure:"reminders" yaml:"reminders"`
	Calendar      CalendarConfig     `mapstructure:"calendar" yaml:"calendar"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/voicetask/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "voicetask", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dbPath := "voicetask.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".config", "voicetask", "voicetask.db")
	}
	return &AppConfig{
		DBPath: dbPath,
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		AI: AIConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 1024,
		},
		Reminders: ReminderConfig{
			LeadMinutes: 15,
			Queue:       "reminders",
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	def := defaultAppConfig()
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("redis.addr", def.Redis.Addr)
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("ai.model", def.AI.Model)
	v.SetDefault("ai.max_tokens", def.AI.MaxTokens)
	v.SetDefault("reminders.lead_minutes", def.Reminders.LeadMinutes)
	v.SetDefault("reminders.queue", def.Reminders.Queue)
	v.SetDefault("notifications.enabled", def.Notifications.Enabled)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("redis", cfg.Redis)
	v.Set("ai", cfg.AI)
	v.Set("reminders", cfg.Reminders)
	v.Set("calendar", cfg.Calendar)
	v.Set("notifications", cfg.Notifications)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
