package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Registry RegistryConfig `mapstructure:"registry"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	// File, when set, receives a text copy of every log record.
	File string `mapstructure:"file"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL may be empty only when the application runs on the in-memory store.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"omitempty,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RegistryConfig controls the settings registry.
type RegistryConfig struct {
	// FieldsFile replaces the built-in field table with one read from YAML.
	FieldsFile string `mapstructure:"fields_file" validate:"omitempty,file"`
	// CacheTTL enables a read-through cache for config lookups when positive.
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	// Autosetup reconciles the field table against the store on startup.
	Autosetup bool `mapstructure:"autosetup"`
}

// AuditConfig controls where audit events go besides the history table.
type AuditConfig struct {
	RecordHistory bool   `mapstructure:"record_history"`
	NATSURL       string `mapstructure:"nats_url" validate:"omitempty,url"`
}
