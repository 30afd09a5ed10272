package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Parser      ParserConfig    `mapstructure:"parser"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Migrations  MigrationConfig `mapstructure:"migrations"`
	Overlay     OverlayConfig   `mapstructure:"overlay"`
	Resources   ResourceConfig  `mapstructure:"resources"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ParserConfig selects how input files are read.
type ParserConfig struct {
	DefaultFormat string `mapstructure:"default_format"` // "tuple", "psimitab"
	WorkDir       string `mapstructure:"work_dir"`       // directory for transient working files
}

// DatabaseConfig represents the relational interactor store connection
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// MigrationConfig points at the SQL migration files.
type MigrationConfig struct {
	Path string `mapstructure:"path"`
}

// OverlayConfig selects where parsed user overlays are kept.
type OverlayConfig struct {
	Driver      string `mapstructure:"driver"` // "sqlite", "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// ResourceConfig is the configurable resource URL catalog.
type ResourceConfig struct {
	DefaultInteractionURL string                `mapstructure:"default_interaction_url"`
	Entries               []ResourceEntryConfig `mapstructure:"entries"`
}

// ResourceEntryConfig describes the URL templates of one resource.
type ResourceEntryConfig struct {
	Name         string            `mapstructure:"name"`
	Protein      string            `mapstructure:"protein"`
	Chemical     string            `mapstructure:"chemical"`
	Isoform      string            `mapstructure:"isoform"`
	Interactions map[string]string `mapstructure:"interactions"`
	Multivalue   bool              `mapstructure:"multivalue"`
}
