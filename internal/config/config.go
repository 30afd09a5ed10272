package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/interactors-overlay/internal/domain"
	"github.com/interactors-overlay/pkg/resource"
	"github.com/interactors-overlay/pkg/tuple"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v          *viper.Viper
	configFile string
	config     *domain.Config
}

var _ domain.ConfigManager = (*Manager)(nil)

// NewManager creates a configuration manager that searches the standard
// locations for config.yaml.
func NewManager() (*Manager, error) {
	return newManager("")
}

// NewManagerFromFile creates a configuration manager reading the given file.
func NewManagerFromFile(path string) (*Manager, error) {
	return newManager(path)
}

func newManager(configFile string) (*Manager, error) {
	m := &Manager{configFile: configFile}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from file, environment and defaults
func (m *Manager) loadConfig() error {
	v := viper.New()

	if m.configFile != "" {
		v.SetConfigFile(m.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/interactors-overlay/")
	}

	v.SetEnvPrefix("INTERACTORS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The config file is optional when searching; an explicit file must exist.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if m.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.v = v
	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Parser defaults
	v.SetDefault("parser.default_format", string(tuple.FormatTuple))
	v.SetDefault("parser.work_dir", "")

	// Database defaults
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "30m")

	v.SetDefault("migrations.path", "./migrations")

	// Overlay store defaults
	v.SetDefault("overlay.driver", "sqlite")
	v.SetDefault("overlay.sqlite_path", "./data/overlays.db")
	v.SetDefault("overlay.postgres_url", "")

	v.SetDefault("resources.default_interaction_url", resource.DefaultInteractionURL)
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetDatabaseConfig returns database configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetOverlayConfig returns the overlay store configuration
func (m *Manager) GetOverlayConfig() *domain.OverlayConfig {
	return &m.config.Overlay
}

// Catalog builds the resource URL catalog from the configuration.
func (m *Manager) Catalog() (*resource.Catalog, error) {
	return resource.FromConfig(m.config.Resources)
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if !strings.EqualFold(config.Parser.DefaultFormat, "auto") {
		if _, err := tuple.ParseFormat(config.Parser.DefaultFormat); err != nil {
			return fmt.Errorf("invalid parser default_format: %w", err)
		}
	}

	if config.Database.MaxConns < 0 || config.Database.MinConns < 0 {
		return fmt.Errorf("database connection limits must not be negative")
	}
	if config.Database.MaxConns > 0 && config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("database min_conns (%d) exceeds max_conns (%d)",
			config.Database.MinConns, config.Database.MaxConns)
	}

	switch strings.ToLower(config.Overlay.Driver) {
	case "sqlite":
		if config.Overlay.SQLitePath == "" {
			return fmt.Errorf("overlay sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if config.Overlay.PostgresURL == "" {
			return fmt.Errorf("overlay postgres_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid overlay driver: %s", config.Overlay.Driver)
	}

	if _, err := m.Catalog(); err != nil {
		return fmt.Errorf("invalid resource catalog: %w", err)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Environment) == "production"
}
