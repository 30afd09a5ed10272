package overlay

import (
	"fmt"
	"strings"

	"github.com/interactors-overlay/internal/domain"
)

// Supported overlay store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewStore opens the store selected by cfg.
func NewStore(cfg domain.OverlayConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("overlay sqlite_path is required")
		}
		return NewSQLiteStore(cfg.SQLitePath)
	case DriverPostgres:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("overlay postgres_url is required")
		}
		return NewPostgresStoreFromURL(cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unsupported overlay driver %q", cfg.Driver)
	}
}
