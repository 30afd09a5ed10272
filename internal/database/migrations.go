package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// MigrationRunner applies the interactor schema migrations
type MigrationRunner struct {
	migrate *migrate.Migrate
	path    string
	log     *logrus.Logger
}

// NewMigrationRunner creates a runner for the migrations under migrationsPath.
func NewMigrationRunner(databaseURL, migrationsPath string, logger *logrus.Logger) (*MigrationRunner, error) {
	abs, err := filepath.Abs(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("resolving migrations path: %w", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(abs), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating migration instance: %w", err)
	}

	return &MigrationRunner{
		migrate: m,
		path:    abs,
		log:     logger,
	}, nil
}

// Up runs all pending migrations
func (mr *MigrationRunner) Up() error {
	mr.log.WithField("path", mr.path).Info("Running database migrations up")
	return mr.run("up", mr.migrate.Up)
}

// Down rolls back one migration
func (mr *MigrationRunner) Down() error {
	mr.log.WithField("path", mr.path).Info("Rolling back one migration")
	return mr.run("down", func() error { return mr.migrate.Steps(-1) })
}

// Reset rolls back every migration
func (mr *MigrationRunner) Reset() error {
	mr.log.WithField("path", mr.path).Warn("Rolling back all migrations")
	return mr.run("reset", mr.migrate.Down)
}

func (mr *MigrationRunner) run(direction string, step func() error) error {
	if err := step(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mr.log.WithField("direction", direction).Info("No migrations to apply")
			return nil
		}
		return fmt.Errorf("running migrations %s: %w", direction, err)
	}

	version, dirty, err := mr.migrate.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		mr.log.WithField("direction", direction).Info("Schema is at version zero")
	case err != nil:
		mr.log.WithError(err).Warn("Could not get migration version")
	default:
		mr.log.WithFields(logrus.Fields{
			"direction": direction,
			"version":   version,
			"dirty":     dirty,
		}).Info("Migrations completed successfully")
	}
	return nil
}

// Version returns the current migration version
func (mr *MigrationRunner) Version() (uint, bool, error) {
	return mr.migrate.Version()
}

// Close closes the migration runner
func (mr *MigrationRunner) Close() error {
	sourceErr, dbErr := mr.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("closing migration database: %w", dbErr)
	}
	return nil
}
