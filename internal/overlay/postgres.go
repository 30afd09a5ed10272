package overlay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lib/pq"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL overlay store.
// It expects the overlay table to exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a PostgreSQL overlay store from a connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

const pgSelectOverlay = `
	SELECT id, token, format, interactions, warnings,
		interaction_count, created_at, updated_at
	FROM overlay
`

func scanPostgresOverlay(s scanner) (*Overlay, error) {
	o := &Overlay{}
	var interactions []byte

	err := s.Scan(
		&o.ID, &o.Token, &o.Format, &interactions, pq.Array(&o.Warnings),
		&o.InteractionCount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(interactions, &o.Interactions); err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	return o, nil
}

// Save stores an overlay, replacing any overlay with the same token.
func (s *PostgresStore) Save(ctx context.Context, o *Overlay) error {
	o.normalize()
	interactions, err := json.Marshal(o.Interactions)
	if err != nil {
		return fmt.Errorf("failed to encode interactions: %w", err)
	}
	now := time.Now()
	o.InteractionCount = len(o.Interactions)

	query := `
		INSERT INTO overlay (
			token, format, interactions, warnings, interaction_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (token) DO UPDATE SET
			format = EXCLUDED.format,
			interactions = EXCLUDED.interactions,
			warnings = EXCLUDED.warnings,
			interaction_count = EXCLUDED.interaction_count,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		o.Token,
		o.Format,
		interactions,
		pq.Array(o.Warnings),
		o.InteractionCount,
		now,
		now,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}

	o.UpdatedAt = now
	return nil
}

// Get retrieves the overlay for a token.
func (s *PostgresStore) Get(ctx context.Context, token string) (*Overlay, error) {
	row := s.db.QueryRowContext(ctx, pgSelectOverlay+" WHERE token = $1", token)

	o, err := scanPostgresOverlay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get overlay: %w", err)
	}
	return o, nil
}

// List returns overlays, newest first.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Overlay, error) {
	rows, err := s.db.QueryContext(ctx,
		pgSelectOverlay+" ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlays: %w", err)
	}
	defer rows.Close()

	var result []*Overlay
	for rows.Next() {
		o, err := scanPostgresOverlay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, o)
	}

	return result, rows.Err()
}

// Count returns the number of stored overlays.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM overlay").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlays: %w", err)
	}
	return count, nil
}

// Delete removes the overlay for a token.
func (s *PostgresStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM overlay WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to delete overlay: %w", err)
	}
	return nil
}

// ExportJSON writes every overlay to writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return exportJSON(ctx, s, writer)
}

// ImportJSON loads overlays written by ExportJSON.
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	return importJSON(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
