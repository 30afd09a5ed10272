package overlay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens the overlay database at dbPath, creating the file
// and schema when missing.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS overlay (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		token TEXT NOT NULL UNIQUE,
		format TEXT NOT NULL,
		interactions TEXT NOT NULL DEFAULT '[]',
		warnings TEXT NOT NULL DEFAULT '[]',
		interaction_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_overlay_created_at ON overlay(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteOverlay(s scanner) (*Overlay, error) {
	o := &Overlay{}
	var interactions, warnings string

	err := s.Scan(
		&o.ID, &o.Token, &o.Format, &interactions, &warnings,
		&o.InteractionCount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(interactions), &o.Interactions); err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &o.Warnings); err != nil {
		return nil, fmt.Errorf("failed to decode warnings: %w", err)
	}
	return o, nil
}

// Save stores an overlay, replacing any overlay with the same token.
func (s *SQLiteStore) Save(ctx context.Context, o *Overlay) error {
	o.normalize()
	interactions, err := json.Marshal(o.Interactions)
	if err != nil {
		return fmt.Errorf("failed to encode interactions: %w", err)
	}
	warnings, err := json.Marshal(o.Warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}
	now := time.Now()
	o.InteractionCount = len(o.Interactions)

	var existingID int64
	var createdAt time.Time
	err = s.db.QueryRowContext(ctx,
		"SELECT id, created_at FROM overlay WHERE token = ?", o.Token,
	).Scan(&existingID, &createdAt)

	if err == nil {
		_, err = s.db.ExecContext(ctx, `
			UPDATE overlay SET
				format = ?,
				interactions = ?,
				warnings = ?,
				interaction_count = ?,
				updated_at = ?
			WHERE id = ?
		`, o.Format, string(interactions), string(warnings), o.InteractionCount, now, existingID)
		if err != nil {
			return fmt.Errorf("failed to update: %w", err)
		}
		o.ID = existingID
		o.CreatedAt = createdAt
		o.UpdatedAt = now
		return nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO overlay (
			token, format, interactions, warnings, interaction_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, o.Token, o.Format, string(interactions), string(warnings), o.InteractionCount, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	o.ID = id
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

// Get retrieves the overlay for a token.
func (s *SQLiteStore) Get(ctx context.Context, token string) (*Overlay, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, token, format, interactions, warnings,
			interaction_count, created_at, updated_at
		FROM overlay
		WHERE token = ?
	`, token)

	o, err := scanSQLiteOverlay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return o, nil
}

// List returns overlays, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Overlay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, token, format, interactions, warnings,
			interaction_count, created_at, updated_at
		FROM overlay
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Overlay
	for rows.Next() {
		o, err := scanSQLiteOverlay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

// Count returns the number of stored overlays.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM overlay").Scan(&count)
	return count, err
}

// Delete removes the overlay for a token.
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM overlay WHERE token = ?", token)
	return err
}

// ExportJSON writes every overlay to writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return exportJSON(ctx, s, writer)
}

// ImportJSON loads overlays written by ExportJSON.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	return importJSON(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
