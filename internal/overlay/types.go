// Package overlay keeps parsed user overlays so they can be fetched again by
// their batch token.
package overlay

import (
	"context"
	"io"
	"time"

	"github.com/interactors-overlay/internal/domain"
)

// Overlay is one stored parse result.
type Overlay struct {
	ID               int64                `json:"id,omitempty"`
	Token            string               `json:"token"`
	Format           string               `json:"format"`
	Interactions     []domain.Interaction `json:"interactions"`
	Warnings         []string             `json:"warnings,omitempty"`
	InteractionCount int                  `json:"interaction_count"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// FromSummary builds the stored form of a pipeline summary.
func FromSummary(s *domain.OverlaySummary) *Overlay {
	warnings := make([]string, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		warnings = append(warnings, w.Text)
	}
	return &Overlay{
		Token:            s.Token,
		Format:           s.Format,
		Interactions:     s.Interactions,
		Warnings:         warnings,
		InteractionCount: len(s.Interactions),
	}
}

// normalize replaces nil slices so stored columns never hold null.
func (o *Overlay) normalize() {
	if o.Interactions == nil {
		o.Interactions = []domain.Interaction{}
	}
	if o.Warnings == nil {
		o.Warnings = []string{}
	}
}

// Store defines the interface for overlay storage operations.
type Store interface {
	// Save stores an overlay, replacing any overlay with the same token.
	Save(ctx context.Context, overlay *Overlay) error

	// Get retrieves the overlay for a token. It returns nil, nil when absent.
	Get(ctx context.Context, token string) (*Overlay, error)

	// List returns overlays, newest first.
	List(ctx context.Context, limit, offset int) ([]*Overlay, error)

	// Count returns the number of stored overlays.
	Count(ctx context.Context) (int64, error)

	// Delete removes the overlay for a token.
	Delete(ctx context.Context, token string) error

	// ExportJSON writes every overlay to writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON loads overlays written by ExportJSON, skipping tokens that
	// already exist.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string     `json:"version"`
	ExportedAt time.Time  `json:"exported_at"`
	Count      int        `json:"count"`
	Overlays   []*Overlay `json:"overlays"`
}

const exportVersion = "1.0"

// maxExportLimit is the maximum number of overlays exported at once.
const maxExportLimit = 1000000
