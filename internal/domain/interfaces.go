package domain

import (
	"context"
)

// BatchParser turns raw input lines into a batch of canonical interactions
type BatchParser interface {
	Parse(lines []string) (*InteractionBatch, error)
}

// LinkResolver builds external browse URLs for accessions and evidences
type LinkResolver interface {
	AccessionURL(acc, resourceName string) (string, error)
	EvidenceURL(evidences []string, resourceName string) (string, bool, error)
}

// InteractionStore persists a finalized, deduplicated batch
type InteractionStore interface {
	SaveBatch(ctx context.Context, resourceName string, interactions []Interaction) (int, error)
}

// OverlaySummary is what the pipeline hands to storage and display for one
// parsed input.
type OverlaySummary struct {
	Token            string        `json:"token"`
	Format           string        `json:"format"`
	Interactions     []Interaction `json:"interactions"`
	Warnings         []Message     `json:"warnings,omitempty"`
	Errors           []Message     `json:"errors,omitempty"`
	InteractionCount int           `json:"interaction_count"`
	DuplicatesMerged int           `json:"duplicates_merged"`
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	Reload() error
	Validate() error
}
