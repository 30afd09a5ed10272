package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/interactors-overlay/internal/domain"
	"github.com/interactors-overlay/internal/overlay"
	"github.com/interactors-overlay/pkg/tuple"
)

// IngestService runs one input through parsing, deduplication and the
// optional storage collaborators.
//
// Deduplication by interactor B applies to PSI-MITAB input only. Tabular
// overlays already had repeated pairs removed by the parser's duplicate
// policy, and grouping them by B would merge distinct pairs the user listed
// on purpose, so they reach storage exactly as the parser returned them.
type IngestService struct {
	logger       *logrus.Logger
	workDir      string
	deduplicator *Deduplicator
	overlays     overlay.Store
	interactions domain.InteractionStore
	resourceName string
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithWorkDir sets where the tabular parser keeps its working copy.
func WithWorkDir(dir string) IngestOption {
	return func(s *IngestService) { s.workDir = dir }
}

// WithOverlayStore keeps every successful parse in store, keyed by its token.
func WithOverlayStore(store overlay.Store) IngestOption {
	return func(s *IngestService) { s.overlays = store }
}

// WithInteractionStore persists the final interactions under resourceName.
func WithInteractionStore(store domain.InteractionStore, resourceName string) IngestOption {
	return func(s *IngestService) {
		s.interactions = store
		s.resourceName = resourceName
	}
}

// NewIngestService creates a new ingest service
func NewIngestService(logger *logrus.Logger, opts ...IngestOption) *IngestService {
	s := &IngestService{
		logger:       logger,
		deduplicator: NewDeduplicator(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest parses lines in the given format. PSI-MITAB results are reduced
// to the best scored interaction per interactor B; tabular results skip
// that step. On a tabular validation failure the returned summary
// still lists every error and warning alongside the error.
func (s *IngestService) Ingest(ctx context.Context, format tuple.Format, lines []string) (*domain.OverlaySummary, error) {
	start := time.Now()
	s.logger.WithFields(logrus.Fields{
		"format": format,
		"lines":  len(lines),
	}).Info("Starting ingestion")

	parser, err := tuple.NewParser(format, s.workDir)
	if err != nil {
		return nil, err
	}

	batch, err := parser.Parse(lines)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.logger.WithFields(logrus.Fields{
				"format":   format,
				"errors":   len(verr.Messages),
				"warnings": len(verr.Warnings),
			}).Warn("Input failed validation")
			return &domain.OverlaySummary{
				Format:   string(format),
				Errors:   verr.Messages,
				Warnings: verr.Warnings,
			}, err
		}
		s.logger.WithError(err).WithField("format", format).Error("Failed to parse input")
		return nil, err
	}

	interactions := batch.Interactions()
	merged := 0
	if format == tuple.FormatPsimiTab {
		deduped := s.deduplicator.Dedupe(interactions)
		merged = len(interactions) - len(deduped)
		interactions = deduped
	}

	summary := &domain.OverlaySummary{
		Token:            batch.Token,
		Format:           string(format),
		Interactions:     interactions,
		Warnings:         batch.Warnings,
		InteractionCount: len(interactions),
		DuplicatesMerged: merged,
	}

	if s.interactions != nil {
		saved, err := s.interactions.SaveBatch(ctx, s.resourceName, interactions)
		if err != nil {
			return summary, fmt.Errorf("failed to store interactions: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"token":    summary.Token,
			"resource": s.resourceName,
			"saved":    saved,
		}).Info("Stored interactions")
	}

	if s.overlays != nil {
		if err := s.overlays.Save(ctx, overlay.FromSummary(summary)); err != nil {
			return summary, fmt.Errorf("failed to store overlay: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"token":             summary.Token,
		"format":            format,
		"interactions":      summary.InteractionCount,
		"warnings":          len(summary.Warnings),
		"duplicates_merged": merged,
		"processing_time":   time.Since(start),
	}).Info("Ingestion completed")

	return summary, nil
}
