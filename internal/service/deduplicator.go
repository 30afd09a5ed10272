package service

import (
	"github.com/sirupsen/logrus"

	"github.com/interactors-overlay/internal/domain"
)

// Deduplicator keeps one interaction per interactor B accession. The same
// chemical or protein is often reached through several interaction records
// with different identifiers; only the best scored one is shown.
type Deduplicator struct {
	logger *logrus.Logger
}

// NewDeduplicator creates a deduplicator
func NewDeduplicator(logger *logrus.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// Dedupe returns one representative per InteractorIDB: the highest score,
// unscored records ranking lowest, the earliest record winning a tie.
// Groups appear in the order their key was first seen.
func (d *Deduplicator) Dedupe(interactions []domain.Interaction) []domain.Interaction {
	best := make(map[string]int, len(interactions))
	order := make([]string, 0, len(interactions))

	for i, interaction := range interactions {
		key := interaction.InteractorIDB
		current, seen := best[key]
		if !seen {
			best[key] = i
			order = append(order, key)
			continue
		}
		if interaction.ScoreValue() > interactions[current].ScoreValue() {
			best[key] = i
		}
	}

	out := make([]domain.Interaction, 0, len(order))
	for _, key := range order {
		out = append(out, interactions[best[key]])
	}

	if merged := len(interactions) - len(out); merged > 0 && d.logger != nil {
		d.logger.WithFields(logrus.Fields{
			"input":  len(interactions),
			"output": len(out),
			"merged": merged,
		}).Debug("Removed duplicated interactors")
	}
	return out
}
