// Package repository persists finalized interaction batches to the
// relational interactor store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/interactors-overlay/internal/domain"
)

// InteractionRepository handles interactor and interaction persistence
type InteractionRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// StoredInteractor is an interactor row.
type StoredInteractor struct {
	ID       int64
	Acc      string
	Resource string
	Alias    string
	TaxID    string
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *pgxpool.Pool, logger *logrus.Logger) *InteractionRepository {
	return &InteractionRepository{
		db:  db,
		log: logger,
	}
}

// SaveBatch writes every interaction of a batch under resourceName in a
// single transaction and returns the number of interactions stored.
func (r *InteractionRepository) SaveBatch(ctx context.Context, resourceName string, interactions []domain.Interaction) (int, error) {
	if resourceName == "" {
		return 0, fmt.Errorf("resource name is required")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	resourceID, err := r.interactionResourceID(ctx, tx, resourceName)
	if err != nil {
		return 0, err
	}

	interactors := make(map[string]int64)
	saved := 0
	for _, in := range interactions {
		idA, err := r.upsertInteractor(ctx, tx, interactors, in.InteractorIDA, in.AliasA, in.TaxIDA)
		if err != nil {
			return 0, err
		}
		idB, err := r.upsertInteractor(ctx, tx, interactors, in.InteractorIDB, in.AliasB, in.TaxIDB)
		if err != nil {
			return 0, err
		}

		var score *float64
		if in.HasScore() {
			score = domain.Float64(domain.RoundScore(*in.Score))
		}

		var interactionID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO interaction (interactor_a, interactor_b, author_score, interaction_resource_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			idA, idB, score, resourceID,
		).Scan(&interactionID)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"interactor_a": in.InteractorIDA,
				"interactor_b": in.InteractorIDB,
				"error":        err,
			}).Error("Failed to insert interaction")
			return 0, fmt.Errorf("inserting interaction %s: %w", in.PairKey(), err)
		}

		for _, ac := range in.Evidences() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO interaction_details (interaction_id, interaction_ac) VALUES ($1, $2)`,
				interactionID, ac,
			); err != nil {
				return 0, fmt.Errorf("inserting interaction details: %w", err)
			}
		}
		saved++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"resource":     resourceName,
		"interactions": saved,
		"interactors":  len(interactors),
	}).Info("Interaction batch stored")

	return saved, nil
}

func (r *InteractionRepository) interactionResourceID(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO interaction_resource (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		strings.ToLower(name),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("resolving interaction resource %q: %w", name, err)
	}
	return id, nil
}

// upsertInteractor keeps the first alias and taxid seen for an accession.
func (r *InteractionRepository) upsertInteractor(ctx context.Context, tx pgx.Tx, seen map[string]int64, acc, alias, taxID string) (int64, error) {
	if id, ok := seen[acc]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO interactor (acc, interactor_resource_id, alias, taxid)
		SELECT $1, ir.id, NULLIF($3, ''), NULLIF($4, '')
		FROM interactor_resource ir
		WHERE ir.name = $2
		ON CONFLICT (acc) DO UPDATE SET
			alias = COALESCE(interactor.alias, EXCLUDED.alias),
			taxid = COALESCE(interactor.taxid, EXCLUDED.taxid)
		RETURNING id`,
		acc, domain.DatabaseName(acc), alias, taxID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storing interactor %s: %w", acc, err)
	}

	seen[acc] = id
	return id, nil
}

// CountInteractions returns the number of interactions stored under a resource.
func (r *InteractionRepository) CountInteractions(ctx context.Context, resourceName string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM interaction i
		JOIN interaction_resource r ON r.id = i.interaction_resource_id
		WHERE r.name = $1`,
		strings.ToLower(resourceName),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting interactions: %w", err)
	}
	return count, nil
}

// GetInteractor retrieves an interactor by accession
func (r *InteractionRepository) GetInteractor(ctx context.Context, acc string) (*StoredInteractor, error) {
	var it StoredInteractor
	var alias, taxID *string
	err := r.db.QueryRow(ctx, `
		SELECT i.id, i.acc, ir.name, i.alias, i.taxid
		FROM interactor i
		JOIN interactor_resource ir ON ir.id = i.interactor_resource_id
		WHERE i.acc = $1`,
		acc,
	).Scan(&it.ID, &it.Acc, &it.Resource, &alias, &taxID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("interactor %s not found: %w", acc, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting interactor: %w", err)
	}
	if alias != nil {
		it.Alias = *alias
	}
	if taxID != nil {
		it.TaxID = *taxID
	}
	return &it, nil
}

// EvidencesFor returns the evidence accessions stored for interactions
// between two interactors, in either orientation.
func (r *InteractionRepository) EvidencesFor(ctx context.Context, accA, accB string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.interaction_ac
		FROM interaction_details d
		JOIN interaction i ON i.id = d.interaction_id
		JOIN interactor a ON a.id = i.interactor_a
		JOIN interactor b ON b.id = i.interactor_b
		WHERE (a.acc = $1 AND b.acc = $2) OR (a.acc = $2 AND b.acc = $1)
		ORDER BY d.id`,
		accA, accB,
	)
	if err != nil {
		return nil, fmt.Errorf("querying evidences: %w", err)
	}
	defer rows.Close()

	var evidences []string
	for rows.Next() {
		var ac string
		if err := rows.Scan(&ac); err != nil {
			return nil, fmt.Errorf("scanning evidence: %w", err)
		}
		evidences = append(evidences, ac)
	}
	return evidences, rows.Err()
}
