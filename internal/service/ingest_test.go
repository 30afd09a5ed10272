package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/interactors-overlay/internal/domain"
	"github.com/interactors-overlay/internal/overlay"
	"github.com/interactors-overlay/pkg/tuple"
)

// MockInteractionStore is a mock implementation of domain.InteractionStore
type MockInteractionStore struct {
	mock.Mock
}

func (m *MockInteractionStore) SaveBatch(ctx context.Context, resourceName string, interactions []domain.Interaction) (int, error) {
	args := m.Called(ctx, resourceName, interactions)
	return args.Int(0), args.Error(1)
}

func mitab(idA, idB, confidence string) string {
	columns := []string{idA, idB}
	for i := 0; i < 12; i++ {
		columns = append(columns, "-")
	}
	return strings.Join(append(columns, confidence), "\t")
}

func TestIngestService_Tuple(t *testing.T) {
	s := NewIngestService(quietLogger(), WithWorkDir(t.TempDir()))

	summary, err := s.Ingest(context.Background(), tuple.FormatTuple, []string{
		"ID A\tID B\tSCORE",
		"P1\tCHEBI:16027\t0.8",
		"P2\tCHEBI:16027\t0.95",
		"CHEBI:16027\tP1\t0.1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, summary.Token)
	assert.Equal(t, "tuple", summary.Format)
	assert.Equal(t, 2, summary.InteractionCount)
	assert.Zero(t, summary.DuplicatesMerged, "tabular overlays are not collapsed by interactor B")
	require.Len(t, summary.Warnings, 2)
	for _, w := range summary.Warnings {
		assert.Equal(t, domain.KindDuplicateInteraction, w.Kind)
		assert.Equal(t, 4, w.Line)
	}
}

func TestIngestService_PsimiTabRepeatedPairKeepsBestScore(t *testing.T) {
	s := NewIngestService(quietLogger())

	summary, err := s.Ingest(context.Background(), tuple.FormatPsimiTab, []string{
		mitab("uniprotkb:P1", `chebi:"CHEBI:16027"`, "intact-miscore:0.8"),
		mitab("uniprotkb:P1", `chebi:"CHEBI:16027"`, "intact-miscore:0.95"),
	})
	require.NoError(t, err)

	require.Equal(t, 1, summary.InteractionCount)
	assert.Equal(t, 1, summary.DuplicatesMerged)
	require.NotNil(t, summary.Interactions[0].Score)
	assert.InDelta(t, 0.95, *summary.Interactions[0].Score, 1e-9)
}

func TestIngestService_TupleStrayQuoteKeepsLaterRows(t *testing.T) {
	s := NewIngestService(quietLogger(), WithWorkDir(t.TempDir()))

	summary, err := s.Ingest(context.Background(), tuple.FormatTuple, []string{
		"ID A\tID B",
		"P1\t\"P2",
		"P3\tP4",
		"P5\tP6",
	})
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	require.NotNil(t, summary)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 2, summary.Errors[0].Line)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 2, verr.Batch.Len())
}

func TestIngestService_PsimiTabDedupes(t *testing.T) {
	s := NewIngestService(quietLogger())

	summary, err := s.Ingest(context.Background(), tuple.FormatPsimiTab, []string{
		mitab("uniprotkb:P1", `chebi:"CHEBI:16027"`, "intact-miscore:0.8"),
		mitab("uniprotkb:P2", `chebi:"CHEBI:16027"`, "intact-miscore:0.95"),
		mitab("uniprotkb:P3", "uniprotkb:Q9", "-"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.InteractionCount)
	assert.Equal(t, 1, summary.DuplicatesMerged)
	require.Len(t, summary.Interactions, 2)
	assert.Equal(t, "P2", summary.Interactions[0].InteractorIDA)
	assert.InDelta(t, 0.95, *summary.Interactions[0].Score, 1e-9)
	assert.Equal(t, "Q9", summary.Interactions[1].InteractorIDB)
}

func TestIngestService_ValidationFailure(t *testing.T) {
	store := new(MockInteractionStore)
	s := NewIngestService(quietLogger(),
		WithWorkDir(t.TempDir()),
		WithInteractionStore(store, "static"),
	)

	summary, err := s.Ingest(context.Background(), tuple.FormatTuple, []string{
		"ID A,ID B",
		"P1,",
		"P2,P3",
		"P4",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidationFailed))
	require.NotNil(t, summary)
	assert.Len(t, summary.Errors, 2)
	assert.Empty(t, summary.Token)

	store.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestService_FatalErrors(t *testing.T) {
	s := NewIngestService(quietLogger(), WithWorkDir(t.TempDir()))
	ctx := context.Background()

	summary, err := s.Ingest(ctx, tuple.FormatTuple, []string{"", ""})
	assert.True(t, errors.Is(err, domain.ErrHeaderMissing))
	assert.Nil(t, summary)

	summary, err = s.Ingest(ctx, tuple.FormatPsimiTab, []string{"not\tmitab"})
	assert.True(t, errors.Is(err, domain.ErrStandardFormat))
	assert.Nil(t, summary)

	_, err = s.Ingest(ctx, tuple.Format("xml"), nil)
	assert.Error(t, err)
}

func TestIngestService_StoresInteractionsAndOverlay(t *testing.T) {
	ctx := context.Background()
	store := new(MockInteractionStore)
	store.On("SaveBatch", ctx, "static", mock.MatchedBy(func(in []domain.Interaction) bool {
		return len(in) == 2
	})).Return(2, nil)

	overlays, err := overlay.NewSQLiteStore(filepath.Join(t.TempDir(), "overlay.db"))
	require.NoError(t, err)
	defer overlays.Close()

	s := NewIngestService(quietLogger(),
		WithWorkDir(t.TempDir()),
		WithInteractionStore(store, "static"),
		WithOverlayStore(overlays),
	)

	summary, err := s.Ingest(ctx, tuple.FormatTuple, []string{
		"ID A\tID B\tEVIDENCE",
		"Q13501\tP10636\tEBI-1",
		"P04637\tCHEBI:16027\tEBI-2",
	})
	require.NoError(t, err)
	store.AssertExpectations(t)

	stored, err := overlays.Get(ctx, summary.Token)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, summary.Interactions, stored.Interactions)
}

func TestIngestService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockInteractionStore)
	store.On("SaveBatch", ctx, "static", mock.Anything).Return(0, errors.New("connection refused"))

	s := NewIngestService(quietLogger(),
		WithWorkDir(t.TempDir()),
		WithInteractionStore(store, "static"),
	)

	summary, err := s.Ingest(ctx, tuple.FormatTuple, []string{"ID A\tID B", "P1\tP2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.InteractionCount)
}
