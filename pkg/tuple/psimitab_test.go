package tuple

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interactors-overlay/internal/domain"
)

// mitabLine builds a 15 column MITAB 2.5 line with the given A, B and
// confidence columns.
func mitabLine(idA, idB, confidence string) string {
	return strings.Join([]string{
		idA,
		idB,
		"intact:EBI-1",
		"intact:EBI-2",
		"psi-mi:tp53_human(display_long)",
		"psi-mi:mdm2_human(display_long)",
		`psi-mi:"MI:0018"(two hybrid)`,
		"Smith et al. (2010)",
		"pubmed:12345",
		"taxid:9606(human)",
		"taxid:9606(human)",
		`psi-mi:"MI:0915"(physical association)`,
		`psi-mi:"MI:0469"(IntAct)`,
		"intact:EBI-99",
		confidence,
	}, "\t")
}

func TestPsimiTabParser_Parse(t *testing.T) {
	lines := []string{
		"#ID(s) interactor A\tID(s) interactor B\t...",
		mitabLine("uniprotkb:P04637", "uniprotkb:Q00987|intact:EBI-389668", "intact-miscore:0.56"),
		"",
		mitabLine(`chebi:"CHEBI:16027"`, "uniprotkb:P10636-8", "-"),
		mitabLine("uniprotkb:Q13501", "uniprotkb:P10636", "author score:high|intact-miscore:0.4"),
	}

	batch, err := NewPsimiTabParser().Parse(lines)
	require.NoError(t, err)
	require.Equal(t, 3, batch.Len())

	got := batch.Interactions()
	assert.Equal(t, "P04637", got[0].InteractorIDA)
	assert.Equal(t, "Q00987", got[0].InteractorIDB)
	require.NotNil(t, got[0].Score)
	assert.InDelta(t, 0.56, *got[0].Score, 1e-9)
	assert.Empty(t, got[0].AliasA)
	assert.Empty(t, got[0].TaxIDA)

	assert.Equal(t, "CHEBI:16027", got[1].InteractorIDA)
	assert.Equal(t, "P10636-8", got[1].InteractorIDB)
	assert.Nil(t, got[1].Score)

	assert.Equal(t, "Q13501", got[2].InteractorIDA)
	assert.Nil(t, got[2].Score, "first confidence value is not numeric")

	assert.Empty(t, batch.Warnings)
	assert.Empty(t, batch.Errors)
}

func TestPsimiTabParser_NoDuplicateDetection(t *testing.T) {
	batch, err := NewPsimiTabParser().Parse([]string{
		mitabLine("uniprotkb:P1", "uniprotkb:P2", "intact-miscore:0.5"),
		mitabLine("uniprotkb:P2", "uniprotkb:P1", "intact-miscore:0.5"),
		mitabLine("uniprotkb:P1", "uniprotkb:P2", "intact-miscore:0.8"),
		mitabLine("uniprotkb:P1", "uniprotkb:P2", "intact-miscore:0.95"),
	})
	require.NoError(t, err)
	require.Equal(t, 4, batch.Len())
	assert.Empty(t, batch.Warnings)

	got := batch.Interactions()
	assert.InDelta(t, 0.8, *got[2].Score, 1e-9)
	assert.InDelta(t, 0.95, *got[3].Score, 1e-9)
}

func TestPsimiTabParser_FailsFast(t *testing.T) {
	tests := []struct {
		name string
		bad  string
	}{
		{name: "too few columns", bad: "uniprotkb:P1\tuniprotkb:P2\t-"},
		{name: "missing interactor B", bad: mitabLine("uniprotkb:P1", "-", "-")},
		{name: "identifier without database", bad: mitabLine("P1", "uniprotkb:P2", "-")},
		{name: "unterminated quote", bad: mitabLine(`chebi:"CHEBI:1`, "uniprotkb:P2", "-")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{
				mitabLine("uniprotkb:P3", "uniprotkb:P4", "-"),
				tt.bad,
				mitabLine("uniprotkb:P5", "uniprotkb:P6", "-"),
			}
			batch, err := NewPsimiTabParser().Parse(lines)
			require.Error(t, err)
			assert.Nil(t, batch)
			assert.True(t, errors.Is(err, domain.ErrStandardFormat))

			var serr *domain.StandardFormatError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, 2, serr.Line)
		})
	}
}

func TestPsimiTabParser_ParseReader(t *testing.T) {
	input := mitabLine("uniprotkb:P1", "uniprotkb:P2", "-") + "\n" +
		mitabLine("uniprotkb:P3", "uniprotkb:P4", "-") + "\n"

	batch, err := NewPsimiTabParser().ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"P1", "P2"}, {"P3", "P4"}}, pairs(batch))
}
