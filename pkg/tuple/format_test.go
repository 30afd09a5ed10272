package tuple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "tuple", want: FormatTuple},
		{in: " TUPLE ", want: FormatTuple},
		{in: "psimitab", want: FormatPsimiTab},
		{in: "MITAB", want: FormatPsimiTab},
		{in: "psi-mitab", want: FormatPsimiTab},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewParser(t *testing.T) {
	p, err := NewParser(FormatTuple, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &TupleParser{}, p)

	p, err = NewParser(FormatPsimiTab, "")
	require.NoError(t, err)
	assert.IsType(t, &PsimiTabParser{}, p)

	_, err = NewParser(Format("xml"), "")
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatTuple, DetectFormat(nil))
	assert.Equal(t, FormatTuple, DetectFormat([]string{"", "ID A\tID B", "P1\tP2"}))
	assert.Equal(t, FormatTuple, DetectFormat([]string{"# ID A\tID B"}))
	assert.Equal(t, FormatPsimiTab, DetectFormat([]string{"", mitabLine("uniprotkb:P1", "uniprotkb:P2", "-")}))
}
