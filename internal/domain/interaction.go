package domain

import (
	"math"
	"strings"
)

// Interaction is the canonical, format-independent record of one binary
// molecular interaction. Every parser produces it and every downstream
// consumer (deduplication, storage, link rendering) reads it.
type Interaction struct {
	InteractorIDA string   `json:"interactor_id_a"`
	InteractorIDB string   `json:"interactor_id_b"`
	AliasA        string   `json:"alias_a,omitempty"`
	AliasB        string   `json:"alias_b,omitempty"`
	TaxIDA        string   `json:"tax_id_a,omitempty"`
	TaxIDB        string   `json:"tax_id_b,omitempty"`
	Evidence      string   `json:"evidence,omitempty"`
	Score         *float64 `json:"score,omitempty"`
}

// Flip swaps every A/B field pair in place. Flipping twice restores the
// original record.
func (i *Interaction) Flip() {
	i.InteractorIDA, i.InteractorIDB = i.InteractorIDB, i.InteractorIDA
	i.AliasA, i.AliasB = i.AliasB, i.AliasA
	i.TaxIDA, i.TaxIDB = i.TaxIDB, i.TaxIDA
}

// Equal reports whether both records reference the same unordered pair of
// interactors.
func (i Interaction) Equal(other Interaction) bool {
	return i.PairKey() == other.PairKey()
}

// PairKey identifies the unordered interactor pair.
func (i Interaction) PairKey() string {
	a, b := i.InteractorIDA, i.InteractorIDB
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// HasScore reports whether a confidence score was provided.
func (i Interaction) HasScore() bool {
	return i.Score != nil
}

// ScoreValue returns the score, or negative infinity when absent so that
// unscored records always rank below scored ones.
func (i Interaction) ScoreValue() float64 {
	if i.Score == nil {
		return math.Inf(-1)
	}
	return *i.Score
}

// Evidences splits the evidence column into its individual identifiers.
// Multiple identifiers are separated by '|' or ';'.
func (i Interaction) Evidences() []string {
	if strings.TrimSpace(i.Evidence) == "" {
		return nil
	}
	parts := strings.FieldsFunc(i.Evidence, func(r rune) bool {
		return r == '|' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Float64 returns a pointer to v, for populating optional scores.
func Float64(v float64) *float64 {
	return &v
}
