package domain

import "strings"

// Field names a canonical interaction attribute a column can bind to.
type Field int

const (
	FieldNone Field = iota
	FieldInteractorIDA
	FieldInteractorIDB
	FieldAliasA
	FieldAliasB
	FieldTaxIDA
	FieldTaxIDB
	FieldEvidence
	FieldScore
)

// ColumnDefinition maps input header tokens to a canonical field.
type ColumnDefinition struct {
	Name      string
	Field     Field
	Aliases   []string
	Mandatory bool
}

// Columns is the fixed column dictionary for tabular overlays.
var Columns = []ColumnDefinition{
	{Name: "ID_A", Field: FieldInteractorIDA, Aliases: []string{"ID A"}, Mandatory: true},
	{Name: "ID_B", Field: FieldInteractorIDB, Aliases: []string{"ID B"}, Mandatory: true},
	{Name: "ALIAS_A", Field: FieldAliasA, Aliases: []string{"ALIAS A"}},
	{Name: "ALIAS_B", Field: FieldAliasB, Aliases: []string{"ALIAS B"}},
	{Name: "TAX_ID_A", Field: FieldTaxIDA, Aliases: []string{"TAX_ID A"}},
	{Name: "TAX_ID_B", Field: FieldTaxIDB, Aliases: []string{"TAX_ID B"}},
	{Name: "EVIDENCE", Field: FieldEvidence, Aliases: []string{"EVIDENCE"}},
	{Name: "SCORE", Field: FieldScore, Aliases: []string{"SCORE"}},
}

var columnsByAlias = func() map[string]ColumnDefinition {
	m := make(map[string]ColumnDefinition)
	for _, c := range Columns {
		for _, a := range c.Aliases {
			m[strings.ToUpper(a)] = c
		}
	}
	return m
}()

// LookupColumn resolves a header token, ignoring case and surrounding space.
func LookupColumn(token string) (ColumnDefinition, bool) {
	c, ok := columnsByAlias[strings.ToUpper(strings.TrimSpace(token))]
	return c, ok
}

// MandatoryColumns returns the columns every row must populate.
func MandatoryColumns() []ColumnDefinition {
	var out []ColumnDefinition
	for _, c := range Columns {
		if c.Mandatory {
			out = append(out, c)
		}
	}
	return out
}

// Value reads the string form of a field from an interaction.
func (f Field) Value(i *Interaction) string {
	switch f {
	case FieldInteractorIDA:
		return i.InteractorIDA
	case FieldInteractorIDB:
		return i.InteractorIDB
	case FieldAliasA:
		return i.AliasA
	case FieldAliasB:
		return i.AliasB
	case FieldTaxIDA:
		return i.TaxIDA
	case FieldTaxIDB:
		return i.TaxIDB
	case FieldEvidence:
		return i.Evidence
	}
	return ""
}

// Set assigns a string field. Score is handled by the caller since it needs
// numeric validation.
func (f Field) Set(i *Interaction, v string) {
	switch f {
	case FieldInteractorIDA:
		i.InteractorIDA = v
	case FieldInteractorIDB:
		i.InteractorIDB = v
	case FieldAliasA:
		i.AliasA = v
	case FieldAliasB:
		i.AliasB = v
	case FieldTaxIDA:
		i.TaxIDA = v
	case FieldTaxIDB:
		i.TaxIDB = v
	case FieldEvidence:
		i.Evidence = v
	}
}
