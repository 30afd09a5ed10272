package domain

import (
	"math"
	"regexp"
	"strings"
)

// ChemicalPrefix marks ChEBI accessions.
const ChemicalPrefix = "CHEBI:"

// Interactor database names used to pick the stored resource reference.
const (
	DatabaseUniProt = "UniProt"
	DatabaseChEBI   = "ChEBI"
)

// UniProt isoform accession, e.g. P12345-2 (identifiers.org uniprot.isoform pattern).
var isoformPattern = regexp.MustCompile(`^(?:[A-NR-Z][0-9][A-Z][A-Z0-9][A-Z0-9][0-9]|[OPQ][0-9][A-Z0-9][A-Z0-9][A-Z0-9][0-9])-\d+$`)

// IsChemical reports whether the accession is a ChEBI identifier.
func IsChemical(acc string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(acc)), ChemicalPrefix)
}

// IsIsoform reports whether the accession names a UniProt isoform.
func IsIsoform(acc string) bool {
	return isoformPattern.MatchString(acc)
}

// DatabaseName returns the interactor database an accession belongs to.
func DatabaseName(acc string) string {
	if IsChemical(acc) {
		return DatabaseChEBI
	}
	return DatabaseUniProt
}

// RoundScore rounds a score to three decimal places.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
