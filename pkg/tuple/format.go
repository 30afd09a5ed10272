package tuple

import (
	"fmt"
	"strings"

	"github.com/interactors-overlay/internal/domain"
)

// Format names an input shape.
type Format string

const (
	FormatTuple    Format = "tuple"
	FormatPsimiTab Format = "psimitab"
)

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatTuple:
		return FormatTuple, nil
	case FormatPsimiTab, "mitab", "psi-mitab":
		return FormatPsimiTab, nil
	}
	return "", fmt.Errorf("unsupported input format %q", name)
}

// NewParser returns the parser for a format.
func NewParser(format Format, workDir string) (domain.BatchParser, error) {
	switch format {
	case FormatTuple:
		return NewTupleParserWithWorkDir(workDir), nil
	case FormatPsimiTab:
		return NewPsimiTabParser(), nil
	}
	return nil, fmt.Errorf("unsupported input format %q", format)
}

// DetectFormat guesses the input shape from its first meaningful line. A
// PSI-MITAB line has at least 15 tab separated columns and a database
// prefixed first identifier; anything else is treated as a tabular overlay.
func DetectFormat(lines []string) Format {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, mitabCommentLine) {
			if strings.Count(line, "\t") >= minMitabColumns-1 {
				return FormatPsimiTab
			}
			return FormatTuple
		}
		columns := strings.Split(line, "\t")
		if len(columns) >= minMitabColumns {
			if _, err := parseXref(strings.Split(columns[mitabIDA], "|")[0]); err == nil {
				return FormatPsimiTab
			}
		}
		return FormatTuple
	}
	return FormatTuple
}
