package tuple

import (
	"fmt"
	"strings"
)

// xref is one PSI-MITAB cross reference: database:identifier(text).
type xref struct {
	DB   string
	ID   string
	Text string
}

// emptyField is how MITAB marks a column without values.
const emptyField = "-"

// splitValues splits a MITAB column on '|' outside double quotes.
func splitValues(field string) []string {
	var (
		out     []string
		start   int
		inQuote bool
	)
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '\\':
			i++
		case '"':
			inQuote = !inQuote
		case '|':
			if !inQuote {
				out = append(out, field[start:i])
				start = i + 1
			}
		}
	}
	return append(out, field[start:])
}

// parseXrefs parses every cross reference of a column. An empty column
// yields no references.
func parseXrefs(field string) ([]xref, error) {
	field = strings.TrimSpace(field)
	if field == "" || field == emptyField {
		return nil, nil
	}
	values := splitValues(field)
	refs := make([]xref, 0, len(values))
	for _, v := range values {
		ref, err := parseXref(v)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func parseXref(value string) (xref, error) {
	value = strings.TrimSpace(value)
	db, rest, found := cutUnquoted(value, ':')
	if !found || strings.TrimSpace(db) == "" {
		return xref{}, fmt.Errorf("cross reference %q has no database prefix", value)
	}
	ref := xref{DB: unquote(strings.TrimSpace(db))}

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, `"`) {
		end := closingQuote(rest)
		if end < 0 {
			return xref{}, fmt.Errorf("cross reference %q has an unterminated quote", value)
		}
		ref.ID = rest[1:end]
		rest = strings.TrimSpace(rest[end+1:])
	} else if idx := strings.IndexByte(rest, '('); idx >= 0 {
		ref.ID = strings.TrimSpace(rest[:idx])
		rest = rest[idx:]
	} else {
		ref.ID = rest
		rest = ""
	}

	if rest != "" {
		if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
			return xref{}, fmt.Errorf("cross reference %q has a malformed description", value)
		}
		ref.Text = unquote(rest[1 : len(rest)-1])
	}
	if ref.ID == "" {
		return xref{}, fmt.Errorf("cross reference %q has an empty identifier", value)
	}
	return ref, nil
}

// cutUnquoted splits s around the first sep that is not inside quotes.
func cutUnquoted(s string, sep byte) (before, after string, found bool) {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
