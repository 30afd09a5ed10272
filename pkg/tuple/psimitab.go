package tuple

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/interactors-overlay/internal/domain"
)

// PSI-MITAB 2.5 column positions used here. Later versions append columns,
// so anything with at least minMitabColumns columns is accepted.
const (
	mitabIDA         = 0
	mitabIDB         = 1
	mitabConfidence  = 14
	minMitabColumns  = 15
	mitabCommentLine = "#"
)

// PsimiTabParser reads one PSI-MITAB binary interaction per line. Unlike
// the tabular parser it does not recover: the first malformed line fails the
// whole input.
type PsimiTabParser struct{}

// NewPsimiTabParser creates a PSI-MITAB parser.
func NewPsimiTabParser() *PsimiTabParser {
	return &PsimiTabParser{}
}

// mitabRecord is the part of a MITAB line the canonical model keeps.
type mitabRecord struct {
	idA        string
	idB        string
	confidence *float64
}

// Parse converts every MITAB line into a canonical interaction. Blank lines
// and '#' header lines are skipped. Repeated pairs are all kept; choosing
// between them is left to deduplication.
func (p *PsimiTabParser) Parse(lines []string) (*domain.InteractionBatch, error) {
	records := make([]mitabRecord, 0, len(lines))
	for n, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, mitabCommentLine) {
			continue
		}
		rec, err := parseMitabLine(line)
		if err != nil {
			return nil, domain.NewStandardFormatError(n+1, "malformed PSI-MITAB record", err)
		}
		records = append(records, rec)
	}

	batch := domain.NewInteractionBatch()
	for _, rec := range records {
		batch.Append(domain.Interaction{
			InteractorIDA: rec.idA,
			InteractorIDB: rec.idB,
			Score:         rec.confidence,
		})
	}
	return batch, nil
}

// ParseReader reads every line from r and parses them.
func (p *PsimiTabParser) ParseReader(r io.Reader) (*domain.InteractionBatch, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return p.Parse(lines)
}

func parseMitabLine(line string) (mitabRecord, error) {
	columns := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(columns) < minMitabColumns {
		return mitabRecord{}, fmt.Errorf("expected at least %d columns, found %d", minMitabColumns, len(columns))
	}

	idA, err := firstIdentifier(columns[mitabIDA], "interactor A")
	if err != nil {
		return mitabRecord{}, err
	}
	idB, err := firstIdentifier(columns[mitabIDB], "interactor B")
	if err != nil {
		return mitabRecord{}, err
	}

	confidences, err := parseXrefs(columns[mitabConfidence])
	if err != nil {
		return mitabRecord{}, fmt.Errorf("confidence values: %w", err)
	}

	rec := mitabRecord{idA: idA, idB: idB}
	if len(confidences) > 0 {
		if score, err := strconv.ParseFloat(confidences[0].ID, 64); err == nil {
			rec.confidence = &score
		}
	}
	return rec, nil
}

func firstIdentifier(field, label string) (string, error) {
	refs, err := parseXrefs(field)
	if err != nil {
		return "", fmt.Errorf("%s identifiers: %w", label, err)
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("%s has no identifier", label)
	}
	return refs[0].ID, nil
}
