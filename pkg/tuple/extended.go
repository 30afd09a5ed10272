package tuple

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/interactors-overlay/internal/domain"
)

var (
	tabRuns       = regexp.MustCompile(`\t+`)
	commentMarker = regexp.MustCompile(`^(#|//)`)
)

// TupleParser reads user-submitted tabular overlays: a header line naming
// the columns followed by one interaction per row, tab or comma separated.
type TupleParser struct {
	workDir string
}

// NewTupleParser creates a tabular parser that keeps its working copy in the
// system temp directory.
func NewTupleParser() *TupleParser {
	return &TupleParser{}
}

// NewTupleParserWithWorkDir creates a tabular parser that keeps its working
// copy under dir.
func NewTupleParserWithWorkDir(dir string) *TupleParser {
	return &TupleParser{workDir: dir}
}

// boundColumn is one header position resolved against the column dictionary.
type boundColumn struct {
	token string
	def   domain.ColumnDefinition
	known bool
}

// Parse converts the input lines into a batch. Row-level problems are
// collected; if any error was recorded the parse fails with a
// *domain.ValidationError listing all of them.
func (p *TupleParser) Parse(lines []string) (*domain.InteractionBatch, error) {
	wf, err := newWorkFile(p.workDir, lines)
	if err != nil {
		return nil, err
	}
	defer wf.remove()

	f, err := os.Open(wf.path)
	if err != nil {
		return nil, fmt.Errorf("opening working copy: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	if !scanner.Scan() {
		return nil, fmt.Errorf("reading header: %w", scanErr(scanner))
	}
	headerRecord, err := readRecord(scanner.Text(), 0)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns := bindHeader(headerRecord)

	batch := domain.NewInteractionBatch()
	for workLine := 2; scanner.Scan(); workLine++ {
		line := wf.sourceLine(workLine)
		record, err := readRecord(scanner.Text(), len(columns))
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("reading working copy: %w", err)
			}
			if errors.Is(pe.Err, csv.ErrFieldCount) {
				batch.AddError(domain.NewMessage(domain.KindColumnMismatch, line,
					strconv.Itoa(len(columns)), strconv.Itoa(len(record))))
			} else {
				batch.AddError(domain.NewMessage(domain.KindInvalidFieldValue, line, "row", scanner.Text()))
			}
			continue
		}
		p.addRow(batch, columns, record, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading working copy: %w", err)
	}

	if batch.HasErrors() {
		return nil, &domain.ValidationError{Messages: batch.Errors, Warnings: batch.Warnings, Batch: batch}
	}
	return batch, nil
}

// ParseReader reads every line from r and parses them.
func (p *TupleParser) ParseReader(r io.Reader) (*domain.InteractionBatch, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return p.Parse(lines)
}

// ParseFile parses the overlay stored at path.
func (p *TupleParser) ParseFile(path string) (*domain.InteractionBatch, error) {
	lines, err := ReadFileLines(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(lines)
}

// readRecord splits one working-copy line. Each line is read on its own so a
// quote can never run past the end of its row.
func readRecord(line string, fields int) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = fields
	return reader.Read()
}

func scanErr(s *bufio.Scanner) error {
	if err := s.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

func bindHeader(record []string) []boundColumn {
	columns := make([]boundColumn, len(record))
	for i, token := range record {
		def, ok := domain.LookupColumn(token)
		columns[i] = boundColumn{token: strings.TrimSpace(token), def: def, known: ok}
	}
	return columns
}

// addRow binds one record, validates it and applies the duplicate policy.
func (p *TupleParser) addRow(batch *domain.InteractionBatch, columns []boundColumn, record []string, line int) {
	var interaction domain.Interaction
	var rawScore string
	for i, col := range columns {
		if !col.known {
			continue
		}
		value := strings.TrimSpace(record[i])
		if col.def.Field == domain.FieldScore {
			rawScore = value
			continue
		}
		col.def.Field.Set(&interaction, value)
	}

	if missing := missingMandatory(&interaction); len(missing) > 0 {
		batch.AddError(domain.NewMessage(domain.KindMissingMandatoryField, line, missing...))
		return
	}

	if rawScore != "" {
		score, err := strconv.ParseFloat(rawScore, 64)
		if err != nil {
			batch.AddError(domain.NewMessage(domain.KindInvalidFieldValue, line, "SCORE", rawScore))
			return
		}
		interaction.Score = &score
	}

	a, b := interaction.InteractorIDA, interaction.InteractorIDB
	if batch.Contains(interaction) {
		batch.AddWarning(domain.NewMessage(domain.KindDuplicateInteraction, line, a, b, domain.DuplicateSame))
	}

	interaction.Flip()
	if batch.Contains(interaction) {
		batch.AddWarning(domain.NewMessage(domain.KindDuplicateInteraction, line, a, b, domain.DuplicateReversed))
		return
	}
	interaction.Flip()

	batch.Add(interaction)
}

func missingMandatory(i *domain.Interaction) []string {
	var missing []string
	for _, c := range domain.MandatoryColumns() {
		if strings.TrimSpace(c.Field.Value(i)) == "" {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

// cleanHeader normalizes the header line: comment marker removed, tab runs
// turned into the comma delimiter.
func cleanHeader(line string) string {
	header := tabRuns.ReplaceAllString(strings.TrimSpace(line), ",")
	return strings.TrimSpace(commentMarker.ReplaceAllString(header, ""))
}

func cleanRow(line string) string {
	return tabRuns.ReplaceAllString(strings.TrimSpace(line), ",")
}
