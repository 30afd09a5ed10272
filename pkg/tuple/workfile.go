package tuple

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/interactors-overlay/internal/domain"
)

// workFile is the transient cleaned copy of a tabular input. Line 1 holds
// the header; sourceLines maps every working line back to the caller's
// 1-based line number.
type workFile struct {
	path        string
	sourceLines []int
}

func newWorkFile(dir string, lines []string) (*workFile, error) {
	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 || cleanHeader(lines[headerIdx]) == "" {
		return nil, &domain.HeaderError{Message: domain.NewMessage(domain.KindHeaderMissing, 0)}
	}

	f, err := os.CreateTemp(dir, "tuple-overlay-*.txt")
	if err != nil {
		return nil, fmt.Errorf("creating working copy: %w", err)
	}
	wf := &workFile{path: f.Name(), sourceLines: []int{headerIdx + 1}}

	w := bufio.NewWriter(f)
	writeErr := writeLine(w, cleanHeader(lines[headerIdx]))
	for i := headerIdx + 1; i < len(lines) && writeErr == nil; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		writeErr = writeLine(w, cleanRow(lines[i]))
		wf.sourceLines = append(wf.sourceLines, i+1)
	}
	if writeErr == nil {
		writeErr = w.Flush()
	}
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		wf.remove()
		return nil, fmt.Errorf("writing working copy: %w", writeErr)
	}
	return wf, nil
}

func writeLine(w *bufio.Writer, line string) error {
	_, err := w.WriteString(line + "\n")
	return err
}

// sourceLine translates a working-copy line number into the input line number.
func (wf *workFile) sourceLine(workLine int) int {
	if workLine >= 1 && workLine <= len(wf.sourceLines) {
		return wf.sourceLines[workLine-1]
	}
	return workLine
}

func (wf *workFile) remove() {
	os.Remove(wf.path)
}

const maxLineSize = 1024 * 1024

// ReadLines reads r into a slice of lines without their terminators.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// ReadFileLines reads the file at path into lines.
func ReadFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	return ReadLines(f)
}
