package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Message is one line-numbered diagnostic collected while parsing a batch.
type Message struct {
	Kind   ErrorKind `json:"kind"`
	Line   int       `json:"line,omitempty"`
	Values []string  `json:"values,omitempty"`
	Text   string    `json:"message"`
}

// String renders the message for reports.
func (m Message) String() string {
	return m.Text
}

// NewMessage builds a diagnostic and renders its text.
func NewMessage(kind ErrorKind, line int, values ...string) Message {
	return Message{
		Kind:   kind,
		Line:   line,
		Values: values,
		Text:   renderMessage(kind, line, values),
	}
}

func renderMessage(kind ErrorKind, line int, values []string) string {
	switch kind {
	case KindHeaderMissing:
		return "Could not find a header line. The first non-empty line must name the columns"
	case KindColumnMismatch:
		return fmt.Sprintf("Line %d does not have the expected number of columns. Expected: %s, found: %s",
			line, valueAt(values, 0), valueAt(values, 1))
	case KindMissingMandatoryField:
		return fmt.Sprintf("Line %d is missing mandatory field(s): %s", line, strings.Join(values, ", "))
	case KindInvalidFieldValue:
		return fmt.Sprintf("Line %d has an invalid value for %s: %q", line, valueAt(values, 0), valueAt(values, 1))
	case KindDuplicateInteraction:
		if len(values) > 2 && values[2] == DuplicateReversed {
			return fmt.Sprintf("Line %d: interaction %s-%s is a duplicate of %s-%s in reversed orientation and has been ignored",
				line, valueAt(values, 0), valueAt(values, 1), valueAt(values, 1), valueAt(values, 0))
		}
		return fmt.Sprintf("Line %d: interaction %s-%s is duplicated", line, valueAt(values, 0), valueAt(values, 1))
	default:
		if line > 0 {
			return fmt.Sprintf("Line %d: %s %s", line, kind, strings.Join(values, " "))
		}
		return fmt.Sprintf("%s %s", kind, strings.Join(values, " "))
	}
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// Duplicate orientations carried as the third value of a duplicate warning.
const (
	DuplicateSame     = "same"
	DuplicateReversed = "reversed"
)

// InteractionBatch is the result of one parse: an insertion-ordered
// collection of interactions plus the diagnostics collected along the way.
// Membership follows Interaction.Equal, so (A,B) and (B,A) are the same pair.
type InteractionBatch struct {
	Token    string    `json:"token"`
	Errors   []Message `json:"errors,omitempty"`
	Warnings []Message `json:"warnings,omitempty"`

	interactions []Interaction
	pairs        map[string]int
}

// NewInteractionBatch creates an empty batch with a fresh token.
func NewInteractionBatch() *InteractionBatch {
	return &InteractionBatch{
		Token: NewToken(),
		pairs: make(map[string]int),
	}
}

// NewToken generates the opaque identifier used to correlate a batch with
// storage and display.
func NewToken() string {
	return uuid.New().String()
}

// Add inserts the interaction unless an equal one is already present. It
// reports whether the batch grew.
func (b *InteractionBatch) Add(i Interaction) bool {
	if b.Contains(i) {
		return false
	}
	b.Append(i)
	return true
}

// Append inserts the interaction unconditionally, keeping repeated pairs.
func (b *InteractionBatch) Append(i Interaction) {
	b.interactions = append(b.interactions, i)
	b.pairs[i.PairKey()]++
}

// Contains reports whether an interaction equal to i is present.
func (b *InteractionBatch) Contains(i Interaction) bool {
	return b.pairs[i.PairKey()] > 0
}

// Interactions returns a copy of the members in insertion order.
func (b *InteractionBatch) Interactions() []Interaction {
	out := make([]Interaction, len(b.interactions))
	copy(out, b.interactions)
	return out
}

// Len returns the number of interactions in the batch.
func (b *InteractionBatch) Len() int {
	return len(b.interactions)
}

// AddError records a per-row error.
func (b *InteractionBatch) AddError(m Message) {
	b.Errors = append(b.Errors, m)
}

// AddWarning records a non-blocking warning.
func (b *InteractionBatch) AddWarning(m Message) {
	b.Warnings = append(b.Warnings, m)
}

// HasErrors reports whether any error was recorded.
func (b *InteractionBatch) HasErrors() bool {
	return len(b.Errors) > 0
}
