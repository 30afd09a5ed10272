package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies parse and resolution failures.
type ErrorKind string

const (
	KindHeaderMissing         ErrorKind = "HEADER_MISSING"
	KindColumnMismatch        ErrorKind = "COLUMN_MISMATCH"
	KindMissingMandatoryField ErrorKind = "MISSING_MANDATORY_FIELD"
	KindInvalidFieldValue     ErrorKind = "INVALID_FIELD_VALUE"
	KindDuplicateInteraction  ErrorKind = "DUPLICATE_INTERACTION"
	KindValidationFailed      ErrorKind = "VALIDATION_FAILED"
	KindStandardFormat        ErrorKind = "STANDARD_FORMAT_ERROR"
	KindUnknownResource       ErrorKind = "UNKNOWN_RESOURCE"
	KindMissingTemplate       ErrorKind = "MISSING_TEMPLATE"
)

// Sentinel errors for errors.Is checks.
var (
	ErrHeaderMissing    = errors.New("header is not present")
	ErrValidationFailed = errors.New("error parsing interactors overlay")
	ErrStandardFormat   = errors.New("error parsing PSI-MITAB input")
	ErrUnknownResource  = errors.New("unknown resource")
	ErrMissingTemplate  = errors.New("resource has no URL template")
	ErrNotFound         = errors.New("not found")
)

// ValidationError is returned when a tabular parse recorded row errors. It
// carries every diagnostic so a caller can report them in one response.
type ValidationError struct {
	Messages []Message `json:"errors"`
	Warnings []Message `json:"warnings,omitempty"`

	// Batch holds the rows that did pass validation.
	Batch *InteractionBatch `json:"-"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	texts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		texts = append(texts, m.Text)
	}
	return fmt.Sprintf("%s: %d error(s): %s", ErrValidationFailed, len(e.Messages), strings.Join(texts, "; "))
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// HeaderError reports a tabular input without a usable header line.
type HeaderError struct {
	Message Message
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s: %s", ErrHeaderMissing, e.Message.Text)
}

func (e *HeaderError) Unwrap() error {
	return ErrHeaderMissing
}

// StandardFormatError reports the first malformed PSI-MITAB line.
type StandardFormatError struct {
	Line   int
	Reason string
	Err    error
}

func (e *StandardFormatError) Error() string {
	msg := fmt.Sprintf("%s: line %d: %s", ErrStandardFormat, e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap matches ErrStandardFormat and exposes the underlying cause.
func (e *StandardFormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrStandardFormat, e.Err}
	}
	return []error{ErrStandardFormat}
}

// NewStandardFormatError creates a StandardFormatError for the given line.
func NewStandardFormatError(line int, reason string, cause error) *StandardFormatError {
	return &StandardFormatError{Line: line, Reason: reason, Err: cause}
}

// ResolutionError describes a failed URL resolution for one resource.
type ResolutionError struct {
	Kind     ErrorKind
	Resource string
	Detail   string
}

func (e *ResolutionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %q: %s", e.sentinel(), e.Resource, e.Detail)
	}
	return fmt.Sprintf("%s %q", e.sentinel(), e.Resource)
}

func (e *ResolutionError) Unwrap() error {
	return e.sentinel()
}

func (e *ResolutionError) sentinel() error {
	if e.Kind == KindMissingTemplate {
		return ErrMissingTemplate
	}
	return ErrUnknownResource
}
