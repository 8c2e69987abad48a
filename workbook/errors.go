package workbook

import (
	"errors"
	"fmt"
)

// ErrMalformedSource marks documents missing required sheets, headers or rows.
var ErrMalformedSource = errors.New("malformed source")

// MalformedSourceError reports why a source document cannot be processed.
type MalformedSourceError struct {
	Source string
	Reason string
}

func (e *MalformedSourceError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("malformed source: %s", e.Reason)
	}
	return fmt.Sprintf("malformed source %s: %s", e.Source, e.Reason)
}

func (e *MalformedSourceError) Unwrap() error {
	return ErrMalformedSource
}

func Malformed(source, format string, args ...any) *MalformedSourceError {
	return &MalformedSourceError{Source: source, Reason: fmt.Sprintf(format, args...)}
}
