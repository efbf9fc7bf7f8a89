// Package parser turns the raw session files (markers, captions, chat
// transcripts and links) into timelines.
package parser

import (
	"errors"
	"fmt"
)

// ErrMalformed marks content that exists but cannot be parsed.
var ErrMalformed = errors.New("malformed input")

// ParseError describes a malformed line in a session file.
type ParseError struct {
	Source string // file path, empty when parsing raw bytes
	Line   int    // 1-based, 0 when not line oriented
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parser: %s:%d: %q: %v", src, e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("parser: %s: %v", src, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// WithSource attaches a file path to a *ParseError. Other errors are
// returned unchanged.
func WithSource(err error, source string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Source == "" {
		cp := *pe
		cp.Source = source
		return &cp
	}
	return err
}

func malformed(line int, text string, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Text: text, Err: fmt.Errorf(format, args...)}
}
