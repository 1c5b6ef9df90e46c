// Package errors implements the fatal-error taxonomy (component L): one
// CompilerError type tagged by which pipeline stage raised it, plus a
// reporter that formats it the way kanso's reporter.go formats its own
// compiler errors.
//
// Grounded on internal/errors/reporter.go (CompilerError, ErrorLevel,
// ErrorReporter.FormatError's colorized Rust-style banner) and
// internal/errors/codes.go (stable string codes), narrowed from Kanso's
// ~14 semantic-error codes down to the four fatal kinds this pipeline can
// actually raise. Formatting is deliberately not a fifth kind here: it is
// a no-op by construction (the pretty printer never fails), so there is no
// constructor for it.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"noclock/token"
)

// Kind tags which pipeline stage raised a CompilerError.
type Kind string

const (
	// Parse covers lexing and grammar failures in token/grammar.
	Parse Kind = "parse"
	// Shape covers malformed-program failures. No stage of this pipeline
	// raises it: internal/annotate does no shape checking, and
	// internal/setbuilder panics on an unannotated call.
	Shape Kind = "shape"
	// Scheduler covers round-trip failures against the external scheduler,
	// and malformed scheduler output internal/reverse or internal/recover
	// reject (missing tag, out-of-range index, disallowed expression kind).
	Scheduler Kind = "scheduler"
	// Resource covers environment failures: unreadable input files,
	// unwritable output paths. A scheduler binary that cannot be run is
	// reported by internal/driver as Scheduler, like any other Schedule error.
	Resource Kind = "resource"
)

// CompilerError is the one error type every pipeline stage returns on
// failure. Position is the zero value when a Kind has no natural source
// location (Resource, most Scheduler failures).
type CompilerError struct {
	Kind     Kind
	Message  string
	Position token.Position
	Notes    []string
}

func (e *CompilerError) Error() string {
	if e.Position.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Position, e.Kind, e.Message)
}

// NewParse reports a lexing or grammar failure at pos.
func NewParse(pos token.Position, format string, args ...any) *CompilerError {
	return &CompilerError{Kind: Parse, Message: fmt.Sprintf(format, args...), Position: pos}
}

// NewShape reports a malformed-program failure at pos, optionally with
// explanatory notes.
func NewShape(pos token.Position, format string, args ...any) *CompilerError {
	return &CompilerError{Kind: Shape, Message: fmt.Sprintf(format, args...), Position: pos}
}

// NewScheduler reports a scheduler round-trip or output-shape failure. No
// source position is generally available once a program has reached the
// scheduler boundary, so notes carry the offending tuple or set text
// instead.
func NewScheduler(format string, args ...any) *CompilerError {
	return &CompilerError{Kind: Scheduler, Message: fmt.Sprintf(format, args...)}
}

// NewResource reports an environment failure: an unreadable input file, an
// unwritable output path.
func NewResource(format string, args ...any) *CompilerError {
	return &CompilerError{Kind: Resource, Message: fmt.Sprintf(format, args...)}
}

// WithNote appends a note to err and returns it, for chaining at the call
// site: return errors.NewScheduler("...").WithNote("...").
func (e *CompilerError) WithNote(note string) *CompilerError {
	e.Notes = append(e.Notes, note)
	return e
}

// Reporter formats a CompilerError as a single colored diagnostic,
// optionally with the offending source line shown underneath a caret
// marker when a source and position are both available.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter returns a Reporter for the named file and its source text.
// source may be empty when no source is available (e.g. a Scheduler or
// Resource error raised after parsing completed).
func NewReporter(filename, source string) *Reporter {
	var lines []string
	if source != "" {
		lines = strings.Split(source, "\n")
	}
	return &Reporter{filename: filename, lines: lines}
}

// Format renders err as a multi-line Rust-style banner: a colored
// "kind: message" header, a "--> file:line:col" location line, the
// offending source line with a caret marker beneath it when available,
// and any notes.
func (r *Reporter) Format(err *CompilerError) string {
	var sb strings.Builder

	bold := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	noteColor := color.New(color.FgBlue).SprintFunc()

	sb.WriteString(fmt.Sprintf("%s: %s\n", bold(string(err.Kind)), err.Message))

	if err.Position.Line > 0 {
		sb.WriteString(fmt.Sprintf("  %s %s\n", dim("-->"), err.Position))

		if idx := err.Position.Line - 1; idx >= 0 && idx < len(r.lines) {
			sb.WriteString(fmt.Sprintf("%4d %s %s\n", err.Position.Line, dim("│"), r.lines[idx]))
			spaces := strings.Repeat(" ", max(0, err.Position.Column-1))
			sb.WriteString(fmt.Sprintf("     %s %s%s\n", dim("│"), spaces, bold("^")))
		}
	}

	for _, note := range err.Notes {
		sb.WriteString(fmt.Sprintf("     %s %s\n", noteColor("note:"), note))
	}

	return sb.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
