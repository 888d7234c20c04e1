// Copyright © 2026 The elnames authors

// Package diagnostic provides severity-tagged warnings and errors with
// source locations for CLI output.  It is intentionally independent of the
// sexp and namespace packages so any command can render diagnostics without
// import cycles.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source text the diagnostic refers to.
type Span struct {
	File string // display name of the source stream
	Line int    // 1-based line number (0 = unknown)
	Col  int    // 1-based column number (0 = unknown)
	Text string // rendering of the offending form, if available
}

// Diagnostic represents a single error, warning, or note with an optional
// source span and trailing notes.
type Diagnostic struct {
	Severity  Severity
	Condition string // a stable machine-readable condition name
	Message   string
	Span      *Span
	Notes     []string
}
