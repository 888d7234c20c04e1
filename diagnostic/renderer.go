// Copyright © 2026 The elnames authors

package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Renderer formats diagnostics as annotated text.
type Renderer struct {
	// Width bounds the rendered message width.  Zero means the default of
	// 100 columns.
	Width int
}

const defaultWidth = 100

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	width := r.Width
	if width <= 0 {
		width = defaultWidth
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s]: %s\n", d.Severity, d.Condition, d.Message)
	if d.Span != nil {
		fmt.Fprintf(&b, "  --> %s\n", locString(d.Span))
		if d.Span.Text != "" {
			fmt.Fprintf(&b, "   | %s\n", d.Span.Text)
		}
	}
	for _, note := range d.Notes {
		wrapped := wordwrap.String(note, width-10)
		b.WriteString("   = note: ")
		b.WriteString(strings.TrimLeft(indent.String(wrapped, 10), " "))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, wordwrap.String(b.String(), width))
	return err
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

func locString(span *Span) string {
	switch {
	case span.Line == 0:
		return span.File
	case span.Col == 0:
		return fmt.Sprintf("%s:%d", span.File, span.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
	}
}
