// Copyright © 2026 The elnames authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	d := Diagnostic{
		Severity:  SeverityWarning,
		Condition: "ambiguous-macro-shape",
		Message:   "no argument grammar for macro foo-opaque",
		Span: &Span{
			File: "init.el",
			Line: 12,
			Col:  3,
			Text: "(foo-opaque bar)",
		},
	}
	var buf bytes.Buffer
	require.NoError(t, (&Renderer{}).Render(&buf, d))
	out := buf.String()
	assert.Contains(t, out, "warning[ambiguous-macro-shape]: no argument grammar for macro foo-opaque")
	assert.Contains(t, out, "--> init.el:12:3")
	assert.Contains(t, out, "| (foo-opaque bar)")
}

func TestRenderPartialLocation(t *testing.T) {
	var buf bytes.Buffer
	err := (&Renderer{}).Render(&buf, Diagnostic{
		Severity:  SeverityError,
		Condition: "parse",
		Message:   "unmatched (",
		Span:      &Span{File: "init.el"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--> init.el\n")
	assert.NotContains(t, buf.String(), "init.el:0")
}

func TestRenderNotesWrap(t *testing.T) {
	d := Diagnostic{
		Severity:  SeverityNote,
		Condition: "hint",
		Message:   "something",
		Notes:     []string{strings.Repeat("wordy ", 20) + "end"},
	}
	var buf bytes.Buffer
	require.NoError(t, (&Renderer{Width: 40}).Render(&buf, d))
	assert.Contains(t, buf.String(), "= note: ")
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len(line), 40, "line %q", line)
	}
}

func TestRenderAll(t *testing.T) {
	diags := []Diagnostic{
		{Severity: SeverityWarning, Condition: "a", Message: "first"},
		{Severity: SeverityWarning, Condition: "b", Message: "second"},
	}
	var buf bytes.Buffer
	require.NoError(t, (&Renderer{}).RenderAll(&buf, diags))
	out := buf.String()
	assert.Contains(t, out, "warning[a]: first")
	assert.Contains(t, out, "warning[b]: second")
	assert.Contains(t, out, "\n\n", "diagnostics are blank-line separated")
}
