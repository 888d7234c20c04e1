// Copyright © 2026 The elnames authors

package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elnames/elnames/namespace"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	eng, err := namespace.New("foo-")
	require.NoError(t, err)
	return NewSession(eng)
}

func submit(t *testing.T, s *Session, src string) []string {
	t.Helper()
	out, _, err := s.Submit(src)
	require.NoError(t, err)
	var got []string
	for _, form := range out {
		got = append(got, form.String())
	}
	return got
}

func TestSessionSubmit(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, []string{"(defvar foo-bar 1)"}, submit(t, s, `(defvar bar 1)`))
	// Later entries resolve against everything entered before.
	assert.Equal(t, []string{"(defun foo-f () foo-bar)"}, submit(t, s, `(defun f () bar)`))
	// Multiple forms in one entry all print.
	assert.Equal(t,
		[]string{"(defvar foo-baz foo-bar)", "foo-baz"},
		submit(t, s, "(defvar baz bar)\nbaz"))
}

func TestSessionSubmitParseError(t *testing.T) {
	s := newSession(t)
	submit(t, s, `(defvar bar 1)`)
	_, _, err := s.Submit(`(defun f () bar`)
	require.Error(t, err)
	assert.True(t, incomplete(err))
	// The block is unchanged; resubmitting complete input works.
	assert.Equal(t, []string{"(defun foo-f () foo-bar)"}, submit(t, s, `(defun f () bar)`))
}

func TestSessionSubmitMalformed(t *testing.T) {
	s := newSession(t)
	_, _, err := s.Submit(`#x`)
	require.Error(t, err)
	assert.False(t, incomplete(err), "malformed input is not a continuation")
}

func TestSessionDiagnostics(t *testing.T) {
	s := newSession(t)
	_, diags, err := s.Submit(`(defmacro opaque (x) x) (opaque y)`)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, namespace.CondAmbiguousMacroShape, diags[0].Condition)
}

func TestCompleter(t *testing.T) {
	s := newSession(t)
	submit(t, s, `(defvar bar-cache 1)`)
	c := &symbolCompleter{session: s}

	line := []rune("(defv")
	out, n := c.Do(line, len(line))
	require.NotEmpty(t, out)
	assert.Equal(t, 4, n)
	assert.Contains(t, out, []rune("ar"), "defv -> defvar")

	line = []rune("(setq bar-c")
	out, n = c.Do(line, len(line))
	require.NotEmpty(t, out)
	assert.Equal(t, 5, n)
	assert.Contains(t, out, []rune("ache"))

	out, n = c.Do([]rune("("), 1)
	assert.Empty(t, out)
	assert.Zero(t, n)
}
