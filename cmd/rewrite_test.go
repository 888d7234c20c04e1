// Copyright © 2026 The elnames authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.el")
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.el")
	rootCmd.SetArgs(append(args, "--output", out))
	require.NoError(t, rootCmd.Execute())
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	return string(b)
}

func TestRewriteCommand(t *testing.T) {
	in := writeSource(t, "(defvar bar 1)\n(defun f () bar)\n")
	got := runCommand(t, "rewrite", "-p", "foo-", in)
	assert.Equal(t, "(progn (defvar foo-bar 1) (defun foo-f () foo-bar))\n", got)
}

func TestRewriteCommandOptions(t *testing.T) {
	in := writeSource(t, "(defvar bar 1)\n(defvar r 'bar)\n")
	got := runCommand(t, "rewrite", "-p", "foo-", "-O", "assume-var-quote", in)
	assert.Equal(t, "(progn (defvar foo-bar 1) (defvar foo-r 'foo-bar))\n", got)
}

func TestAutoloadsCommand(t *testing.T) {
	in := writeSource(t, `
(defvar bar 1)
;;;###autoload
(defun entry () (helper))
;;;###autoload
(defun helper () bar)
`)
	got := runCommand(t, "autoloads", "-p", "foo-", in)
	assert.Equal(t, "(progn (defun foo-entry () (foo-helper)) (defun foo-helper () bar))\n", got)
}

func TestRewriteCommandParsec(t *testing.T) {
	in := writeSource(t, "(defvar bar 1) ; trailing comment\n")
	got := runCommand(t, "rewrite", "-p", "foo-", "--parser", "parsec", in)
	assert.Equal(t, "(progn (defvar foo-bar 1))\n", got)
}
