// Copyright © 2026 The elnames authors

// Package repl provides an interactive shell for experimenting with prefix
// rewriting.  Forms entered at the prompt accumulate into one growing block;
// after every entry the whole block is rewritten from scratch and the
// rewritten counterparts of the new forms are printed.  Rewriting the whole
// block keeps resolution consistent with batch runs: a definition entered
// now changes how earlier references would have been rewritten, and the next
// entry reflects that.
package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/elnames/elnames/diagnostic"
	"github.com/elnames/elnames/namespace"
	"github.com/elnames/elnames/parser"
	"github.com/elnames/elnames/parser/token"
	"github.com/elnames/elnames/sexp"
)

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option adjusts REPL construction.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// Session accumulates entered forms and rewrites the growing block.
type Session struct {
	eng   *Engine
	forms []*sexp.Node
}

// Engine is the subset of the rewriting engine the REPL needs.
type Engine = namespace.Engine

// NewSession returns an empty Session rewriting with eng.
func NewSession(eng *Engine) *Session {
	return &Session{eng: eng}
}

// Submit parses src, appends its forms to the session block, and returns the
// rewritten counterparts of the new forms.  On a rewrite error the block is
// restored to its previous state.
func (s *Session) Submit(src string) ([]*sexp.Node, []diagnostic.Diagnostic, error) {
	forms, err := parser.ParseString("repl", src)
	if err != nil {
		return nil, nil, err
	}
	prev := len(s.forms)
	s.forms = append(s.forms, forms...)
	out, err := s.eng.Rewrite(s.forms)
	if err != nil {
		s.forms = s.forms[:prev]
		return nil, nil, err
	}
	// out is (progn FORM...); skip the head and the previously printed
	// forms.
	return out.Cells[1+prev:], s.eng.Diagnostics(), nil
}

// Symbols returns every symbol name appearing in the session block, for
// completion.
func (s *Session) Symbols() []string {
	return sexp.Symbols(s.forms)
}

// Run reads forms interactively and prints their rewritten counterparts
// until the input stream is exhausted.
func Run(eng *Engine, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	stderr := io.WriteCloser(os.Stderr)
	if cfg.stderr != nil {
		stderr = cfg.stderr
	}
	session := NewSession(eng)
	cont := strings.Repeat(" ", len(prompt))

	rlCfg := &readline.Config{
		Stdout:            stderr,
		Stderr:            stderr,
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{session: session},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewFromConfig(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	renderer := &diagnostic.Renderer{}
	var pending []byte
	for {
		if len(pending) == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			pending = nil
			continue
		}
		if err != nil {
			return nil
		}
		pending = append(pending, line...)
		pending = append(pending, '\n')
		if len(bytes.TrimSpace(pending)) == 0 {
			pending = nil
			continue
		}
		out, diags, err := session.Submit(string(pending))
		if err != nil {
			if incomplete(err) {
				continue
			}
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
			pending = nil
			continue
		}
		pending = nil
		renderer.RenderAll(stderr, diags) //nolint:errcheck // best-effort warning display
		for _, form := range out {
			fmt.Fprintln(stderr, form) //nolint:errcheck // best-effort REPL output
		}
	}
}

// incomplete reports whether a parse error indicates input that may be
// completed by further lines, rather than input that is already malformed.
func incomplete(err error) bool {
	locErr := &token.LocationError{}
	if !errors.As(err, &locErr) {
		return false
	}
	return strings.HasPrefix(locErr.Err.Error(), "unmatched")
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".elnames_history")
}
