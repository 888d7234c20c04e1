// Copyright © 2026 The elnames authors

package namespace

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Globals is the host environment's record of already-defined global names.
// It is consulted only when the external-globals option is enabled, to
// resolve references whose prefixed form is already bound outside the block
// being rewritten.
type Globals interface {
	// BoundVar reports whether name is bound as a variable.
	BoundVar(name string) bool
	// BoundFun reports whether name is bound as a function or macro.
	BoundFun(name string) bool
}

// MapGlobals is a Globals implementation backed by in-memory sets.
type MapGlobals struct {
	Vars map[string]bool
	Funs map[string]bool
}

// NewMapGlobals returns an empty MapGlobals.
func NewMapGlobals() *MapGlobals {
	return &MapGlobals{
		Vars: make(map[string]bool),
		Funs: make(map[string]bool),
	}
}

func (g *MapGlobals) BoundVar(name string) bool { return g.Vars[name] }
func (g *MapGlobals) BoundFun(name string) bool { return g.Funs[name] }

// DefineVar records name as a bound global variable.
func (g *MapGlobals) DefineVar(name string) { g.Vars[name] = true }

// DefineFun records name as a bound global function.
func (g *MapGlobals) DefineFun(name string) { g.Funs[name] = true }

// ReadGlobals parses a globals table from r.  Each line holds a kind and a
// name separated by whitespace, e.g. "var foo-mode-hook" or "fun foo-setup".
// Blank lines and lines starting with "#" are skipped.
func ReadGlobals(r io.Reader) (*MapGlobals, error) {
	g := NewMapGlobals()
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kind, name, ok := strings.Cut(line, " ")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("line %d: expected KIND NAME, got %q", lineno, line)
		}
		switch kind {
		case "var":
			g.DefineVar(name)
		case "fun":
			g.DefineFun(name)
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", lineno, kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// noGlobals is the default Globals with no bound names.
type noGlobals struct{}

func (noGlobals) BoundVar(string) bool { return false }
func (noGlobals) BoundFun(string) bool { return false }
