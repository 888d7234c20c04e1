// Copyright © 2026 The elnames authors

package namespace

// symbolKind is the role a defined name plays.  Each defined name is exactly
// one kind.
type symbolKind uint

const (
	kindVar symbolKind = iota
	kindFun
	kindMacro
)

// symbolTables holds the un-prefixed names known to be defined either in the
// surrounding global environment under the prefixed form or inside the block
// being processed.  Names are populated during the discovery pass and never
// removed for the duration of an invocation.
type symbolTables struct {
	vars   map[string]bool
	funs   map[string]bool
	macros map[string]bool
}

func newSymbolTables() *symbolTables {
	return &symbolTables{
		vars:   make(map[string]bool),
		funs:   make(map[string]bool),
		macros: make(map[string]bool),
	}
}

// defineVar records name as a variable.
func (t *symbolTables) defineVar(name string) {
	t.vars[name] = true
}

// defineFun records name as a plain function.  A name already known as a
// macro keeps its macro role; macros are re-dispatched through the
// function-definition path and must not be double-registered.
func (t *symbolTables) defineFun(name string) {
	if t.macros[name] {
		return
	}
	t.funs[name] = true
}

// defineMacro records name as a macro.  The name is removed from the plain
// function set so every name has exactly one kind.
func (t *symbolTables) defineMacro(name string) {
	delete(t.funs, name)
	t.macros[name] = true
}

func (t *symbolTables) isVar(name string) bool   { return t.vars[name] }
func (t *symbolTables) isFun(name string) bool   { return t.funs[name] }
func (t *symbolTables) isMacro(name string) bool { return t.macros[name] }

// isCallable reports whether name names a function or macro.
func (t *symbolTables) isCallable(name string) bool {
	return t.funs[name] || t.macros[name]
}

// scopeStack is an ordered stack of name sets representing symbols currently
// bound by enclosing binding forms.  A name shadowed by any active frame is
// never rewritten, regardless of the symbol tables.
type scopeStack struct {
	frames []map[string]bool
}

// push adds a new frame containing the given names and returns a function
// popping the frame.  Handlers use the returned pop with defer so frames
// balance on every exit path.
func (s *scopeStack) push(names ...string) func() {
	frame := make(map[string]bool, len(names))
	for _, name := range names {
		frame[name] = true
	}
	s.frames = append(s.frames, frame)
	return func() {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// add inserts a name into the innermost frame.  Used by sequential binding
// forms where each name enters scope before the next initializer.
func (s *scopeStack) add(name string) {
	s.frames[len(s.frames)-1][name] = true
}

// shadowed reports whether name is bound by any active frame.
func (s *scopeStack) shadowed(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i][name] {
			return true
		}
	}
	return false
}
