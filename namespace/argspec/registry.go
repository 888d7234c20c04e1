// Copyright © 2026 The elnames authors

package argspec

// Registry maps macro names to their argument grammars.  Registries chain:
// lookups fall through to the parent, so an engine can layer grammars
// discovered during one invocation over the shared defaults without mutating
// them.
type Registry struct {
	parent *Registry
	specs  map[string]*Spec
}

// NewRegistry returns an empty registry chained to parent.  A nil parent is
// allowed.
func NewRegistry(parent *Registry) *Registry {
	return &Registry{
		parent: parent,
		specs:  make(map[string]*Spec),
	}
}

// Register attaches a grammar to a macro name, shadowing any parent entry.
func (r *Registry) Register(name string, spec *Spec) {
	r.specs[name] = spec
}

// Lookup returns the grammar attached to name, if any.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if spec, ok := reg.specs[name]; ok {
			return spec, true
		}
	}
	return nil, false
}

// iterVar matches (VAR LIST [RESULT]) iteration heads: the bound name is
// data, the sequence and result expressions are code.
var iterVar = &Spec{Items: []Item{
	{Sub: &Spec{Items: []Item{
		{},                           // VAR
		{Code: true},                 // LIST / COUNT
		{Code: true, Optional: true}, // RESULT
	}}},
	{Code: true, Rest: true, Optional: true}, // BODY
}}

// defBody matches definition-style macros: a data name position followed by
// evaluated body forms.
var defBody = &Spec{Items: []Item{
	{},                                       // NAME
	{Code: true, Rest: true, Optional: true}, // BODY
}}

// Default returns a registry holding grammars for well-known macros of the
// host language.  The returned registry is freshly allocated; callers may
// layer invocation-local registrations over it.
func Default() *Registry {
	r := NewRegistry(nil)
	for _, name := range []string{
		"when", "unless", "and", "or", "not",
		"progn", "prog1", "prog2",
		"while", "if",
		"push", "pop", "setf", "incf", "decf",
		"ignore-errors", "with-demoted-errors",
		"save-excursion", "save-restriction", "save-match-data",
		"with-current-buffer", "with-temp-buffer", "unwind-protect",
	} {
		r.Register(name, AllSpec)
	}
	for _, name := range []string{
		"declare", "interactive-only", "eval-when-compile-quote",
	} {
		r.Register(name, NoneSpec)
	}
	r.Register("dolist", iterVar)
	r.Register("dotimes", iterVar)
	r.Register("lambda", defBody)
	// define-minor-mode and define-derived-mode bodies: everything after
	// the registered names is evaluated except literal strings and
	// keywords, which classify as themselves under the code hook.
	r.Register("define-minor-mode", defBody)
	r.Register("define-derived-mode", &Spec{Items: []Item{
		{},                                       // CHILD
		{},                                       // PARENT
		{Optional: true},                         // NAME string
		{Code: true, Rest: true, Optional: true}, // BODY
	}})
	return r
}
