// Copyright © 2026 The elnames authors

// Package namespace implements the prefix rewriting engine.  Given a prefix
// and a block of forms it rewrites every definition and every reference
// owned by the block so that user symbols are qualified with the prefix,
// while references resolving outside the block are left untouched.
//
// Rewriting runs in two passes over the same input.  The discovery pass
// walks the block purely to populate the symbol tables from definition
// forms, so forward and mutual references between definitions resolve.  The
// rewrite pass walks the block again producing the transformed tree.  The
// engine transforms trees; it never evaluates the code it produces.
package namespace

import (
	"fmt"
	"log"
	"strings"

	"github.com/elnames/elnames/annotator"
	"github.com/elnames/elnames/diagnostic"
	"github.com/elnames/elnames/namespace/argspec"
	"github.com/elnames/elnames/sexp"
)

// Warning condition names.
const (
	// CondAmbiguousMacroShape names calls whose argument shape could not be
	// classified.  The call is returned unmodified.
	CondAmbiguousMacroShape = "ambiguous-macro-shape"

	// CondUnsupportedCompoundHead names compound heads that are neither
	// recognizable anonymous-function literals nor otherwise known.  Each
	// child is still conservatively recursed into independently.
	CondUnsupportedCompoundHead = "unsupported-compound-head"
)

const (
	passDiscovery = 1
	passRewrite   = 2
)

// Engine rewrites blocks of forms under a fixed namespace context.  An
// Engine is not safe for concurrent use; a nested invocation while another
// is active is detected and refused.
type Engine struct {
	ctx      *Context
	globals  Globals
	annotate annotator.Annotator

	// Invocation state.  Non-nil/non-zero only while a rewrite is active
	// and reset on every exit path.
	tables    *symbolTables
	scope     *scopeStack
	specs     *argspec.Registry
	pass      int
	noDefName bool
	active    bool

	diags []diagnostic.Diagnostic
}

// New returns an Engine rewriting with the given prefix.  See the Option
// constants for recognized option strings.
func New(prefix string, options ...string) (*Engine, error) {
	ctx, err := NewContext(prefix, options...)
	if err != nil {
		return nil, err
	}
	return &Engine{
		ctx:      ctx,
		globals:  noGlobals{},
		annotate: annotator.Noop(),
	}, nil
}

// SetGlobals installs the host environment's record of already-defined
// global names, consulted under the external-globals option.
func (e *Engine) SetGlobals(g Globals) {
	if g != nil {
		e.globals = g
	}
}

// SetAnnotator installs a tracing annotator receiving invocation and pass
// span boundaries.
func (e *Engine) SetAnnotator(a annotator.Annotator) {
	if a != nil {
		e.annotate = a
	}
}

// Diagnostics returns the warnings collected by the most recent invocation.
func (e *Engine) Diagnostics() []diagnostic.Diagnostic {
	return e.diags
}

// Rewrite runs both passes over forms and returns the rewritten forms
// wrapped in a single progn for sequential execution.  The input nodes are
// not modified.
//
// Rewrite fails with a StaleContextError when invocation state is already
// active, guarding against a previous invocation that did not clean up and
// against re-entrant use.
func (e *Engine) Rewrite(forms []*sexp.Node) (*sexp.Node, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.reset()
	done := e.annotate.Start("rewrite")
	defer done()

	e.pass = passDiscovery
	p1 := e.annotate.Start("discovery-pass")
	for _, form := range forms {
		// Discovery runs the same traversal purely for its table side
		// effects; the return value is discarded.
		e.rewriteNode(form)
	}
	p1()

	e.pass = passRewrite
	p2 := e.annotate.Start("rewrite-pass")
	out := sexp.List(sexp.Symbol("progn"))
	for _, form := range forms {
		out.Cells = append(out.Cells, e.rewriteNode(form))
	}
	p2()
	e.tracef("rewrote %d forms under prefix %q", len(forms), e.ctx.Prefix)
	return out, nil
}

// RewriteDeferred runs the same two-pass rewrite over only the subset of
// forms explicitly marked for deferred registration (the autoload cookie).
// The input is not modified and no state is shared with other invocations
// beyond the engine's context.
func (e *Engine) RewriteDeferred(forms []*sexp.Node) (*sexp.Node, error) {
	var deferred []*sexp.Node
	for _, form := range forms {
		if form.Autoload {
			deferred = append(deferred, form)
		}
	}
	return e.Rewrite(deferred)
}

func (e *Engine) begin() error {
	if e.active || e.tables != nil {
		return &StaleContextError{Prefix: e.ctx.Prefix}
	}
	e.active = true
	e.tables = newSymbolTables()
	e.scope = &scopeStack{}
	e.specs = argspec.NewRegistry(argspec.Default())
	e.diags = nil
	return nil
}

// reset clears all invocation-owned state.  It runs on every exit path of
// Rewrite so a failed invocation cannot poison the next one.  Collected
// diagnostics survive so callers can render them after Rewrite returns.
func (e *Engine) reset() {
	e.active = false
	e.tables = nil
	e.scope = nil
	e.specs = nil
	e.pass = 0
	e.noDefName = false
}

// rewriteNode classifies and rewrites a single node.  It is pure with
// respect to the input tree: rewritten nodes are fresh, unchanged subtrees
// are shared.
func (e *Engine) rewriteNode(v *sexp.Node) *sexp.Node {
	switch v.Type {
	case sexp.NSymbol:
		return e.rewriteSymbol(v)
	case sexp.NList:
		if len(v.Cells) == 0 {
			return v
		}
		return e.rewriteCompound(v)
	default:
		// Self-evaluating literals, including vector literals, are data.
		return v
	}
}

// rewriteSymbol resolves a symbol in variable position.
func (e *Engine) rewriteSymbol(v *sexp.Node) *sexp.Node {
	name := v.Str
	// The protection check runs before the keyword shortcut: the default
	// marker begins with a colon, so a protected name looks like a keyword.
	if stripped, ok := e.ctx.protected(name); ok {
		return e.symbol(stripped, v)
	}
	if name == "nil" || name == "t" || strings.HasPrefix(name, ":") {
		return v
	}
	if e.scope.shadowed(name) {
		// Local binding always wins over namespace qualification.
		return v
	}
	if e.tables.isVar(name) {
		return e.symbol(e.ctx.qualify(name), v)
	}
	if e.ctx.ExternalGlobals && e.globals.BoundVar(e.ctx.qualify(name)) {
		return e.symbol(e.ctx.qualify(name), v)
	}
	return v
}

func (e *Engine) rewriteCompound(v *sexp.Node) *sexp.Node {
	head := v.Cells[0]

	// An anonymous-function literal invoked immediately recurses
	// structurally; any other compound head is a possibly-unsupported shape
	// processed conservatively.
	if head.Type != sexp.NSymbol {
		if head.Head() == "lambda" {
			cells := append([]*sexp.Node{e.rewriteLambda(head)}, e.rewriteAll(v.Cells[1:])...)
			return listLike(v, cells)
		}
		e.warnf(CondUnsupportedCompoundHead, v, "unsupported compound head shape")
		cells := make([]*sexp.Node, len(v.Cells))
		for i, c := range v.Cells {
			cells[i] = e.rewriteNode(c)
		}
		return listLike(v, cells)
	}

	name := head.Str

	// A protection-escaped head dispatches as an ordinary call with the
	// unqualified head, never further namespaced.
	if stripped, ok := e.ctx.protected(name); ok {
		return e.rewriteCall(v, e.symbol(stripped, head), stripped, false)
	}

	// A head defined inside the block (or accepted from the surrounding
	// environment) is qualified before its arguments are classified.
	if e.tables.isCallable(name) {
		qualified := e.symbol(e.ctx.qualify(name), head)
		return e.rewriteCall(v, qualified, qualified.Str, e.tables.isMacro(name))
	}
	if e.ctx.ExternalGlobals && e.globals.BoundFun(e.ctx.qualify(name)) {
		qualified := e.symbol(e.ctx.qualify(name), head)
		return e.rewriteCall(v, qualified, qualified.Str, false)
	}

	if h, ok := formHandlers[name]; ok {
		return h(e, v)
	}

	// Ordinary call: the head is not namespaced.  Known macro grammars
	// classify argument positions; otherwise arguments are treated as
	// evaluated positions like any function call.
	return e.rewriteCall(v, head, name, false)
}

// rewriteCall classifies the arguments of a call whose head has already been
// resolved to newHead.  specName is the name used to look up an argument
// grammar.  knownMacro marks heads registered as macros in the symbol
// tables, which must not fall through to the plain-function assumption when
// their grammar is missing.
func (e *Engine) rewriteCall(v *sexp.Node, newHead *sexp.Node, specName string, knownMacro bool) *sexp.Node {
	args := v.Cells[1:]
	spec, ok := e.specs.Lookup(specName)
	if !ok && knownMacro {
		// A macro with no discoverable grammar cannot be classified.  The
		// call is returned unmodified (except for its head) rather than
		// guessed at; under-rewriting preserves program semantics.
		e.warnf(CondAmbiguousMacroShape, v, "no argument grammar for macro %s", specName)
		return listLike(v, append([]*sexp.Node{newHead}, args...))
	}
	if !ok {
		// Function call: every argument is an evaluated position.
		spec = argspec.AllSpec
	}
	out, err := spec.Apply(args, e.specHooks())
	if err != nil {
		e.warnf(CondAmbiguousMacroShape, v, "cannot classify call to %s: %v", specName, err)
		return listLike(v, append([]*sexp.Node{newHead}, args...))
	}
	return listLike(v, append([]*sexp.Node{newHead}, out...))
}

// specHooks returns the grammar interpreter callbacks: executable positions
// recurse into the rewriter, opaque data positions pass through untouched.
func (e *Engine) specHooks() argspec.Hooks {
	return argspec.Hooks{Code: e.rewriteNode}
}

func (e *Engine) rewriteAll(cells []*sexp.Node) []*sexp.Node {
	out := make([]*sexp.Node, len(cells))
	for i, c := range cells {
		out[i] = e.rewriteNode(c)
	}
	return out
}

// symbol returns a fresh symbol node carrying src's source location.
func (e *Engine) symbol(name string, src *sexp.Node) *sexp.Node {
	sym := sexp.Symbol(name)
	sym.Source = src.Source
	return sym
}

// listLike returns a fresh list node with the given cells, carrying src's
// source location and autoload flag.
func listLike(src *sexp.Node, cells []*sexp.Node) *sexp.Node {
	out := sexp.List(cells...)
	out.Source = src.Source
	out.Autoload = src.Autoload
	return out
}

// warnf records a non-fatal diagnostic.  Warnings are suppressed on the
// discovery pass; they are only informative once table-building is complete.
func (e *Engine) warnf(condition string, node *sexp.Node, format string, args ...interface{}) {
	if e.pass != passRewrite {
		return
	}
	msg := fmt.Sprintf(format, args...)
	d := diagnostic.Diagnostic{
		Severity:  diagnostic.SeverityWarning,
		Condition: condition,
		Message:   msg,
	}
	if node != nil {
		span := &diagnostic.Span{Text: truncate(node.String(), 60)}
		if node.Source != nil {
			span.File = node.Source.File
			span.Line = node.Source.Line
			span.Col = node.Source.Col
		}
		d.Span = span
	}
	e.diags = append(e.diags, d)
	e.tracef("%s: %s", condition, msg)
}

func (e *Engine) tracef(format string, args ...interface{}) {
	if e.ctx.Verbose {
		log.Printf("elnames: "+format, args...)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
