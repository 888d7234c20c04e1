// Copyright © 2026 The elnames authors

package namespace

import (
	"strings"

	"github.com/elnames/elnames/namespace/argspec"
	"github.com/elnames/elnames/sexp"
)

// formHandlers dispatches forms whose head names a structure the engine
// understands natively.  Handlers run only after the block's own definitions
// have had a chance to claim the head name, so a block may shadow any of
// these by defining a function of the same name.  The map is filled in
// init because the handlers recurse through rewriteNode and back into the
// map, which a package-level literal would turn into an initialization
// cycle.
var formHandlers map[string]func(*Engine, *sexp.Node) *sexp.Node

func init() {
	formHandlers = map[string]func(*Engine, *sexp.Node) *sexp.Node{
		"defvar":              (*Engine).rewriteDefVar,
		"defconst":            (*Engine).rewriteDefVar,
		"defcustom":           (*Engine).rewriteDefVar,
		"defvaralias":         (*Engine).rewriteDefVarAlias,
		"defun":               (*Engine).rewriteDefun,
		"defsubst":            (*Engine).rewriteDefun,
		"defalias":            (*Engine).rewriteDefAlias,
		"defmacro":            (*Engine).rewriteDefMacro,
		"define-minor-mode":   (*Engine).rewriteMinorMode,
		"define-derived-mode": (*Engine).rewriteDerivedMode,
		"lambda":              (*Engine).rewriteLambda,
		"let":                 (*Engine).rewriteLet,
		"let*":                (*Engine).rewriteLetSeq,
		"cond":                (*Engine).rewriteCond,
		"condition-case":      (*Engine).rewriteConditionCase,
		"quote":               (*Engine).rewriteQuote,
		"function":            (*Engine).rewriteFunction,
		"backquote":           (*Engine).rewriteBackquote,
		"interactive":         (*Engine).rewriteInteractive,
	}
}

// defineName registers and qualifies a definition-form name.  Protected
// names are stripped and never registered.  The one-shot noDefName flag
// marks names already qualified by an enclosing handler; it is consumed
// here so the name is neither re-registered nor qualified twice.
func (e *Engine) defineName(name *sexp.Node, kind symbolKind) *sexp.Node {
	if name.Type != sexp.NSymbol {
		// Degenerate definition; nothing to register.
		return e.rewriteNode(name)
	}
	if e.noDefName {
		e.noDefName = false
		return name
	}
	if stripped, ok := e.ctx.protected(name.Str); ok {
		return e.symbol(stripped, name)
	}
	switch kind {
	case kindVar:
		e.tables.defineVar(name.Str)
	case kindFun:
		e.tables.defineFun(name.Str)
	case kindMacro:
		e.tables.defineMacro(name.Str)
	}
	return e.symbol(e.ctx.qualify(name.Str), name)
}

// rewriteDefVar handles defvar, defconst, and defcustom.  The name is
// registered as a variable and qualified; the value and keyword arguments
// are evaluated positions.  Docstrings and keyword symbols pass through the
// rewriter untouched on their own.
func (e *Engine) rewriteDefVar(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 2 {
		return v
	}
	cells := []*sexp.Node{v.Cells[0], e.defineName(v.Cells[1], kindVar)}
	cells = append(cells, e.rewriteAll(v.Cells[2:])...)
	return listLike(v, cells)
}

// rewriteDefVarAlias handles (defvaralias 'NEW 'BASE [DOC]).  NEW is a
// definition of a variable; BASE is a variable reference.
func (e *Engine) rewriteDefVarAlias(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 3 {
		return v
	}
	cells := []*sexp.Node{
		v.Cells[0],
		e.rewriteQuotedName(v.Cells[1], kindVar),
		e.rewriteQuotedRef(v.Cells[2], kindVar),
	}
	cells = append(cells, v.Cells[3:]...)
	return listLike(v, cells)
}

// rewriteDefun handles defun and defsubst.  The name is registered as a
// function; the argument list introduces a local scope frame for the body.
func (e *Engine) rewriteDefun(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 3 {
		return v
	}
	name := e.defineName(v.Cells[1], kindFun)
	body := e.rewriteFunctionBody(v.Cells[2], v.Cells[3:])
	cells := append([]*sexp.Node{v.Cells[0], name, v.Cells[2]}, body...)
	return listLike(v, cells)
}

// rewriteDefAlias handles (defalias 'NAME DEF [DOC]).  NAME is a function
// definition; DEF is an ordinary evaluated position, so a function-quoted
// or sharp-quoted symbol there resolves through the usual quoting rules.
func (e *Engine) rewriteDefAlias(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 3 {
		return v
	}
	cells := []*sexp.Node{
		v.Cells[0],
		e.rewriteQuotedName(v.Cells[1], kindFun),
		e.rewriteNode(v.Cells[2]),
	}
	cells = append(cells, v.Cells[3:]...)
	return listLike(v, cells)
}

// rewriteDefMacro handles defmacro.  The name is registered as a macro and
// qualified immediately, the declared argument grammar (when present) is
// attached to the qualified name, and the rest of the form is processed
// through the function-definition path with the one-shot flag set so the
// name is not touched again.
//
// The grammar only becomes discoverable on the rewrite pass, mirroring the
// fact that a macro's shape is unknown until its definition is produced: a
// call appearing before its defmacro in the same block is not classified on
// this run and needs a second run over the rewritten output.
func (e *Engine) rewriteDefMacro(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 3 || v.Cells[1].Type != sexp.NSymbol {
		return v
	}
	name := e.defineName(v.Cells[1], kindMacro)
	if e.pass == passRewrite {
		if spec := declaredSpec(v.Cells[3:]); spec != nil {
			e.specs.Register(name.Str, spec)
		}
	}
	expanded := listLike(v, append([]*sexp.Node{v.Cells[0], name, v.Cells[2]}, v.Cells[3:]...))
	e.noDefName = true
	return e.rewriteDefun(expanded)
}

// declaredSpec extracts the argument grammar from a (declare (debug SPEC))
// clause in a macro body, or nil when absent or unparseable.
func declaredSpec(body []*sexp.Node) *argspec.Spec {
	for _, expr := range body {
		if expr.Head() != "declare" {
			continue
		}
		for _, clause := range expr.Cells[1:] {
			if clause.Head() != "debug" || len(clause.Cells) != 2 {
				continue
			}
			spec, err := argspec.Parse(clause.Cells[1])
			if err != nil {
				return nil
			}
			return spec
		}
	}
	return nil
}

// rewriteMinorMode handles define-minor-mode.  Defining a mode NAME
// implicitly defines the command NAME, the variable NAME, and the companion
// variables NAME-hook and NAME-map, all of which become resolvable inside
// the block.
func (e *Engine) rewriteMinorMode(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 2 {
		return v
	}
	name := v.Cells[1]
	outName := e.defineName(name, kindFun)
	e.defineCompanionVars(name, "", "-hook", "-map")
	cells := append([]*sexp.Node{v.Cells[0], outName}, e.modeBody(v.Cells[2:])...)
	return listLike(v, cells)
}

// rewriteDerivedMode handles (define-derived-mode CHILD PARENT NAME ...).
// CHILD is defined like a minor mode; PARENT is a function reference into
// the block or the surrounding environment; NAME is display data.
func (e *Engine) rewriteDerivedMode(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 4 {
		return v
	}
	child := v.Cells[1]
	outChild := e.defineName(child, kindFun)
	e.defineCompanionVars(child, "-hook", "-map", "-syntax-table", "-abbrev-table")
	parent := v.Cells[2]
	if parent.Type == sexp.NSymbol && e.tables.isCallable(parent.Str) {
		parent = e.symbol(e.ctx.qualify(parent.Str), parent)
	}
	cells := []*sexp.Node{v.Cells[0], outChild, parent, v.Cells[3]}
	cells = append(cells, e.modeBody(v.Cells[4:])...)
	return listLike(v, cells)
}

// defineCompanionVars registers NAME+suffix as block variables for each
// suffix.  An empty suffix registers NAME itself.
func (e *Engine) defineCompanionVars(name *sexp.Node, suffixes ...string) {
	if name.Type != sexp.NSymbol {
		return
	}
	if _, ok := e.ctx.protected(name.Str); ok {
		return
	}
	for _, suffix := range suffixes {
		e.tables.defineVar(name.Str + suffix)
	}
}

// modeBody rewrites a mode-definition remainder.  A leading docstring is
// preserved verbatim; keyword symbols and strings survive the rewriter on
// their own, and keyword values and body forms are evaluated positions.
func (e *Engine) modeBody(rest []*sexp.Node) []*sexp.Node {
	out := make([]*sexp.Node, 0, len(rest))
	for i, expr := range rest {
		if i == 0 && expr.Type == sexp.NString {
			out = append(out, expr)
			continue
		}
		out = append(out, e.rewriteNode(expr))
	}
	return out
}

// rewriteLambda handles anonymous-function literals in any position where
// they are recognized as code: as a form, as a compound head, and as the
// payload of quote or function.
func (e *Engine) rewriteLambda(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 2 {
		return v
	}
	body := e.rewriteFunctionBody(v.Cells[1], v.Cells[2:])
	cells := append([]*sexp.Node{v.Cells[0], v.Cells[1]}, body...)
	return listLike(v, cells)
}

// rewriteFunctionBody rewrites a function body under a scope frame holding
// the argument-list names.  A leading docstring is preserved verbatim.
// Argument names themselves are local and never qualified.
func (e *Engine) rewriteFunctionBody(arglist *sexp.Node, body []*sexp.Node) []*sexp.Node {
	defer e.scope.push(paramNames(arglist)...)()
	out := make([]*sexp.Node, 0, len(body))
	for i, expr := range body {
		if i == 0 && expr.Type == sexp.NString {
			out = append(out, expr)
			continue
		}
		out = append(out, e.rewriteNode(expr))
	}
	return out
}

// paramNames collects the binding names of an argument list, skipping
// lambda-list markers.
func paramNames(arglist *sexp.Node) []string {
	if arglist.Type != sexp.NList {
		return nil
	}
	var names []string
	for _, p := range arglist.Cells {
		if p.Type != sexp.NSymbol || strings.HasPrefix(p.Str, "&") {
			continue
		}
		names = append(names, p.Str)
	}
	return names
}

func (e *Engine) rewriteLet(v *sexp.Node) *sexp.Node {
	return e.rewriteLetCommon(v, false)
}

func (e *Engine) rewriteLetSeq(v *sexp.Node) *sexp.Node {
	return e.rewriteLetCommon(v, true)
}

// rewriteLetCommon handles let and let*.  Parallel bindings rewrite every
// initializer under the pre-existing scope and push all bound names into
// one new frame only afterwards; sequential bindings add each name to the
// frame before the next initializer is rewritten.
func (e *Engine) rewriteLetCommon(v *sexp.Node, sequential bool) *sexp.Node {
	if len(v.Cells) < 2 || v.Cells[1].Type != sexp.NList {
		return v
	}
	bindlist := v.Cells[1]
	outBinds := make([]*sexp.Node, 0, len(bindlist.Cells))
	var names []string
	if sequential {
		defer e.scope.push()()
	}
	for _, bind := range bindlist.Cells {
		var name string
		switch {
		case bind.Type == sexp.NSymbol:
			outBinds = append(outBinds, e.letName(bind, &name))
		case bind.Type == sexp.NList && len(bind.Cells) >= 1 && bind.Cells[0].Type == sexp.NSymbol:
			cells := []*sexp.Node{e.letName(bind.Cells[0], &name)}
			cells = append(cells, e.rewriteAll(bind.Cells[1:])...)
			outBinds = append(outBinds, listLike(bind, cells))
		default:
			outBinds = append(outBinds, e.rewriteNode(bind))
		}
		if name == "" {
			continue
		}
		if sequential {
			e.scope.add(name)
		} else {
			names = append(names, name)
		}
	}
	if !sequential {
		defer e.scope.push(names...)()
	}
	body := e.rewriteAll(v.Cells[2:])
	cells := append([]*sexp.Node{v.Cells[0], listLike(bindlist, outBinds)}, body...)
	return listLike(v, cells)
}

// letName resolves a binding name and reports, via shadow, the name the new
// frame must hold.  Under the let-vars option a bound name goes through the
// normal symbol rewrite; when that qualifies it, the binding is no longer
// local and nothing is shadowed.
func (e *Engine) letName(sym *sexp.Node, shadow *string) *sexp.Node {
	if stripped, ok := e.ctx.protected(sym.Str); ok {
		*shadow = stripped
		return e.symbol(stripped, sym)
	}
	if e.ctx.LetVars {
		out := e.rewriteSymbol(sym)
		if out.Str != sym.Str {
			*shadow = ""
			return out
		}
	}
	*shadow = sym.Str
	return sym
}

// rewriteCond rewrites every element of every clause; both the test and the
// consequents are evaluated positions.
func (e *Engine) rewriteCond(v *sexp.Node) *sexp.Node {
	cells := []*sexp.Node{v.Cells[0]}
	for _, clause := range v.Cells[1:] {
		if clause.Type != sexp.NList {
			cells = append(cells, e.rewriteNode(clause))
			continue
		}
		cells = append(cells, listLike(clause, e.rewriteAll(clause.Cells)))
	}
	return listLike(v, cells)
}

// rewriteConditionCase handles (condition-case VAR BODYFORM HANDLERS...).
// VAR is bound only inside the handler bodies; each handler's leading
// condition designator is data.
func (e *Engine) rewriteConditionCase(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 3 {
		return v
	}
	errVar := v.Cells[1]
	cells := []*sexp.Node{v.Cells[0], errVar, e.rewriteNode(v.Cells[2])}
	var bound []string
	if errVar.Type == sexp.NSymbol && errVar.Str != "nil" {
		bound = append(bound, errVar.Str)
	}
	defer e.scope.push(bound...)()
	for _, h := range v.Cells[3:] {
		if h.Type != sexp.NList || len(h.Cells) == 0 {
			cells = append(cells, h)
			continue
		}
		hc := append([]*sexp.Node{h.Cells[0]}, e.rewriteAll(h.Cells[1:])...)
		cells = append(cells, listLike(h, hc))
	}
	return listLike(v, cells)
}

// rewriteQuote handles quote and the ' shorthand.  Quoted data is opaque
// with two exceptions: an anonymous-function payload is treated as code,
// and under the assume-var-quote option a bare quoted symbol is resolved as
// a variable reference.
func (e *Engine) rewriteQuote(v *sexp.Node) *sexp.Node {
	if len(v.Cells) != 2 {
		return v
	}
	payload := v.Cells[1]
	if payload.Head() == "lambda" {
		return listLike(v, []*sexp.Node{v.Cells[0], e.rewriteLambda(payload)})
	}
	if payload.Type == sexp.NSymbol && e.ctx.AssumeVarQuote {
		return listLike(v, []*sexp.Node{v.Cells[0], e.rewriteSymbol(payload)})
	}
	return v
}

// rewriteFunction handles function and the #' shorthand.  A bare symbol
// payload resolves as a function reference unless the no-fun-quote option
// disables that; an anonymous-function payload is code.
func (e *Engine) rewriteFunction(v *sexp.Node) *sexp.Node {
	if len(v.Cells) != 2 {
		return v
	}
	payload := v.Cells[1]
	if payload.Head() == "lambda" {
		return listLike(v, []*sexp.Node{v.Cells[0], e.rewriteLambda(payload)})
	}
	if payload.Type != sexp.NSymbol || e.ctx.NoFunQuote {
		return v
	}
	name := payload.Str
	if stripped, ok := e.ctx.protected(name); ok {
		return listLike(v, []*sexp.Node{v.Cells[0], e.symbol(stripped, payload)})
	}
	if e.tables.isCallable(name) {
		return listLike(v, []*sexp.Node{v.Cells[0], e.symbol(e.ctx.qualify(name), payload)})
	}
	if e.ctx.ExternalGlobals && e.globals.BoundFun(e.ctx.qualify(name)) {
		return listLike(v, []*sexp.Node{v.Cells[0], e.symbol(e.ctx.qualify(name), payload)})
	}
	return v
}

// rewriteBackquote leaves the entire template unmodified.  Distinguishing
// quoted fragments from unquoted ones inside a template cannot be done
// reliably without evaluation, so the template is treated as opaque data.
func (e *Engine) rewriteBackquote(v *sexp.Node) *sexp.Node {
	return v
}

// rewriteInteractive preserves the interactive header.  A string code
// descriptor and trailing mode symbols are data; a form in first position
// is evaluated.
func (e *Engine) rewriteInteractive(v *sexp.Node) *sexp.Node {
	if len(v.Cells) < 2 {
		return v
	}
	cells := []*sexp.Node{v.Cells[0]}
	if v.Cells[1].Type == sexp.NString {
		cells = append(cells, v.Cells[1])
	} else {
		cells = append(cells, e.rewriteNode(v.Cells[1]))
	}
	cells = append(cells, v.Cells[2:]...)
	return listLike(v, cells)
}

// rewriteQuotedName handles a (quote NAME) cell in definition position,
// defining the inner symbol.
func (e *Engine) rewriteQuotedName(v *sexp.Node, kind symbolKind) *sexp.Node {
	inner, ok := quotedSymbol(v)
	if !ok {
		return e.rewriteNode(v)
	}
	return listLike(v, []*sexp.Node{v.Cells[0], e.defineName(inner, kind)})
}

// rewriteQuotedRef handles a (quote NAME) cell referencing an existing
// definition of the given kind.
func (e *Engine) rewriteQuotedRef(v *sexp.Node, kind symbolKind) *sexp.Node {
	inner, ok := quotedSymbol(v)
	if !ok {
		return e.rewriteNode(v)
	}
	name := inner.Str
	if stripped, ok := e.ctx.protected(name); ok {
		return listLike(v, []*sexp.Node{v.Cells[0], e.symbol(stripped, inner)})
	}
	known := false
	switch kind {
	case kindVar:
		known = e.tables.isVar(name) ||
			(e.ctx.ExternalGlobals && e.globals.BoundVar(e.ctx.qualify(name)))
	default:
		known = e.tables.isCallable(name) ||
			(e.ctx.ExternalGlobals && e.globals.BoundFun(e.ctx.qualify(name)))
	}
	if !known {
		return v
	}
	return listLike(v, []*sexp.Node{v.Cells[0], e.symbol(e.ctx.qualify(name), inner)})
}

// quotedSymbol unwraps (quote SYMBOL), reporting whether v has that shape.
func quotedSymbol(v *sexp.Node) (*sexp.Node, bool) {
	if v.Head() != "quote" || len(v.Cells) != 2 || v.Cells[1].Type != sexp.NSymbol {
		return nil, false
	}
	return v.Cells[1], true
}
