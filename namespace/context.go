// Copyright © 2026 The elnames authors

package namespace

import (
	"strings"
	"unicode"
)

// DefaultProtection is the default protection marker.  A symbol whose
// printed name begins with the marker bypasses namespace qualification
// entirely; the marker is stripped and the remainder used verbatim.
const DefaultProtection = "::"

// Option names accepted by New.
const (
	// OptionLetVars namespace-qualifies the bound names of let forms in
	// addition to their initializers.  By default local bindings stay local.
	OptionLetVars = "let-vars"

	// OptionExternalGlobals accepts names whose prefixed form is already
	// bound in the surrounding global environment, in addition to names
	// defined inside the block being rewritten.
	OptionExternalGlobals = "external-globals"

	// OptionVerbose emits a diagnostic trace of rewriting decisions.
	OptionVerbose = "verbose"

	// OptionAssumeVarQuote treats a quoted bare symbol as a variable
	// reference.  By default quoted symbols are opaque data since a quoted
	// symbol is ambiguous between a literal symbol value and a reference.
	OptionAssumeVarQuote = "assume-var-quote"

	// OptionNoFunQuote disables the default assumption that a
	// function-quoted bare symbol is a function reference.
	OptionNoFunQuote = "no-fun-quote"

	// optionProtection configures the protection marker, e.g.
	// "protection=@@".
	optionProtection = "protection"
)

// Context holds the active prefix, the protection marker, and the enabled
// options for one invocation of the engine.  A Context is immutable for the
// duration of a rewrite.
type Context struct {
	// Prefix is prepended to every user-owned symbol, e.g. "foo-".
	Prefix string

	// Protection is the escape marker exempting a symbol from rewriting.
	Protection string

	LetVars         bool
	ExternalGlobals bool
	Verbose         bool
	AssumeVarQuote  bool
	NoFunQuote      bool
}

// NewContext parses option strings and returns an immutable Context for
// prefix.  Unknown option names are a configuration error.
func NewContext(prefix string, options ...string) (*Context, error) {
	ctx := &Context{
		Prefix:     prefix,
		Protection: DefaultProtection,
	}
	for _, opt := range options {
		switch opt {
		case OptionLetVars:
			ctx.LetVars = true
		case OptionExternalGlobals:
			ctx.ExternalGlobals = true
		case OptionVerbose:
			ctx.Verbose = true
		case OptionAssumeVarQuote:
			ctx.AssumeVarQuote = true
		case OptionNoFunQuote:
			ctx.NoFunQuote = true
		default:
			name, value, ok := strings.Cut(opt, "=")
			if !ok || name != optionProtection {
				return nil, &UnknownOptionError{Option: opt}
			}
			if !printableMarker(value) {
				return nil, &InvalidProtectionValueError{Value: value}
			}
			ctx.Protection = value
		}
	}
	return ctx, nil
}

// printableMarker reports whether s can begin a printed symbol name.
func printableMarker(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if unicode.IsSpace(c) || !unicode.IsGraphic(c) {
			return false
		}
		if strings.ContainsRune("()[]'\",;`#", c) {
			return false
		}
	}
	return true
}

// protected reports whether name carries the protection marker, returning
// the remainder with the marker stripped.
func (ctx *Context) protected(name string) (string, bool) {
	if !strings.HasPrefix(name, ctx.Protection) {
		return name, false
	}
	return strings.TrimPrefix(name, ctx.Protection), true
}

// qualify returns name under the context's prefix.
func (ctx *Context) qualify(name string) string {
	return ctx.Prefix + name
}
