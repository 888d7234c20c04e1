// Copyright © 2026 The elnames authors

// Package argspec models the declarative argument grammar attached to macro
// names: a description of which positions of a macro call hold executable
// code and which hold opaque data.
//
// Grammars come from two places.  A macro definition may carry a
// (declare (debug SPEC)) declaration, parsed with Parse.  Well-known macros
// of the host language have grammars built into the default registry.
package argspec

import (
	"fmt"
	"strings"

	"github.com/elnames/elnames/sexp"
)

// Spec is a possibly-recursive argument grammar.  Exactly one of None, All,
// or Items describes the grammar's shape.
type Spec struct {
	// None means no argument position is ever evaluated.
	None bool
	// All means every argument position is evaluated code.
	All bool
	// Items describe argument positions one by one.
	Items []Item
}

// Item classifies one argument position.
type Item struct {
	// Code marks the position as evaluated code; otherwise the position is
	// opaque data, unless Sub is set.
	Code bool
	// Sub matches the position against a nested grammar.  The argument must
	// be a compound node whose children satisfy Sub.
	Sub *Spec
	// Optional positions may be absent.
	Optional bool
	// Rest repeats this item's classification for all remaining arguments.
	Rest bool
}

// Convenience grammars for the closed-form cases.
var (
	// NoneSpec evaluates no argument.
	NoneSpec = &Spec{None: true}
	// AllSpec evaluates every argument.
	AllSpec = &Spec{All: true}
)

// Hooks are the two callbacks of the grammar interpreter.  Code receives
// sub-positions classified as executable code; Data receives opaque data
// positions.  Either may be nil, meaning identity.
type Hooks struct {
	Code func(*sexp.Node) *sexp.Node
	Data func(*sexp.Node) *sexp.Node
}

func (h Hooks) code(v *sexp.Node) *sexp.Node {
	if h.Code == nil {
		return v
	}
	return h.Code(v)
}

func (h Hooks) data(v *sexp.Node) *sexp.Node {
	if h.Data == nil {
		return v
	}
	return h.Data(v)
}

// MismatchError reports that a call's arguments do not satisfy a grammar.
type MismatchError struct {
	Msg string
}

func (err *MismatchError) Error() string {
	return "argument grammar mismatch: " + err.Msg
}

func mismatchf(format string, v ...interface{}) error {
	return &MismatchError{Msg: fmt.Sprintf(format, v...)}
}

// Apply interprets the grammar over a call's argument list, applying the
// code hook to every executable position and the data hook to every opaque
// position.  Apply returns the classified arguments, or a MismatchError when
// the arguments do not fit the grammar's structure.  The input cells are not
// modified.
func (s *Spec) Apply(args []*sexp.Node, h Hooks) ([]*sexp.Node, error) {
	out := make([]*sexp.Node, 0, len(args))
	switch {
	case s.None:
		for _, arg := range args {
			out = append(out, h.data(arg))
		}
		return out, nil
	case s.All:
		for _, arg := range args {
			out = append(out, h.code(arg))
		}
		return out, nil
	}
	i := 0
	for _, item := range s.Items {
		if item.Rest {
			for ; i < len(args); i++ {
				v, err := item.apply(args[i], h)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			continue
		}
		if i >= len(args) {
			if item.Optional {
				continue
			}
			return nil, mismatchf("missing argument at position %d", i)
		}
		v, err := item.apply(args[i], h)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		i++
	}
	if i < len(args) {
		return nil, mismatchf("%d excess arguments", len(args)-i)
	}
	return out, nil
}

func (item Item) apply(arg *sexp.Node, h Hooks) (*sexp.Node, error) {
	if item.Sub != nil {
		if arg.Type != sexp.NList {
			return nil, mismatchf("expected nested form, got %s", arg.Type)
		}
		cells, err := item.Sub.Apply(arg.Cells, h)
		if err != nil {
			return nil, err
		}
		cp := sexp.List(cells...)
		cp.Source = arg.Source
		return cp, nil
	}
	if item.Code {
		return h.code(arg), nil
	}
	return h.data(arg), nil
}

// Code position indicators used by declared grammars.
var codeIndicators = map[string]bool{
	"form":     true,
	"body":     true,
	"def-form": true,
	"def-body": true,
}

// Parse builds a Spec from the declared grammar node of a macro definition,
// the SPEC of a (declare (debug SPEC)) clause.  The recognized vocabulary:
//
//	t                      all arguments are evaluated
//	0, nil                 no arguments are evaluated
//	form, def-form         one evaluated position
//	body, def-body         all remaining positions are evaluated
//	sexp, symbolp, ...     one opaque data position
//	&optional              following positions may be absent
//	&rest                  the next item repeats for remaining positions
//	(...)                  a nested grammar for a compound position
//
// Anything outside this vocabulary is an error; callers fall back to the
// generic interpreter path when a declared grammar cannot be understood.
func Parse(node *sexp.Node) (*Spec, error) {
	if node.Type == sexp.NSymbol {
		switch node.Str {
		case "t":
			return AllSpec, nil
		case "nil":
			return NoneSpec, nil
		}
		return nil, fmt.Errorf("unrecognized argument grammar: %s", node)
	}
	if node.Type == sexp.NInt && node.Int == 0 {
		return NoneSpec, nil
	}
	if node.Type != sexp.NList {
		return nil, fmt.Errorf("unrecognized argument grammar: %s", node)
	}
	spec := &Spec{}
	optional := false
	rest := false
	for _, c := range node.Cells {
		switch {
		case c.IsSymbol("&optional"):
			optional = true
			continue
		case c.IsSymbol("&rest"):
			rest = true
			continue
		}
		item, err := parseItem(c)
		if err != nil {
			return nil, err
		}
		item.Optional = optional
		item.Rest = rest
		rest = false
		spec.Items = append(spec.Items, item)
	}
	// A trailing "body" indicator is shorthand for &rest form.
	if n := len(spec.Items); n > 0 {
		last := node.Cells[len(node.Cells)-1]
		if last.Type == sexp.NSymbol && (last.Str == "body" || last.Str == "def-body") {
			spec.Items[n-1].Rest = true
			spec.Items[n-1].Optional = true
		}
	}
	return spec, nil
}

func parseItem(c *sexp.Node) (Item, error) {
	switch c.Type {
	case sexp.NSymbol:
		if codeIndicators[c.Str] {
			return Item{Code: true}, nil
		}
		// Data indicators follow the predicate naming convention
		// (symbolp, stringp, ...) or are the literal sexp/place markers.
		if c.Str == "sexp" || c.Str == "place" || c.Str == "gate" ||
			strings.HasSuffix(c.Str, "p") {
			return Item{}, nil
		}
		return Item{}, fmt.Errorf("unrecognized grammar indicator: %s", c.Str)
	case sexp.NString:
		// A string literal matches itself as data.
		return Item{}, nil
	case sexp.NList:
		sub, err := Parse(c)
		if err != nil {
			return Item{}, err
		}
		return Item{Sub: sub}, nil
	}
	return Item{}, fmt.Errorf("unrecognized grammar indicator: %s", c)
}
