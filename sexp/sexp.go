// Copyright © 2026 The elnames authors

// Package sexp defines the symbolic-expression tree shared by the parser and
// the namespace rewriting engine.  Code and data use the same representation;
// whether a given node is code or data is decided by whoever walks it.
package sexp

import (
	"github.com/elnames/elnames/parser/token"
)

// Type is the type of a Node.
type Type uint

// Possible Node types.
const (
	// NInvalid (0) is not a valid node type.
	NInvalid Type = iota
	// NSymbol nodes store the symbol's printed name in Node.Str.
	NSymbol
	// NString nodes store a string literal in Node.Str.
	NString
	// NInt nodes store an integer in Node.Int.
	NInt
	// NFloat nodes store a float in Node.Float.
	NFloat
	// NChar nodes store a character literal's code point in Node.Int.
	NChar
	// NList nodes are compound expressions storing children in Node.Cells.
	// The first cell is conventionally the head identifying the operation.
	NList
	// NVector nodes are self-evaluating vector literals using Node.Cells.
	NVector

	nTypeMax
)

var typeStrings = []string{
	NInvalid: "invalid",
	NSymbol:  "symbol",
	NString:  "string",
	NInt:     "int",
	NFloat:   "float",
	NChar:    "char",
	NList:    "list",
	NVector:  "vector",
}

func (t Type) String() string {
	if t >= nTypeMax {
		return typeStrings[NInvalid]
	}
	return typeStrings[t]
}

// Node is a symbolic expression, either an atom or an ordered sequence of
// child nodes.
type Node struct {
	// Str is used by NSymbol and NString nodes.
	Str string

	// Cells is used by NList and NVector nodes.
	Cells []*Node

	// Source is the node's originating location in source text.  The
	// reference may be shared by multiple nodes and must not be modified.
	Source *token.Location

	// Int stores NInt values and NChar code points.
	Int int

	// Float stores NFloat values.
	Float float64

	// Type is the node's type.
	Type Type

	// Autoload marks a top-level form that was preceded by the deferred
	// loading cookie in source.
	Autoload bool
}

// Symbol returns a node representing the symbol named s.
func Symbol(s string) *Node {
	return &Node{Type: NSymbol, Str: s}
}

// String returns a node representing the string literal s.
func String(s string) *Node {
	return &Node{Type: NString, Str: s}
}

// Int returns a node representing the integer x.
func Int(x int) *Node {
	return &Node{Type: NInt, Int: x}
}

// Float returns a node representing the float x.
func Float(x float64) *Node {
	return &Node{Type: NFloat, Float: x}
}

// Char returns a node representing the character literal c.
func Char(c rune) *Node {
	return &Node{Type: NChar, Int: int(c)}
}

// List returns a compound node with the given children.  The cells slice is
// used as backing storage and is not copied.
func List(cells ...*Node) *Node {
	return &Node{Type: NList, Cells: cells}
}

// Vector returns a vector literal node.  The cells slice is used as backing
// storage and is not copied.
func Vector(cells ...*Node) *Node {
	return &Node{Type: NVector, Cells: cells}
}

// Nil returns the nil symbol.
func Nil() *Node {
	return Symbol("nil")
}

// IsAtom returns true if v is not a compound node.
func (v *Node) IsAtom() bool {
	return v.Type != NList && v.Type != NVector
}

// IsSymbol returns true if v is a symbol named s.
func (v *Node) IsSymbol(s string) bool {
	return v.Type == NSymbol && v.Str == s
}

// IsNil returns true if v is the symbol nil or the empty list.
func (v *Node) IsNil() bool {
	if v.Type == NSymbol {
		return v.Str == "nil"
	}
	return v.Type == NList && len(v.Cells) == 0
}

// Head returns the name of the head symbol of a compound node, or "" when v
// is not a compound node or its head is not a symbol.
func (v *Node) Head() string {
	if v.Type != NList || len(v.Cells) == 0 {
		return ""
	}
	if v.Cells[0].Type != NSymbol {
		return ""
	}
	return v.Cells[0].Str
}

// Len returns the number of children of a compound node, and -1 for atoms.
func (v *Node) Len() int {
	if v.IsAtom() {
		return -1
	}
	return len(v.Cells)
}

// Copy creates a deep copy of the receiver.
func (v *Node) Copy() *Node {
	if v == nil {
		return nil
	}
	cp := &Node{}
	*cp = *v
	if len(v.Cells) > 0 {
		cp.Cells = make([]*Node, len(v.Cells))
		for i := range v.Cells {
			cp.Cells[i] = v.Cells[i].Copy()
		}
	}
	return cp
}

// Equal returns true if v and other are structurally equal.  Source locations
// and autoload flags are ignored.
func (v *Node) Equal(other *Node) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case NSymbol, NString:
		return v.Str == other.Str
	case NInt, NChar:
		return v.Int == other.Int
	case NFloat:
		return v.Float == other.Float
	case NList, NVector:
		if len(v.Cells) != len(other.Cells) {
			return false
		}
		for i := range v.Cells {
			if !v.Cells[i].Equal(other.Cells[i]) {
				return false
			}
		}
		return true
	}
	return false
}
