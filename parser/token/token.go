// Copyright © 2026 The elnames authors

// Package token defines lexical tokens of the Emacs-Lisp-style surface
// syntax along with a rune scanner used to produce them.
package token

import "fmt"

// Token is a single lexical token.
type Token struct {
	Type   Type
	Text   string
	Source *Location
}

// Type identifies the kind of a token.
type Type uint

// Token types produced by the lexer.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Atoms
	SYMBOL
	INT
	FLOAT
	STRING
	CHAR

	COMMENT

	// Reader shorthand
	QUOTE            // '
	BACKQUOTE        // `
	UNQUOTE          // ,
	UNQUOTE_SPLICING // ,@
	FUN_REF          // #'

	// Delimiters
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:          "invalid",
		ERROR:            "error",
		EOF:              "EOF",
		SYMBOL:           "symbol",
		INT:              "int",
		FLOAT:            "float",
		STRING:           "string",
		CHAR:             "char",
		COMMENT:          ";",
		QUOTE:            "'",
		BACKQUOTE:        "`",
		UNQUOTE:          ",",
		UNQUOTE_SPLICING: ",@",
		FUN_REF:          "#'",
		PAREN_L:          "(",
		PAREN_R:          ")",
		BRACKET_L:        "[",
		BRACKET_R:        "]",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Location describes a position in a source stream.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset (starting at 0)
	Line int    // line number (starting at 1)
	Col  int    // column number (starting at 1)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError pairs an error with the location it was detected at.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
