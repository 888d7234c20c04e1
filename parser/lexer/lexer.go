// Copyright © 2026 The elnames authors

// Package lexer tokenizes Emacs-Lisp-style source text.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/elnames/elnames/parser/token"
)

// Runes which terminate a symbol or number word.
const nonWordRunes = "()[]'\",;`"

// Lexer splits a source stream into tokens.
type Lexer struct {
	scanner *token.Scanner
}

// New returns a Lexer reading tokens from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken scans and returns the next token in the stream.
func (lex *Lexer) ReadToken() *token.Token {
	lex.skipWhitespace()
	c, ok := lex.scanner.ScanRune()
	if !ok {
		if err := lex.scanner.Err(); err != nil {
			return lex.emit(token.ERROR, err.Error())
		}
		return lex.emit(token.EOF, "")
	}
	switch c {
	case '(':
		return lex.emitText(token.PAREN_L)
	case ')':
		return lex.emitText(token.PAREN_R)
	case '[':
		return lex.emitText(token.BRACKET_L)
	case ']':
		return lex.emitText(token.BRACKET_R)
	case '\'':
		return lex.emitText(token.QUOTE)
	case '`':
		return lex.emitText(token.BACKQUOTE)
	case ',':
		if lex.scanner.AcceptRune('@') {
			return lex.emitText(token.UNQUOTE_SPLICING)
		}
		return lex.emitText(token.UNQUOTE)
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case '#':
		if lex.scanner.AcceptRune('\'') {
			return lex.emitText(token.FUN_REF)
		}
		next, _ := lex.scanner.Peek()
		return lex.errorf("invalid dispatch character %q", next)
	case '?':
		return lex.readChar()
	case '"':
		return lex.readString()
	default:
		return lex.readWord()
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) *token.Token {
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emit(token.ERROR, fmt.Sprintf(format, v...))
}

// readChar scans the remainder of a character literal following '?'.  Escape
// sequences take a single rune after the backslash.
func (lex *Lexer) readChar() *token.Token {
	if lex.scanner.AcceptRune('\\') {
		if _, ok := lex.scanner.ScanRune(); !ok {
			return lex.errorf("unterminated character literal")
		}
		return lex.emitText(token.CHAR)
	}
	if _, ok := lex.scanner.ScanRune(); !ok {
		return lex.errorf("unterminated character literal")
	}
	return lex.emitText(token.CHAR)
}

// readString scans the remainder of a string literal following the opening
// double quote.  Strings may span multiple lines.
func (lex *Lexer) readString() *token.Token {
	for {
		c, ok := lex.scanner.ScanRune()
		if !ok {
			return lex.errorf("unterminated string literal")
		}
		switch c {
		case '\\':
			if _, ok := lex.scanner.ScanRune(); !ok {
				return lex.errorf("unterminated string literal")
			}
		case '"':
			return lex.emitText(token.STRING)
		}
	}
}

// readWord scans a maximal run of word runes and classifies it as an
// integer, a float, or a symbol.
func (lex *Lexer) readWord() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	text := lex.scanner.Text()
	if _, err := strconv.Atoi(text); err == nil {
		return lex.emitText(token.INT)
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return lex.emitText(token.FLOAT)
	}
	return lex.emitText(token.SYMBOL)
}

func (lex *Lexer) skipWhitespace() {
	lex.scanner.AcceptSeqSpace()
	lex.scanner.Ignore()
}

func isWord(c rune) bool {
	if unicode.IsSpace(c) {
		return false
	}
	return !strings.ContainsRune(nonWordRunes, c)
}
