// Copyright © 2026 The elnames authors

package token

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a source stream.  The
// entire stream is buffered in memory; rewrite inputs are source files, not
// unbounded streams.
type Scanner struct {
	file string
	src  string

	start     int // byte offset of the current token's first byte
	pos       int // byte offset of the next unscanned rune
	line      int // line number at pos
	col       int // column number at pos
	startLine int // line number at start
	startCol  int // column number at start

	readErr error
}

// NewScanner initializes and returns a new Scanner reading from r.
func NewScanner(file string, r io.Reader) *Scanner {
	s := &Scanner{file: file, line: 1, col: 1, startLine: 1, startCol: 1}
	b, err := io.ReadAll(r)
	if err != nil {
		s.readErr = err
	}
	s.src = string(b)
	return s
}

// NewStringScanner initializes and returns a Scanner reading source text
// directly from a string.
func NewStringScanner(file, src string) *Scanner {
	return &Scanner{file: file, src: src, line: 1, col: 1, startLine: 1, startCol: 1}
}

// Err returns any error encountered reading the source stream.
func (s *Scanner) Err() error {
	return s.readErr
}

// EOF returns true once every rune of the source has been scanned.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.src)
}

// Peek returns the next rune to be scanned.  The second return value is
// false at the end of the stream.
func (s *Scanner) Peek() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return c, true
}

// ScanRune consumes the next rune for inclusion in the current token and
// returns it.  ScanRune returns false at the end of the stream.
func (s *Scanner) ScanRune() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	c, n := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c, true
}

// Accept consumes the next rune if fn approves of it.
func (s *Scanner) Accept(fn func(rune) bool) bool {
	c, ok := s.Peek()
	if !ok || !fn(c) {
		return false
	}
	s.ScanRune()
	return true
}

// AcceptRune consumes the next rune if it equals c.
func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

// AcceptAny consumes the next rune if it appears in charset.
func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

// AcceptSeq consumes runes while fn approves, returning the count consumed.
func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

// AcceptSeqSpace consumes a run of whitespace.
func (s *Scanner) AcceptSeqSpace() int {
	return s.AcceptSeq(unicode.IsSpace)
}

// Text returns the text scanned since the last call to EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.pos]
}

// Ignore discards all text scanned since the last call to EmitToken or
// Ignore.
func (s *Scanner) Ignore() {
	s.start = s.pos
	s.startLine = s.line
	s.startCol = s.col
}

// EmitToken returns a token containing the text scanned since the last call
// to EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// LocStart returns a Location referencing the beginning of the current
// token, just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}
