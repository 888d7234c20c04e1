// Copyright © 2026 The elnames authors

// Package parser reads Emacs-Lisp-style source text into sexp trees.
//
// Reader shorthand expands structurally so the rewriting engine only ever
// sees plain lists:
//
//	'x   => (quote x)
//	`x   => (backquote x)
//	,x   => (unquote x)
//	,@x  => (unquote-splicing x)
//	#'x  => (function x)
//
// A top-level form preceded by the ;;;###autoload cookie has its Autoload
// flag set so deferred-loading extraction can find it later.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/elnames/elnames/parser/lexer"
	"github.com/elnames/elnames/parser/token"
	"github.com/elnames/elnames/sexp"
)

// AutoloadCookie marks a top-level form for deferred loading.
const AutoloadCookie = ";;;###autoload"

// Parse reads all forms from r.
func Parse(name string, r io.Reader) ([]*sexp.Node, error) {
	return New(token.NewScanner(name, r)).ParseProgram()
}

// ParseString reads all forms from source text src.
func ParseString(name, src string) ([]*sexp.Node, error) {
	return New(token.NewStringScanner(name, src)).ParseProgram()
}

// Parser is a recursive-descent parser over a token stream.
type Parser struct {
	lex  *lexer.Lexer
	tok  *token.Token // current token
	peek *token.Token // one token lookahead

	// autoload is set when the most recent comment run contained the
	// autoload cookie; it applies to the next top-level form parsed.
	autoload bool
}

// New initializes and returns a Parser reading tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	p := &Parser{lex: lexer.New(scanner)}
	p.peek = p.lex.ReadToken()
	return p
}

// ParseProgram parses a series of expressions until the stream is exhausted.
func (p *Parser) ParseProgram() ([]*sexp.Node, error) {
	var exprs []*sexp.Node
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			return exprs, nil
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

// Parse parses a single top-level expression.  Parse returns io.EOF when the
// stream is exhausted before an expression is read.
func (p *Parser) Parse() (*sexp.Node, error) {
	p.ignoreComments(true)
	if p.peekType() == token.EOF {
		return nil, io.EOF
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.autoload {
		expr.Autoload = true
		p.autoload = false
	}
	return expr, nil
}

func (p *Parser) parseExpression() (*sexp.Node, error) {
	p.ignoreComments(false)
	switch p.peekType() {
	case token.INT:
		p.next()
		x, err := strconv.Atoi(p.tok.Text)
		if err != nil {
			return nil, p.errorf("integer literal overflows int: %v", p.tok.Text)
		}
		return p.node(sexp.Int(x)), nil
	case token.FLOAT:
		p.next()
		x, err := strconv.ParseFloat(p.tok.Text, 64)
		if err != nil {
			return nil, p.errorf("invalid float literal: %v", p.tok.Text)
		}
		return p.node(sexp.Float(x)), nil
	case token.STRING:
		p.next()
		return p.node(sexp.String(unescape(p.tok.Text))), nil
	case token.CHAR:
		p.next()
		return p.node(sexp.Char(decodeChar(p.tok.Text))), nil
	case token.SYMBOL:
		p.next()
		return p.node(sexp.Symbol(p.tok.Text)), nil
	case token.QUOTE:
		return p.parseMacroChar("quote")
	case token.BACKQUOTE:
		return p.parseMacroChar("backquote")
	case token.UNQUOTE:
		return p.parseMacroChar("unquote")
	case token.UNQUOTE_SPLICING:
		return p.parseMacroChar("unquote-splicing")
	case token.FUN_REF:
		return p.parseMacroChar("function")
	case token.PAREN_L:
		return p.parseSeq(token.PAREN_R, sexp.List())
	case token.BRACKET_L:
		return p.parseSeq(token.BRACKET_R, sexp.Vector())
	case token.ERROR, token.INVALID:
		p.next()
		return nil, p.errorf("%s", p.tok.Text)
	default:
		p.next()
		return nil, p.errorf("unexpected token: %v", p.tok.Type)
	}
}

// parseMacroChar parses reader shorthand into its expanded two-element list.
func (p *Parser) parseMacroChar(head string) (*sexp.Node, error) {
	p.next()
	op := p.node(sexp.Symbol(head))
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	wrap := sexp.List(op, expr)
	wrap.Source = op.Source
	return wrap, nil
}

func (p *Parser) parseSeq(closing token.Type, expr *sexp.Node) (*sexp.Node, error) {
	p.next()
	open := p.tok
	expr.Source = open.Source
	for {
		p.ignoreComments(false)
		switch p.peekType() {
		case token.EOF:
			return nil, &token.LocationError{
				Err:    fmt.Errorf("unmatched %s", open.Text),
				Source: open.Source,
			}
		case closing:
			p.next()
			return expr, nil
		}
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Cells = append(expr.Cells, x)
	}
}

// ignoreComments skips comment tokens.  At the top level the autoload cookie
// is remembered for the form that follows.
func (p *Parser) ignoreComments(topLevel bool) {
	for p.peekType() == token.COMMENT {
		if topLevel && strings.HasPrefix(p.peek.Text, AutoloadCookie) {
			p.autoload = true
		}
		p.next()
	}
}

func (p *Parser) next() {
	p.tok = p.peek
	if p.tok.Type != token.EOF {
		p.peek = p.lex.ReadToken()
	}
}

func (p *Parser) peekType() token.Type {
	return p.peek.Type
}

func (p *Parser) node(v *sexp.Node) *sexp.Node {
	v.Source = p.tok.Source
	return v
}

func (p *Parser) errorf(format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: p.tok.Source,
	}
}

// unescape decodes a string literal's text, including the surrounding double
// quotes.  Unknown escape sequences drop the backslash.
func unescape(text string) string {
	body := text[1 : len(text)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	escaped := false
	for _, c := range body {
		if !escaped {
			if c == '\\' {
				escaped = true
			} else {
				b.WriteRune(c)
			}
			continue
		}
		escaped = false
		switch c {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// decodeChar decodes a character literal's text, including the leading '?'.
func decodeChar(text string) rune {
	body := text[1:]
	if strings.HasPrefix(body, `\`) {
		switch body[1:] {
		case "n":
			return '\n'
		case "t":
			return '\t'
		case "r":
			return '\r'
		}
		c, _ := utf8.DecodeRuneInString(body[1:])
		return c
	}
	c, _ := utf8.DecodeRuneInString(body)
	return c
}
