// Copyright © 2026 The elnames authors

// Package parsecparser provides an alternate parser for the Emacs-Lisp-style
// surface syntax built on parser combinators.
//
// The combinator grammar covers the same surface forms as the hand-written
// parser with two limitations: source locations are byte offsets without
// line information, and ;;;###autoload cookies are not tracked (comments are
// discarded by the combinators).  Deferred-loading extraction therefore
// requires the default parser.
package parsecparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	parsec "github.com/prataprc/goparsec"

	"github.com/elnames/elnames/sexp"
)

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeList
	nodeVector
	nodeWrap
)

type nodeType uint

// Parse reads all forms from r.
func Parse(name string, r io.Reader) ([]*sexp.Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(name, b)
}

// ParseBytes parses forms from text.  The whole input must be consumed; any
// trailing unparsable text is an error.
func ParseBytes(name string, text []byte) ([]*sexp.Node, error) {
	var v []*sexp.Node
	s := parsec.NewScanner(text)
	s = s.TrackLineno()
	parser := newParsecParser()
	root, s := parser(s)
	for root != nil {
		node, err := getNode(root)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if node != nil {
			v = append(v, node)
		}
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return nil, fmt.Errorf("%s:%d: unexpected source text possibly starting: %s", name, s.Lineno(), b)
	}
	return v, nil
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	quote := parsec.Atom("'", "QUOTE")
	backquote := parsec.Atom("`", "BACKQUOTE")
	unquoteSplicing := parsec.Atom(",@", "UNQUOTESPLICING")
	unquote := parsec.Atom(",", "UNQUOTE")
	funRef := parsec.Atom("#'", "FUNREF")
	comment := parsec.Token(`;([^\n]*[^\s])?`, "COMMENT")
	char := parsec.Token(`\?(\\.|[^\s])`, "CHAR")
	// Any run of non-delimiter runes; classified as int, float, or symbol
	// after matching.
	word := parsec.Token("[^\\s()\\[\\]'\",;`]+", "WORD")
	term := parsec.OrdChoice(astNode(nodeTerm),
		parsec.String(),
		char,
		word, // word comes last because it swallows anything
	)
	var expr parsec.Parser // forward declaration allows recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	list := parsec.And(astNode(nodeList), openP, exprList, closeP)
	vector := parsec.And(astNode(nodeVector), openB, exprList, closeB)
	listOUnmatched := parsec.And(astNode(nodeInvalid), openP, exprList, parsec.End())
	vectorOUnmatched := parsec.And(astNode(nodeInvalid), openB, exprList, parsec.End())
	marked := func(mark parsec.Parser) parsec.Parser {
		return parsec.And(astNode(nodeWrap), mark, &expr)
	}
	expr = parsec.OrdChoice(nil,
		comment,
		// Marks must be tried before term: WORD matches a lone "#", so #'f
		// would otherwise tokenize as the symbol # followed by 'f.
		marked(funRef),
		marked(quote),
		marked(backquote),
		marked(unquoteSplicing),
		marked(unquote),
		term,
		list,
		vector,
		// Error matching cases come last because they have the lowest
		// precedence.
		listOUnmatched,
		vectorOUnmatched,
	)
	return expr
}

// markHeads maps the shorthand mark atoms to the expanded head symbol.
var markHeads = map[string]string{
	"QUOTE":           "quote",
	"BACKQUOTE":       "backquote",
	"UNQUOTE":         "unquote",
	"UNQUOTESPLICING": "unquote-splicing",
	"FUNREF":          "function",
}

func newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanParsecNodeList(nodes)
	if len(nodes) == 0 {
		return nil
	}
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	switch typ {
	case nodeTerm:
		return termNode(nodes[0])
	case nodeList, nodeVector:
		expr := sexp.List()
		if typ == nodeVector {
			expr = sexp.Vector()
		}
		for _, c := range nodes {
			if c, ok := c.(*sexp.Node); ok {
				expr.Cells = append(expr.Cells, c)
			}
		}
		return expr
	case nodeWrap:
		mark := nodes[0].(*parsec.Terminal)
		c, ok := nodes[1].(*sexp.Node)
		if !ok {
			return fmt.Errorf("missing expression following %s", mark.GetValue())
		}
		return sexp.List(sexp.Symbol(markHeads[mark.GetName()]), c)
	case nodeInvalid:
		open := nodes[0].(*parsec.Terminal)
		return fmt.Errorf("unmatched %q", open.GetValue())
	default:
		panic(fmt.Sprintf("unknown nodeType: %d", typ))
	}
}

func termNode(node parsec.ParsecNode) parsec.ParsecNode {
	switch term := node.(type) {
	case string:
		// The goparsec String parser returns the unescaped text still
		// wrapped in double quotes.
		return sexp.String(term[1 : len(term)-1])
	case *parsec.Terminal:
		switch term.Name {
		case "CHAR":
			body := term.Value[1:]
			if strings.HasPrefix(body, `\`) {
				switch body {
				case `\n`:
					return sexp.Char('\n')
				case `\t`:
					return sexp.Char('\t')
				case `\r`:
					return sexp.Char('\r')
				}
				body = body[1:]
			}
			c, _ := utf8.DecodeRuneInString(body)
			return sexp.Char(c)
		case "WORD":
			if x, err := strconv.Atoi(term.Value); err == nil {
				return sexp.Int(x)
			}
			if f, err := strconv.ParseFloat(term.Value, 64); err == nil {
				return sexp.Float(f)
			}
			return sexp.Symbol(term.Value)
		}
	}
	return fmt.Errorf("unexpected terminal: %v", node)
}

func cleanParsecNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case nil:
			continue
		case *parsec.Terminal:
			if node.Name == "COMMENT" {
				continue
			}
			nodes = append(nodes, node)
		case error:
			return []parsec.ParsecNode{node}, false
		case []parsec.ParsecNode:
			clean, ok := cleanParsecNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newAST(t, nodes)
	}
}

func getNode(root parsec.ParsecNode) (*sexp.Node, error) {
	nodes, ok := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		// Only whitespace or a comment was matched.
		return nil, nil
	}
	if !ok {
		return nil, nodes[0].(error)
	}
	node, ok := nodes[0].(*sexp.Node)
	if !ok {
		return nil, nil
	}
	return node, nil
}
