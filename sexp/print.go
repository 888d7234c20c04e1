// Copyright © 2026 The elnames authors

package sexp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Reader shorthand rendered by String.  A two-element list whose head is one
// of these symbols prints using its surface syntax instead of the expanded
// list form.
var readerMacros = map[string]string{
	"quote":            "'",
	"function":         "#'",
	"backquote":        "`",
	"unquote":          ",",
	"unquote-splicing": ",@",
}

func (v *Node) String() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

func (v *Node) write(buf *bytes.Buffer) {
	switch v.Type {
	case NSymbol:
		buf.WriteString(v.Str)
	case NString:
		buf.WriteString(strconv.Quote(v.Str))
	case NInt:
		buf.WriteString(strconv.Itoa(v.Int))
	case NFloat:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		// Distinguish whole floats from ints in output.
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case NChar:
		buf.WriteString(charString(rune(v.Int)))
	case NList:
		if mark, ok := readerMacros[v.Head()]; ok && len(v.Cells) == 2 {
			buf.WriteString(mark)
			v.Cells[1].write(buf)
			return
		}
		writeSeq(buf, v.Cells, "(", ")")
	case NVector:
		writeSeq(buf, v.Cells, "[", "]")
	default:
		fmt.Fprintf(buf, "#<%s %#v>", v.Type, v)
	}
}

func writeSeq(buf *bytes.Buffer, cells []*Node, open, close string) {
	buf.WriteString(open)
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		c.write(buf)
	}
	buf.WriteString(close)
}

func charString(c rune) string {
	switch c {
	case '\n':
		return `?\n`
	case '\t':
		return `?\t`
	case '\r':
		return `?\r`
	case ' ':
		return `?\ `
	case '\\':
		return `?\\`
	}
	return "?" + string(c)
}
