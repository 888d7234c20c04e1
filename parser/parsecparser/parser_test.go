// Copyright © 2026 The elnames authors

package parsecparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{{
		name: "atoms",
		src:  `foo 1 -2 1.5 "str" ?a`,
		want: []string{"foo", "1", "-2", "1.5", `"str"`, "?a"},
	}, {
		name: "lists and vectors",
		src:  `(a (b c) []) [1 2]`,
		want: []string{"(a (b c) [])", "[1 2]"},
	}, {
		name: "reader shorthand expands",
		src:  "'x #'f `(a ,b ,@c)",
		want: []string{"'x", "#'f", "`(a ,b ,@c)"},
	}, {
		name: "comments are skipped",
		src:  "; leading\n(a ; inline\n b)",
		want: []string{"(a b)"},
	}, {
		name: "escaped characters",
		src:  `?\n ?\t`,
		want: []string{`?\n`, `?\t`},
	}, {
		name: "empty input",
		src:  "  \n ; only a comment\n",
		want: nil,
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			forms, err := ParseBytes("test.el", []byte(test.src))
			require.NoError(t, err)
			var got []string
			for _, form := range forms {
				got = append(got, form.String())
			}
			assert.Equal(t, test.want, got)
		})
	}
}

func TestParseBytesErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unmatched paren", "(a (b)"},
		{"unmatched bracket", "[1 2"},
		{"dangling quote", "'"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseBytes("test.el", []byte(test.src))
			assert.Error(t, err)
		})
	}
}

func TestParseBytesAgreesWithDefaultParser(t *testing.T) {
	// Both parsers must yield structurally identical trees for shared
	// surface syntax.
	const src = "(defvar foo-bar 1 \"Doc.\")\n(defun f (x) (let ((y x)) `(a ,y)))"
	forms, err := ParseBytes("test.el", []byte(src))
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, `(defvar foo-bar 1 "Doc.")`, forms[0].String())
	assert.Equal(t, "(defun f (x) (let ((y x)) `(a ,y)))", forms[1].String())
}
