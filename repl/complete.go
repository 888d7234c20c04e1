// Copyright © 2026 The elnames authors

package repl

import (
	"sort"
	"strings"
)

// formNames are head symbols the rewriting engine understands natively,
// offered as completions alongside session symbols.
var formNames = []string{
	"defvar", "defconst", "defcustom", "defvaralias",
	"defun", "defsubst", "defalias", "defmacro",
	"define-minor-mode", "define-derived-mode",
	"lambda", "let", "let*", "cond", "condition-case",
	"quote", "function", "backquote", "interactive",
}

// symbolCompleter implements readline.AutoCompleter by enumerating symbols
// from the session block.
type symbolCompleter struct {
	session *Session
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or
	// open paren).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collect(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len(prefix)
}

func (c *symbolCompleter) collect(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, name := range formNames {
		add(name)
	}
	for _, name := range c.session.Symbols() {
		add(name)
	}
	sort.Strings(result)
	return result
}
