// Copyright © 2026 The elnames authors

package sexp

// Walk calls fn for every node in the trees, depth-first.  parent is nil for
// top-level expressions.
//
// Walk does not recurse into backquote templates; they are code-generation
// data where a form like (defun (unquote name) ...) is not an actual
// definition.  This mirrors how the rewriting engine treats templates.
func Walk(exprs []*Node, fn func(node *Node, parent *Node, depth int)) {
	for _, expr := range exprs {
		walkNode(expr, nil, 0, fn)
	}
}

func walkNode(node *Node, parent *Node, depth int, fn func(*Node, *Node, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	if node.Head() == "backquote" {
		return
	}
	for _, child := range node.Cells {
		walkNode(child, node, depth+1, fn)
	}
}

// Symbols returns the distinct symbol names appearing in the trees, in
// first-appearance order.
func Symbols(exprs []*Node) []string {
	seen := make(map[string]bool)
	var names []string
	Walk(exprs, func(node *Node, _ *Node, _ int) {
		if node.Type == NSymbol && !seen[node.Str] {
			seen[node.Str] = true
			names = append(names, node.Str)
		}
	})
	return names
}
