// Copyright © 2026 The elnames authors

// Package annotator instruments rewrite invocations with tracing spans.  The
// engine opens a span per invocation and per traversal pass; annotator
// implementations forward those spans to a tracing backend so rewrites of
// large source trees can be attributed in an existing trace.
package annotator

// Annotator receives the engine's span boundaries.  Start returns a function
// closing the span; the engine guarantees the closer runs on every exit
// path.
type Annotator interface {
	// Start opens a span with the given name, nested under the most recent
	// open span.
	Start(name string) func()
}

// Noop returns an Annotator that records nothing.
func Noop() Annotator {
	return noop{}
}

type noop struct{}

func (noop) Start(string) func() {
	return func() {}
}
