// Copyright © 2026 The elnames authors

package annotator

import (
	"context"

	"go.opencensus.io/trace"
)

var _ Annotator = &ocAnnotator{}

type ocAnnotator struct {
	ctx    context.Context
	prefix string
}

// NewOpenCensus returns an Annotator appending spans to a context linked to
// OpenCensus.
func NewOpenCensus(ctx context.Context, prefix string) Annotator {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ocAnnotator{ctx: ctx, prefix: prefix}
}

func (a *ocAnnotator) Start(name string) func() {
	oldCtx := a.ctx
	var span *trace.Span
	a.ctx, span = trace.StartSpan(a.ctx, name)
	span.AddAttributes(trace.StringAttribute("elnames.prefix", a.prefix))
	return func() {
		span.End()
		a.ctx = oldCtx
	}
}
