// Copyright © 2026 The elnames authors

package annotator

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans produced by this package.
const tracerName = "elnames"

var _ Annotator = &otelAnnotator{}

type otelAnnotator struct {
	ctx    context.Context
	prefix string
}

// NewOpenTelemetry returns an Annotator appending spans to a context linked
// to OpenTelemetry.  The configured prefix is recorded on every span.
func NewOpenTelemetry(ctx context.Context, prefix string) Annotator {
	if ctx == nil {
		ctx = context.Background()
	}
	return &otelAnnotator{ctx: ctx, prefix: prefix}
}

func (a *otelAnnotator) Start(name string) func() {
	tracer := otel.GetTracerProvider().Tracer(tracerName)
	oldCtx := a.ctx
	var span trace.Span
	a.ctx, span = tracer.Start(a.ctx, name)
	span.SetAttributes(attribute.String("elnames.prefix", a.prefix))
	return func() {
		span.End()
		a.ctx = oldCtx
	}
}
