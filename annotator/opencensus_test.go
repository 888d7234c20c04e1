// Copyright © 2026 The elnames authors

package annotator_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"

	"github.com/elnames/elnames/annotator"
	"github.com/elnames/elnames/namespace"
	"github.com/elnames/elnames/parser"
)

// captureExporter collects span data in memory.
type captureExporter struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (e *captureExporter) ExportSpan(sd *trace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, sd)
}

func (e *captureExporter) names() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]bool, len(e.spans))
	for _, sd := range e.spans {
		out[sd.Name] = true
	}
	return out
}

func TestNewOpenCensus(t *testing.T) {
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	exporter := new(captureExporter)
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	forms, err := parser.ParseString("test.el", `(defvar bar 1)`)
	require.NoError(t, err)
	eng, err := namespace.New("foo-")
	require.NoError(t, err)
	eng.SetAnnotator(annotator.NewOpenCensus(context.Background(), "foo-"))
	_, err = eng.Rewrite(forms)
	require.NoError(t, err)

	names := exporter.names()
	assert.True(t, names["rewrite"])
	assert.True(t, names["discovery-pass"])
	assert.True(t, names["rewrite-pass"])
}
