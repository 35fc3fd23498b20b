package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/oteladapters"
)

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	exporter, collector := newTracingCollector()

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "commandhandler.handle",
		map[string]string{"command_type": "Checkout"})
	spanCtx.AddAttribute("borrowing_id", "b-1")
	collector.FinishSpan(spanCtx, "success", map[string]string{"duration_ms": "1.50"})

	// assert
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid(), "Returned context should carry the span")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, "commandhandler.handle", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)
	assertSpanHasAttribute(t, span, "command_type", "Checkout")
	assertSpanHasAttribute(t, span, "borrowing_id", "b-1")
	assertSpanHasAttribute(t, span, "duration_ms", "1.50")
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
	}{
		{"success", codes.Ok},
		{"idempotent", codes.Unset},
		{"rejected", codes.Unset},
		{"error", codes.Error},
		{"canceled", codes.Error},
		{"timeout", codes.Error},
		{"concurrency_conflict", codes.Error},
		{"something_else", codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			exporter, collector := newTracingCollector()
			_, spanCtx := collector.StartSpan(context.Background(), "op", nil)

			// act
			collector.FinishSpan(spanCtx, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_RejectedIsRecordedAsOutcome(t *testing.T) {
	// arrange
	exporter, collector := newTracingCollector()
	_, spanCtx := collector.StartSpan(context.Background(), "commandhandler.handle", nil)

	// act
	collector.FinishSpan(spanCtx, "rejected", map[string]string{"error_kind": "Conflict"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assertSpanHasAttribute(t, spans[0], "circulation.outcome", "rejected")
	assertSpanHasAttribute(t, spans[0], "error_kind", "Conflict")
}

func Test_TracingCollector_FinishSpan_IgnoresForeignSpans(t *testing.T) {
	// arrange
	exporter, collector := newTracingCollector()

	// act
	collector.FinishSpan(nil, "success", nil)

	// assert
	assert.Empty(t, exporter.GetSpans())
}

func Test_TracingCollector_NestedSpansShareTrace(t *testing.T) {
	// arrange
	exporter, collector := newTracingCollector()

	// act
	ctx, parent := collector.StartSpan(context.Background(), "commandhandler.handle", nil)
	_, child := collector.StartSpan(ctx, "circulation.unit_of_work", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[0].SpanContext.TraceID(), spans[1].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID(), "Child should point to its parent")
}

func newTracingCollector() (*tracetest.InMemoryExporter, *oteladapters.TracingCollector) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return exporter, oteladapters.NewTracingCollector(provider.Tracer("test"))
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == expectedValue {
			return
		}
	}

	assert.Failf(t, "missing span attribute", "span should have attribute %s=%s", key, expectedValue)
}
