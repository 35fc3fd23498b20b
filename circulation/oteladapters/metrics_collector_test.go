package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/oteladapters"
)

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	reader, collector := newMetricsCollector()
	labels := map[string]string{"command_type": "Checkout", "status": "success"}

	// act
	collector.RecordDuration("commandhandler_handle_duration_seconds", 150*time.Millisecond, labels)

	// assert
	histogram := findHistogram(t, collect(t, reader), "commandhandler_handle_duration_seconds")
	require.Len(t, histogram.DataPoints, 1, "Expected exactly one data point")

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.15, dataPoint.Sum, 0.001, "Duration should be recorded in seconds")

	expectedAttrs := attribute.NewSet(
		attribute.String("command_type", "Checkout"),
		attribute.String("status", "success"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs), "Attributes should match the labels")
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	reader, collector := newMetricsCollector()
	labels := map[string]string{"command_type": "PayFine", "status": "rejected"}

	// act
	collector.IncrementCounter("commandhandler_rejected_operations_total", labels)
	collector.IncrementCounterContext(context.Background(), "commandhandler_rejected_operations_total", labels)
	collector.IncrementCounter("commandhandler_rejected_operations_total", labels)

	// assert
	counter := findCounter(t, collect(t, reader), "commandhandler_rejected_operations_total")
	require.Len(t, counter.DataPoints, 1, "Same labels should aggregate into one data point")
	assert.Equal(t, int64(3), counter.DataPoints[0].Value)
	assert.True(t, counter.IsMonotonic)
}

func Test_MetricsCollector_IncrementCounter_SeparatesLabelSets(t *testing.T) {
	// arrange
	reader, collector := newMetricsCollector()

	// act
	collector.IncrementCounter("commandhandler_handle_calls_total", map[string]string{"status": "success"})
	collector.IncrementCounter("commandhandler_handle_calls_total", map[string]string{"status": "error"})

	// assert
	counter := findCounter(t, collect(t, reader), "commandhandler_handle_calls_total")
	assert.Len(t, counter.DataPoints, 2, "Different labels should produce separate data points")
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	reader, collector := newMetricsCollector()

	// act
	collector.RecordValue("accrual_overdue_borrowings", 7, map[string]string{"owner": "all"})
	collector.RecordValueContext(context.Background(), "accrual_overdue_borrowings", 4, map[string]string{"owner": "all"})

	// assert
	gauge := findGauge(t, collect(t, reader), "accrual_overdue_borrowings")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 4.0, gauge.DataPoints[0].Value, 0.0001, "Gauge should keep the last value")
}

func Test_MetricsCollector_ConcurrentUse(t *testing.T) {
	// arrange
	reader, collector := newMetricsCollector()
	const goroutines = 20

	var wg sync.WaitGroup

	// act
	for range goroutines {
		wg.Add(1)

		go func() {
			defer wg.Done()
			collector.IncrementCounter("commandhandler_handle_calls_total", nil)
			collector.RecordDuration("commandhandler_handle_duration_seconds", time.Millisecond, nil)
		}()
	}

	wg.Wait()

	// assert
	counter := findCounter(t, collect(t, reader), "commandhandler_handle_calls_total")
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(goroutines), counter.DataPoints[0].Value)
}

func newMetricsCollector() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics), "Failed to collect metrics")

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	return metricdata.Metrics{}
}

func findHistogram(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Histogram[float64] {
	t.Helper()

	h, ok := findMetric(t, rm, name).Data.(metricdata.Histogram[float64])
	require.True(t, ok, "metric %s is not a float64 histogram", name)

	return h
}

func findCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Sum[int64] {
	t.Helper()

	c, ok := findMetric(t, rm, name).Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)

	return c
}

func findGauge(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Gauge[float64] {
	t.Helper()

	g, ok := findMetric(t, rm, name).Data.(metricdata.Gauge[float64])
	require.True(t, ok, "metric %s is not a float64 gauge", name)

	return g
}
