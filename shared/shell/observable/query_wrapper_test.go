package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell/observable"
	. "github.com/Rayyy-dev/ShelfWise-sub000/testutil/observability/testdoubles" //nolint:revive
)

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, int](
		mockQueryHandler{output: 42},
		observable.WithQueryMetrics[mockQuery, int](metricsCollector),
		observable.WithQueryTracing[mockQuery, int](tracingCollector),
		observable.WithQueryContextualLogging[mockQuery, int](contextualLogger),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	output, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 42, output)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "TestQuery").
		WithStatus(shell.StatusSuccess).
		Assert(), "Should record query call metric")
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.QueryHandlerDurationMetric).
		WithStatus(shell.StatusSuccess).
		Assert(), "Should record query duration metric")
	assert.True(t, tracingCollector.HasSpanRecordForName(shell.SpanNameQueryHandle).
		WithStartAttribute(shell.LogAttrQueryType, "TestQuery").
		Assert(), "Should trace the query")
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgQueryCompleted), "Should log query completion")
}

func Test_QueryWrapper_Handle_NotFound_IsRejected(t *testing.T) {
	// arrange
	metricsCollector := NewMetricsCollectorSpy(true)
	logger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, int](
		mockQueryHandler{err: circulation.NotFound("borrowing not found")},
		observable.WithQueryMetrics[mockQuery, int](metricsCollector),
		observable.WithQueryLogging[mockQuery, int](logger),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithStatus(shell.StatusRejected).
		Assert(), "Should record the query as rejected")
	assert.True(t, logger.HasErrorLog(shell.LogMsgQueryFailed), "Should log the failed query")
}

func Test_QueryWrapper_Handle_Error(t *testing.T) {
	// arrange
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, int](
		mockQueryHandler{err: errors.New("boom")},
		observable.WithQueryMetrics[mockQuery, int](metricsCollector),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.EqualError(t, err, "boom")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithStatus(shell.StatusError).
		Assert(), "Should record the query as failed")
}

type mockQuery struct{}

func (q mockQuery) QueryType() string {
	return "TestQuery"
}

type mockQueryHandler struct {
	output int
	err    error
}

func (h mockQueryHandler) Handle(_ context.Context, _ mockQuery) (int, error) {
	return h.output, h.err
}
