package observable_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell/observable"
	. "github.com/Rayyy-dev/ShelfWise-sub000/testutil/observability/testdoubles" //nolint:revive
)

func Test_CommandWrapper_NewCommandWrapper_Success(t *testing.T) {
	// arrange
	handler := newMockHandler(shell.HandlerResult{}, nil)

	// act
	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		handler,
		observable.WithCommandMetrics[mockCommand, string](NewMetricsCollectorSpy(true)),
	)

	// assert
	assert.NoError(t, err, "Should create wrapper successfully")
	assert.NotNil(t, wrapper, "Should return wrapper instance")
}

func Test_CommandWrapper_Handle_Success_NonIdempotent(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{RetryAttempts: 1, LastErrorType: "none"}
	handler := newMockHandler(expectedResult, nil)
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		handler,
		observable.WithCommandMetrics[mockCommand, string](metricsCollector),
		observable.WithCommandTracing[mockCommand, string](tracingCollector),
		observable.WithCommandContextualLogging[mockCommand, string](contextualLogger),
	)
	assert.NoError(t, err, "Should create wrapper")

	command := mockCommand{ID: "c-1"}

	// act
	output, result, err := wrapper.Handle(context.Background(), command)

	// assert
	assert.NoError(t, err, "Should handle command successfully")
	assert.Equal(t, "done", output, "Should pass the handler output through")
	assert.Equal(t, expectedResult, result, "Should return handler result")
	assert.Equal(t, []mockCommand{command}, handler.GetCalls(), "Should call handler once with the command")

	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		WithStatus(shell.StatusSuccess).
		Assert(), "Should record success metric")
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		WithStatus(shell.StatusSuccess).
		Assert(), "Should record duration metric")
	assert.Zero(t, metricsCollector.CountCounterRecordsForMetric(shell.CommandHandlerRetriesMetric),
		"Should not record retries for a single attempt")

	assert.True(t, tracingCollector.HasSpanRecordForName(shell.SpanNameCommandHandle).
		WithStartAttribute(shell.LogAttrCommandType, "TestCommand").
		WithStatus(shell.StatusSuccess).
		Assert(), "Should finish span with success")

	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgCommandStarted), "Should log command start")
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgCommandCompleted), "Should log command completion")
}

func Test_CommandWrapper_Handle_Success_Idempotent(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{Idempotent: true, RetryAttempts: 1, LastErrorType: "none"}
	handler := newMockHandler(expectedResult, nil)
	metricsCollector := NewMetricsCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		handler,
		observable.WithCommandMetrics[mockCommand, string](metricsCollector),
		observable.WithCommandContextualLogging[mockCommand, string](contextualLogger),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err, "Should handle command successfully")
	assert.True(t, result.Idempotent, "Should keep the idempotent flag")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerIdempotentMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		Assert(), "Should record idempotent metric")

	record, found := contextualLogger.FindLog("info", shell.LogMsgCommandCompleted)
	assert.True(t, found, "Should log command completion")
	assert.Equal(t, shell.StatusIdempotent, record.Attr(shell.LogAttrBusinessOutcome), "Should log the idempotent outcome")
}

func Test_CommandWrapper_Handle_BusinessRuleViolation_IsRejectedNotFailed(t *testing.T) {
	// arrange
	rejection := circulation.Conflict("copy is currently BORROWED")
	handler := newMockHandler(shell.HandlerResult{RetryAttempts: 1, LastErrorType: "business_rule"}, rejection)
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		handler,
		observable.WithCommandMetrics[mockCommand, string](metricsCollector),
		observable.WithCommandTracing[mockCommand, string](tracingCollector),
		observable.WithCommandContextualLogging[mockCommand, string](contextualLogger),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, _, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.Same(t, rejection, err, "Should return the exact business error")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerRejectedMetric).
		WithStatus(shell.StatusRejected).
		Assert(), "Should record rejected metric")
	assert.True(t, tracingCollector.HasSpanRecordForName(shell.SpanNameCommandHandle).
		WithStatus(shell.StatusRejected).
		WithEndAttribute(shell.LogAttrErrorKind, string(circulation.KindConflict)).
		Assert(), "Should finish span with the error kind")
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgCommandRejected), "Should log rejection at info level")
	assert.False(t, contextualLogger.HasErrorLog(shell.LogMsgCommandFailed), "Should not log a rejection as failure")
}

func Test_CommandWrapper_Handle_InfrastructureError_RecordsFailure(t *testing.T) {
	// arrange
	expectedError := errors.New("connection reset by peer")
	expectedResult := shell.HandlerResult{RetryAttempts: 1, LastErrorType: "other"}
	handler := newMockHandler(expectedResult, expectedError)
	metricsCollector := NewMetricsCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		handler,
		observable.WithCommandMetrics[mockCommand, string](metricsCollector),
		observable.WithCommandContextualLogging[mockCommand, string](contextualLogger),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.Equal(t, expectedError, err, "Should return exact error")
	assert.Equal(t, expectedResult, result, "Should return handler result even on error")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithStatus(shell.StatusError).
		Assert(), "Should record error metric")
	assert.True(t, contextualLogger.HasErrorLog(shell.LogMsgCommandFailed), "Should log command failure")
}

func Test_CommandWrapper_Handle_ContextErrors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus string
		expectedMetric string
	}{
		{"canceled", context.Canceled, shell.StatusCanceled, shell.CommandHandlerCanceledMetric},
		{"deadline exceeded", context.DeadlineExceeded, shell.StatusTimeout, shell.CommandHandlerTimeoutMetric},
		{
			"concurrency conflict",
			errors.Join(circulation.ErrConcurrencyConflict, errors.New("40001")),
			shell.StatusConcurrencyConflict,
			shell.CommandHandlerConcurrencyConflictMetric,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			metricsCollector := NewMetricsCollectorSpy(true)
			wrapper, err := observable.NewCommandWrapper[mockCommand, string](
				newMockHandler(shell.HandlerResult{RetryAttempts: 1}, tc.err),
				observable.WithCommandMetrics[mockCommand, string](metricsCollector),
			)
			assert.NoError(t, err, "Should create wrapper")

			// act
			_, _, err = wrapper.Handle(context.Background(), mockCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err, "Should return the handler error")
			assert.True(t, metricsCollector.HasCounterRecordForMetric(tc.expectedMetric).
				WithStatus(tc.expectedStatus).
				Assert(), "Should record %s metric", tc.expectedStatus)
		})
	}
}

func Test_CommandWrapper_Handle_WithRetries_RecordsMetrics(t *testing.T) {
	// arrange
	resultWithRetries := shell.HandlerResult{
		RetryAttempts:   3,
		TotalRetryDelay: 15 * time.Millisecond,
		LastErrorType:   "none",
	}
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		newMockHandler(resultWithRetries, nil),
		observable.WithCommandMetrics[mockCommand, string](metricsCollector),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err, "Should handle command successfully")
	assert.Equal(t, resultWithRetries, result, "Should return handler result with retry metadata")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerRetriesMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		WithLabel(shell.LogAttrAttemptNumber, "2").
		Assert(), "Should record retry attempts metric")
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.CommandHandlerRetryDelayMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		Assert(), "Should record retry delay metric")
	assert.Zero(t, metricsCollector.CountCounterRecordsForMetric(shell.CommandHandlerMaxRetriesReachedMetric),
		"Should not report exhausted retries on success")
}

func Test_CommandWrapper_Handle_RetriesExhausted_RecordsMetric(t *testing.T) {
	// arrange
	exhausted := shell.HandlerResult{
		RetryAttempts:    6,
		TotalRetryDelay:  310 * time.Millisecond,
		LastErrorType:    "concurrency_conflict",
		RetriesExhausted: true,
	}
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		newMockHandler(exhausted, circulation.ErrConcurrencyConflict),
		observable.WithCommandMetrics[mockCommand, string](metricsCollector),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, _, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.ErrorIs(t, err, circulation.ErrConcurrencyConflict)
	assert.Equal(t, 1, metricsCollector.CountCounterRecordsForMetric(shell.CommandHandlerMaxRetriesReachedMetric),
		"Should record retry exhaustion once")
}

func Test_CommandWrapper_Handle_FallsBackToPlainLogger(t *testing.T) {
	// arrange
	logger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		newMockHandler(shell.HandlerResult{RetryAttempts: 1}, nil),
		observable.WithCommandLogging[mockCommand, string](logger),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, _, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandStarted), "Should log start through the plain logger")
	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandCompleted), "Should log completion through the plain logger")
}

func Test_CommandWrapper_Handle_WithoutObservability(t *testing.T) {
	// arrange
	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		newMockHandler(shell.HandlerResult{RetryAttempts: 1}, nil),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	output, _, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err, "Should work without any observability configured")
	assert.Equal(t, "done", output)
}

// mockCommand implements shell.Command for testing.
type mockCommand struct {
	ID string
}

func (c mockCommand) CommandType() string {
	return "TestCommand"
}

// mockCoreHandler implements shell.CoreCommandHandler for testing.
type mockCoreHandler struct {
	result shell.HandlerResult
	err    error
	calls  []mockCommand
	mu     sync.Mutex
}

func (h *mockCoreHandler) Handle(_ context.Context, command mockCommand) (string, shell.HandlerResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, command)

	if h.err != nil {
		return "", h.result, h.err
	}

	return "done", h.result, nil
}

func (h *mockCoreHandler) GetCalls() []mockCommand {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]mockCommand(nil), h.calls...)
}

func newMockHandler(result shell.HandlerResult, err error) *mockCoreHandler {
	return &mockCoreHandler{result: result, err: err}
}
