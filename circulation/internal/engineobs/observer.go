package engineobs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

const (
	// MetricUnitOfWorkDuration tracks the wall time of one unit of work including commit.
	MetricUnitOfWorkDuration = "circulation_uow_duration_seconds"

	// MetricUnitOfWorkCalls counts units of work by engine and status.
	MetricUnitOfWorkCalls = "circulation_uow_calls_total"

	// MetricConcurrencyConflicts counts units of work aborted with circulation.ErrConcurrencyConflict.
	MetricConcurrencyConflicts = "circulation_concurrency_conflicts_total"

	// MetricDatabaseErrors counts units of work that failed for infrastructure reasons.
	MetricDatabaseErrors = "circulation_database_errors_total"

	// SpanNameUnitOfWork is the tracing span name for one unit of work.
	SpanNameUnitOfWork = "circulation.uow"

	StatusSuccess             = "success"
	StatusRejected            = "rejected"
	StatusError               = "error"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"

	AttrEngine     = "engine"
	AttrStatus     = "status"
	AttrErrorType  = "error_type"
	AttrErrorKind  = "error_kind"
	AttrDurationMS = "duration_ms"
	AttrError      = "error"
	AttrQuery      = "query"

	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "circulation engine operation: "
	logMsgUnitOfWorkCommitted = "unit of work committed"
	logMsgUnitOfWorkRejected  = "unit of work rolled back"
	logMsgUnitOfWorkFailed    = "unit of work failed"
)

// Observer bundles the optional observability collaborators of an engine. All of them may be nil.
type Observer struct {
	Engine           string
	Logger           circulation.Logger
	ContextualLogger circulation.ContextualLogger
	MetricsCollector circulation.MetricsCollector
	TracingCollector circulation.TracingCollector
}

// LogQuery logs a SQL statement with its execution time at debug level.
func (o *Observer) LogQuery(ctx context.Context, action, query string, duration time.Duration) {
	o.debug(ctx, logMsgSQLExecuted+action, AttrDurationMS, ToMilliseconds(duration), AttrQuery, query)
}

// LogOperation logs operational information at info level.
func (o *Observer) LogOperation(ctx context.Context, action string, args ...any) {
	o.info(ctx, logMsgOperation+action, args...)
}

// LogError logs error information at the error level.
func (o *Observer) LogError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{AttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if o.ContextualLogger != nil {
		o.ContextualLogger.ErrorContext(ctx, message, allArgs...)
	} else if o.Logger != nil {
		o.Logger.Error(message, allArgs...)
	}
}

// LogWarn logs non-critical issues at warn level.
func (o *Observer) LogWarn(ctx context.Context, message string, args ...any) {
	if o.ContextualLogger != nil {
		o.ContextualLogger.WarnContext(ctx, message, args...)
	} else if o.Logger != nil {
		o.Logger.Warn(message, args...)
	}
}

// StartUnitOfWork starts the tracing span of a unit of work if tracing is configured.
func (o *Observer) StartUnitOfWork(ctx context.Context) (context.Context, circulation.SpanContext) {
	if o.TracingCollector == nil {
		return ctx, nil
	}

	return o.TracingCollector.StartSpan(ctx, SpanNameUnitOfWork, map[string]string{AttrEngine: o.Engine})
}

// FinishUnitOfWork records metrics, finishes the span, and logs the outcome of a unit of work.
// Business rule violations are reported as "rejected" rather than as errors.
func (o *Observer) FinishUnitOfWork(ctx context.Context, span circulation.SpanContext, duration time.Duration, err error) {
	status := StatusOf(err)
	labels := map[string]string{AttrEngine: o.Engine, AttrStatus: status}

	o.recordDuration(ctx, MetricUnitOfWorkDuration, duration, labels)
	o.incrementCounter(ctx, MetricUnitOfWorkCalls, labels)

	switch status {
	case StatusConcurrencyConflict:
		o.incrementCounter(ctx, MetricConcurrencyConflicts, map[string]string{AttrEngine: o.Engine})
	case StatusError:
		o.incrementCounter(ctx, MetricDatabaseErrors, map[string]string{AttrEngine: o.Engine, AttrErrorType: ErrorType(err)})
	}

	if o.TracingCollector != nil && span != nil {
		attrs := map[string]string{
			AttrStatus:     status,
			AttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
		}

		if kind, ok := circulation.KindOf(err); ok {
			attrs[AttrErrorKind] = string(kind)
		} else if err != nil {
			attrs[AttrError] = err.Error()
		}

		o.TracingCollector.FinishSpan(span, status, attrs)
	}

	switch status {
	case StatusSuccess:
		o.info(ctx, logMsgUnitOfWorkCommitted, AttrEngine, o.Engine, AttrDurationMS, ToMilliseconds(duration))
	case StatusRejected, StatusConcurrencyConflict:
		o.info(ctx, logMsgUnitOfWorkRejected, AttrEngine, o.Engine, AttrStatus, status, AttrError, err.Error())
	default:
		o.LogError(ctx, logMsgUnitOfWorkFailed, err, AttrEngine, o.Engine, AttrStatus, status)
	}
}

// StatusOf maps the outcome of a unit of work to a metrics status label.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	}

	if _, ok := circulation.KindOf(err); ok {
		return StatusRejected
	}

	return StatusError
}

// ErrorType classifies infrastructure errors for the error_type label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, circulation.ErrBeginningTxFailed):
		return "begin_tx"
	case errors.Is(err, circulation.ErrCommittingTxFailed):
		return "commit_tx"
	case errors.Is(err, circulation.ErrBuildingQueryFailed):
		return "build_query"
	case errors.Is(err, circulation.ErrQueryingFailed):
		return "query"
	case errors.Is(err, circulation.ErrExecutingFailed):
		return "exec"
	case errors.Is(err, circulation.ErrScanningDBRowFailed):
		return "scan"
	}

	return "other"
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (o *Observer) debug(ctx context.Context, msg string, args ...any) {
	if o.ContextualLogger != nil {
		o.ContextualLogger.DebugContext(ctx, msg, args...)
	} else if o.Logger != nil {
		o.Logger.Debug(msg, args...)
	}
}

func (o *Observer) info(ctx context.Context, msg string, args ...any) {
	if o.ContextualLogger != nil {
		o.ContextualLogger.InfoContext(ctx, msg, args...)
	} else if o.Logger != nil {
		o.Logger.Info(msg, args...)
	}
}

func (o *Observer) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if o.MetricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.MetricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
	} else {
		o.MetricsCollector.RecordDuration(metric, duration, labels)
	}
}

func (o *Observer) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if o.MetricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.MetricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		o.MetricsCollector.IncrementCounter(metric, labels)
	}
}
