package sqliteengine_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/internal/engineobs"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/sqliteengine"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/observability/testdoubles"
)

type observedEngine struct {
	engine  *sqliteengine.Engine
	metrics *testdoubles.MetricsCollectorSpy
	tracing *testdoubles.TracingCollectorSpy
	logs    *testdoubles.LogHandlerSpy
}

func newObservedEngine(t *testing.T) observedEngine {
	t.Helper()

	db, err := sqliteengine.Open(filepath.Join(t.TempDir(), "circulation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	o := observedEngine{
		metrics: testdoubles.NewMetricsCollectorSpy(true),
		tracing: testdoubles.NewTracingCollectorSpy(true),
		logs:    testdoubles.NewLogHandlerSpy(false),
	}

	o.engine, err = sqliteengine.NewEngine(
		db,
		sqliteengine.WithLogger(slog.New(o.logs)),
		sqliteengine.WithMetrics(o.metrics),
		sqliteengine.WithTracing(o.tracing),
	)
	require.NoError(t, err)

	return o
}

func Test_Observability_WithinTx_Success(t *testing.T) {
	// arrange
	o := newObservedEngine(t)

	// act
	err := o.engine.WithinTx(context.Background(), func(context.Context, circulation.Tx) error { return nil })

	// assert
	require.NoError(t, err)
	assert.True(t, o.metrics.HasCounterRecordForMetric(engineobs.MetricUnitOfWorkCalls).
		WithLabel(engineobs.AttrEngine, "sqlite").
		WithStatus(engineobs.StatusSuccess).
		Assert(), "should count the unit of work as successful")
	assert.True(t, o.metrics.HasDurationRecordForMetric(engineobs.MetricUnitOfWorkDuration).
		WithStatus(engineobs.StatusSuccess).
		Assert(), "should record the unit of work duration")
	assert.Equal(t, 0, o.metrics.CountCounterRecordsForMetric(engineobs.MetricDatabaseErrors))
	assert.Equal(t, 0, o.metrics.CountCounterRecordsForMetric(engineobs.MetricConcurrencyConflicts))
	assert.True(t, o.tracing.HasSpanRecordForName(engineobs.SpanNameUnitOfWork).
		WithStartAttribute(engineobs.AttrEngine, "sqlite").
		WithStatus(engineobs.StatusSuccess).
		Assert(), "should finish the unit of work span as successful")
	assert.True(t, o.logs.HasRecord(slog.LevelInfo, "unit of work committed"))
}

func Test_Observability_WithinTx_BusinessRejection(t *testing.T) {
	// arrange
	o := newObservedEngine(t)

	// act
	err := o.engine.WithinTx(context.Background(), func(context.Context, circulation.Tx) error {
		return circulation.Conflict("borrowing limit reached")
	})

	// assert
	require.ErrorIs(t, err, circulation.ErrConflict)
	assert.True(t, o.metrics.HasCounterRecordForMetric(engineobs.MetricUnitOfWorkCalls).
		WithStatus(engineobs.StatusRejected).
		Assert(), "should count the unit of work as rejected")
	assert.Equal(t, 0, o.metrics.CountCounterRecordsForMetric(engineobs.MetricDatabaseErrors),
		"a business rejection is not a database error")
	assert.True(t, o.tracing.HasSpanRecordForName(engineobs.SpanNameUnitOfWork).
		WithStatus(engineobs.StatusRejected).
		WithEndAttribute(engineobs.AttrErrorKind, string(circulation.KindConflict)).
		Assert(), "should finish the span with the error kind")
	assert.True(t, o.logs.HasRecord(slog.LevelInfo, "unit of work rolled back"))
}

func Test_Observability_WithinTx_ConcurrencyConflict(t *testing.T) {
	// arrange
	o := newObservedEngine(t)

	// act
	err := o.engine.WithinTx(context.Background(), func(context.Context, circulation.Tx) error {
		return errors.Join(circulation.ErrConcurrencyConflict, errors.New("database is locked"))
	})

	// assert
	require.ErrorIs(t, err, circulation.ErrConcurrencyConflict)
	assert.Equal(t, 1, o.metrics.CountCounterRecordsForMetric(engineobs.MetricConcurrencyConflicts))
	assert.True(t, o.metrics.HasCounterRecordForMetric(engineobs.MetricUnitOfWorkCalls).
		WithStatus(engineobs.StatusConcurrencyConflict).
		Assert(), "should count the unit of work as a concurrency conflict")
	assert.Equal(t, 0, o.metrics.CountCounterRecordsForMetric(engineobs.MetricDatabaseErrors))
	assert.True(t, o.tracing.HasSpanRecordForName(engineobs.SpanNameUnitOfWork).
		WithStatus(engineobs.StatusConcurrencyConflict).
		Assert(), "should finish the span as a concurrency conflict")
}

func Test_Observability_WithinTx_InfrastructureError(t *testing.T) {
	// arrange
	o := newObservedEngine(t)

	// act
	err := o.engine.WithinTx(context.Background(), func(context.Context, circulation.Tx) error {
		return errors.Join(circulation.ErrQueryingFailed, errors.New("disk I/O error"))
	})

	// assert
	require.ErrorIs(t, err, circulation.ErrQueryingFailed)
	assert.True(t, o.metrics.HasCounterRecordForMetric(engineobs.MetricDatabaseErrors).
		WithLabel(engineobs.AttrEngine, "sqlite").
		WithErrorType("query").
		Assert(), "should count the database error with its type")
	assert.True(t, o.metrics.HasCounterRecordForMetric(engineobs.MetricUnitOfWorkCalls).
		WithStatus(engineobs.StatusError).
		Assert(), "should count the unit of work as failed")
	assert.True(t, o.tracing.HasSpanRecordForName(engineobs.SpanNameUnitOfWork).
		WithStatus(engineobs.StatusError).
		Assert(), "should finish the span as failed")
	assert.True(t, o.logs.HasRecord(slog.LevelError, "unit of work failed"))
}
