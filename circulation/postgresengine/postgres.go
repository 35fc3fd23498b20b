package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/internal/engineobs"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/postgresengine/internal/adapters"
)

const (
	engineName               = "postgres"
	logMsgBuildQueryFailed   = "failed to build query"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgBeginTxFailed      = "failed to begin transaction"
	logMsgCommitTxFailed     = "failed to commit transaction"
	logMsgRollbackTxFailed   = "failed to roll back transaction"
	logMsgSchemaMigrated     = "schema migrated"
	logAttrError             = "error"
	logAttrAction            = "action"
	logAttrRowsAffected      = "rows_affected"
	logAttrSchemaVersion     = "schema_version"
	dialectPostgres          = "postgres"
)

// Engine is the PostgreSQL implementation of circulation.UnitOfWork.
type Engine struct {
	db  adapters.DBAdapter
	obs engineobs.Observer
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, circulation.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(db), options...)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, circulation.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, circulation.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options...)
}

func newEngine(db adapters.DBAdapter, options ...Option) (*Engine, error) {
	e := &Engine{db: db, obs: engineobs.Observer{Engine: engineName}}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// WithinTx runs fn inside one transaction and commits if fn returns nil.
// Any error from fn, or a panic, rolls the transaction back.
func (e *Engine) WithinTx(ctx context.Context, fn circulation.TxFunc) (err error) {
	start := time.Now()
	ctx, span := e.obs.StartUnitOfWork(ctx)

	dbTx, beginErr := e.db.BeginTx(ctx)
	if beginErr != nil {
		e.obs.LogError(ctx, logMsgBeginTxFailed, beginErr)
		err = errors.Join(circulation.ErrBeginningTxFailed, classifyError(beginErr))
		e.obs.FinishUnitOfWork(ctx, span, time.Since(start), err)

		return err
	}

	defer func() {
		if p := recover(); p != nil {
			e.rollback(ctx, dbTx)
			panic(p)
		}
	}()

	if fnErr := fn(ctx, &pgTx{engine: e, db: dbTx}); fnErr != nil {
		e.rollback(ctx, dbTx)
		e.obs.FinishUnitOfWork(ctx, span, time.Since(start), fnErr)

		return fnErr
	}

	if commitErr := dbTx.Commit(ctx); commitErr != nil {
		e.obs.LogError(ctx, logMsgCommitTxFailed, commitErr)
		err = errors.Join(circulation.ErrCommittingTxFailed, classifyError(commitErr))
		e.obs.FinishUnitOfWork(ctx, span, time.Since(start), err)

		return err
	}

	e.obs.FinishUnitOfWork(ctx, span, time.Since(start), nil)

	return nil
}

func (e *Engine) rollback(ctx context.Context, dbTx adapters.DBTx) {
	// the caller's context may already be canceled, the rollback must still reach the server
	if rollbackErr := dbTx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
		e.obs.LogWarn(ctx, logMsgRollbackTxFailed, logAttrError, rollbackErr.Error())
	}
}
