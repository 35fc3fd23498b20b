package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // database/sql driver "sqlite3"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/internal/engineobs"
)

const (
	engineName               = "sqlite"
	driverName               = "sqlite3"
	dialectSQLite            = "sqlite3"
	defaultBusyTimeoutMillis = 5000
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
	logMsgSchemaUpToDate     = "schema already up to date"
	logAttrError             = "error"
	logAttrAction            = "action"
	logAttrRowsAffected      = "rows_affected"
	logAttrSchemaVersion     = "schema_version"
)

// DSN returns the connection string for the database file at path.
// The engine relies on the foreign key enforcement and the immediate transaction lock it enables.
func DSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_busy_timeout=%d&_foreign_keys=1&_txlock=immediate&_journal_mode=WAL",
		path,
		defaultBusyTimeoutMillis,
	)
}

// Open opens the SQLite database at path with the engine's DSN.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	return db, nil
}

// Engine is the SQLite implementation of circulation.UnitOfWork.
type Engine struct {
	db  *sql.DB
	obs engineobs.Observer
}

// NewEngine creates a new Engine on a sql.DB that was opened with DSN.
func NewEngine(db *sql.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, circulation.ErrNilDatabaseConnection
	}

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

	sqlTx, beginErr := e.db.BeginTx(ctx, nil)
	if beginErr != nil {
		e.obs.LogError(ctx, logMsgBeginTxFailed, beginErr)
		err = errors.Join(circulation.ErrBeginningTxFailed, classifyError(beginErr))
		e.obs.FinishUnitOfWork(ctx, span, time.Since(start), err)

		return err
	}

	defer func() {
		if p := recover(); p != nil {
			e.rollback(ctx, sqlTx)
			panic(p)
		}
	}()

	if fnErr := fn(ctx, &liteTx{engine: e, tx: sqlTx}); fnErr != nil {
		e.rollback(ctx, sqlTx)
		e.obs.FinishUnitOfWork(ctx, span, time.Since(start), fnErr)

		return fnErr
	}

	if commitErr := sqlTx.Commit(); commitErr != nil {
		e.obs.LogError(ctx, logMsgCommitTxFailed, commitErr)
		err = errors.Join(circulation.ErrCommittingTxFailed, classifyError(commitErr))
		e.obs.FinishUnitOfWork(ctx, span, time.Since(start), err)

		return err
	}

	e.obs.FinishUnitOfWork(ctx, span, time.Since(start), nil)

	return nil
}

func (e *Engine) rollback(ctx context.Context, sqlTx *sql.Tx) {
	if rollbackErr := sqlTx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
		e.obs.LogWarn(ctx, logMsgRollbackTxFailed, logAttrError, rollbackErr.Error())
	}
}
