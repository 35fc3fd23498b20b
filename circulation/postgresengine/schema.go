package postgresengine

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

// SchemaVersion is the version Migrate brings the database to.
const SchemaVersion = 1

// migrationLockKey serializes concurrent Migrate calls through a transaction-scoped advisory lock.
const migrationLockKey = 724_101

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id             UUID PRIMARY KEY,
		owner_id       UUID NOT NULL,
		title          TEXT NOT NULL,
		author         TEXT NOT NULL,
		category       TEXT NOT NULL DEFAULT '',
		isbn           TEXT,
		published_year INTEGER,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS book_copies (
		id             UUID PRIMARY KEY,
		owner_id       UUID NOT NULL,
		book_id        UUID NOT NULL REFERENCES books (id) ON DELETE CASCADE,
		barcode        TEXT NOT NULL,
		condition      TEXT NOT NULL DEFAULT '',
		shelf_location TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL CHECK (status IN ('AVAILABLE', 'BORROWED', 'MAINTENANCE', 'LOST')),
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		CONSTRAINT book_copies_barcode_unique UNIQUE (owner_id, barcode)
	)`,
	`CREATE INDEX IF NOT EXISTS book_copies_book_idx ON book_copies (book_id)`,
	`CREATE TABLE IF NOT EXISTS members (
		id         UUID PRIMARY KEY,
		owner_id   UUID NOT NULL,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL CHECK (status IN ('ACTIVE', 'SUSPENDED', 'EXPIRED')),
		max_books  INTEGER NOT NULL CHECK (max_books >= 0),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS borrowings (
		id          UUID PRIMARY KEY,
		owner_id    UUID NOT NULL,
		member_id   UUID NOT NULL REFERENCES members (id) ON DELETE CASCADE,
		copy_id     UUID NOT NULL REFERENCES book_copies (id) ON DELETE CASCADE,
		borrow_date TIMESTAMPTZ NOT NULL,
		due_date    TIMESTAMPTZ NOT NULL,
		return_date TIMESTAMPTZ,
		status      TEXT NOT NULL CHECK (status IN ('ACTIVE', 'RETURNED')),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		CONSTRAINT borrowings_return_date_matches_status CHECK ((status = 'RETURNED') = (return_date IS NOT NULL))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS borrowings_one_active_per_copy ON borrowings (copy_id) WHERE status = 'ACTIVE'`,
	`CREATE INDEX IF NOT EXISTS borrowings_member_status_idx ON borrowings (owner_id, member_id, status)`,
	`CREATE INDEX IF NOT EXISTS borrowings_overdue_idx ON borrowings (status, due_date)`,
	`CREATE TABLE IF NOT EXISTS fines (
		id           UUID PRIMARY KEY,
		owner_id     UUID NOT NULL,
		borrowing_id UUID NOT NULL REFERENCES borrowings (id) ON DELETE CASCADE,
		amount       NUMERIC(12, 2) NOT NULL CHECK (amount >= 0),
		reason       TEXT NOT NULL CHECK (reason IN ('OVERDUE', 'DAMAGE', 'LOST')),
		status       TEXT NOT NULL CHECK (status IN ('PENDING', 'PAID', 'WAIVED')),
		paid_at      TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS fines_one_pending_overdue ON fines (borrowing_id) WHERE status = 'PENDING' AND reason = 'OVERDUE'`,
	`CREATE INDEX IF NOT EXISTS fines_borrowing_idx ON fines (borrowing_id)`,
}

// Migrate creates or upgrades the schema inside one transaction. It is safe to call concurrently
// and on every start, a database already at SchemaVersion is left untouched.
func (e *Engine) Migrate(ctx context.Context) error {
	start := time.Now()

	dbTx, err := e.db.BeginTx(ctx)
	if err != nil {
		e.obs.LogError(ctx, logMsgBeginTxFailed, err)
		return errors.Join(circulation.ErrMigrationFailed, err)
	}

	statements := make([]string, 0, len(schemaStatements)+2)
	statements = append(statements, "SELECT pg_advisory_xact_lock("+strconv.Itoa(migrationLockKey)+")")
	statements = append(statements, schemaStatements...)
	statements = append(statements,
		"INSERT INTO schema_meta (key, value) VALUES ('schema_version', '"+strconv.Itoa(SchemaVersion)+"') "+
			"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value")

	for _, statement := range statements {
		if _, execErr := dbTx.Exec(ctx, statement); execErr != nil {
			e.obs.LogError(ctx, logMsgDBExecFailed, execErr, logAttrAction, "migrate")
			e.rollback(ctx, dbTx)

			return errors.Join(circulation.ErrMigrationFailed, execErr)
		}
	}

	if commitErr := dbTx.Commit(ctx); commitErr != nil {
		e.obs.LogError(ctx, logMsgCommitTxFailed, commitErr)
		return errors.Join(circulation.ErrMigrationFailed, commitErr)
	}

	e.obs.LogOperation(ctx, logMsgSchemaMigrated, logAttrSchemaVersion, SchemaVersion, "duration_ms", time.Since(start).Milliseconds())

	return nil
}
