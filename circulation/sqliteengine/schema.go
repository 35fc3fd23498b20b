package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

// SchemaVersion is the version Migrate brings the database to.
const SchemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id             TEXT PRIMARY KEY,
		owner_id       TEXT NOT NULL,
		title          TEXT NOT NULL,
		author         TEXT NOT NULL,
		category       TEXT NOT NULL DEFAULT '',
		isbn           TEXT,
		published_year INTEGER,
		created_at     INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS book_copies (
		id             TEXT PRIMARY KEY,
		owner_id       TEXT NOT NULL,
		book_id        TEXT NOT NULL REFERENCES books (id) ON DELETE CASCADE,
		barcode        TEXT NOT NULL,
		condition      TEXT NOT NULL DEFAULT '',
		shelf_location TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL CHECK (status IN ('AVAILABLE', 'BORROWED', 'MAINTENANCE', 'LOST')),
		created_at     INTEGER NOT NULL,
		updated_at     INTEGER NOT NULL,
		UNIQUE (owner_id, barcode)
	)`,
	`CREATE INDEX IF NOT EXISTS book_copies_book_idx ON book_copies (book_id)`,
	`CREATE TABLE IF NOT EXISTS members (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL CHECK (status IN ('ACTIVE', 'SUSPENDED', 'EXPIRED')),
		max_books  INTEGER NOT NULL CHECK (max_books >= 0),
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS borrowings (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		member_id   TEXT NOT NULL REFERENCES members (id) ON DELETE CASCADE,
		copy_id     TEXT NOT NULL REFERENCES book_copies (id) ON DELETE CASCADE,
		borrow_date INTEGER NOT NULL,
		due_date    INTEGER NOT NULL,
		return_date INTEGER,
		status      TEXT NOT NULL CHECK (status IN ('ACTIVE', 'RETURNED')),
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL,
		CHECK ((status = 'RETURNED') = (return_date IS NOT NULL))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS borrowings_one_active_per_copy ON borrowings (copy_id) WHERE status = 'ACTIVE'`,
	`CREATE INDEX IF NOT EXISTS borrowings_member_status_idx ON borrowings (owner_id, member_id, status)`,
	`CREATE INDEX IF NOT EXISTS borrowings_overdue_idx ON borrowings (status, due_date)`,
	`CREATE TABLE IF NOT EXISTS fines (
		id           TEXT PRIMARY KEY,
		owner_id     TEXT NOT NULL,
		borrowing_id TEXT NOT NULL REFERENCES borrowings (id) ON DELETE CASCADE,
		amount       TEXT NOT NULL,
		reason       TEXT NOT NULL CHECK (reason IN ('OVERDUE', 'DAMAGE', 'LOST')),
		status       TEXT NOT NULL CHECK (status IN ('PENDING', 'PAID', 'WAIVED')),
		paid_at      INTEGER,
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS fines_one_pending_overdue ON fines (borrowing_id) WHERE status = 'PENDING' AND reason = 'OVERDUE'`,
	`CREATE INDEX IF NOT EXISTS fines_borrowing_idx ON fines (borrowing_id)`,
}

// Migrate creates the schema inside one transaction and records the version in the meta table.
// A database already at SchemaVersion is left untouched.
func (e *Engine) Migrate(ctx context.Context) error {
	start := time.Now()

	if _, err := e.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		e.obs.LogError(ctx, logMsgDBExecFailed, err, logAttrAction, "migrate")
		return errors.Join(circulation.ErrMigrationFailed, err)
	}

	current, err := e.schemaVersion(ctx)
	if err != nil {
		return errors.Join(circulation.ErrMigrationFailed, err)
	}

	if current >= SchemaVersion {
		e.obs.LogOperation(ctx, logMsgSchemaUpToDate, logAttrSchemaVersion, current)
		return nil
	}

	sqlTx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		e.obs.LogError(ctx, logMsgBeginTxFailed, err)
		return errors.Join(circulation.ErrMigrationFailed, err)
	}

	statements := make([]string, 0, len(schemaStatements)+1)
	statements = append(statements, schemaStatements...)
	statements = append(statements,
		"INSERT INTO meta (key, value) VALUES ('schema_version', '"+strconv.Itoa(SchemaVersion)+"') "+
			"ON CONFLICT (key) DO UPDATE SET value = excluded.value")

	for _, statement := range statements {
		if _, execErr := sqlTx.ExecContext(ctx, statement); execErr != nil {
			e.obs.LogError(ctx, logMsgDBExecFailed, execErr, logAttrAction, "migrate")
			e.rollback(ctx, sqlTx)

			return errors.Join(circulation.ErrMigrationFailed, execErr)
		}
	}

	if commitErr := sqlTx.Commit(); commitErr != nil {
		e.obs.LogError(ctx, logMsgCommitTxFailed, commitErr)
		return errors.Join(circulation.ErrMigrationFailed, commitErr)
	}

	e.obs.LogOperation(ctx, logMsgSchemaMigrated, logAttrSchemaVersion, SchemaVersion, "duration_ms", time.Since(start).Milliseconds())

	return nil
}

func (e *Engine) schemaVersion(ctx context.Context) (int, error) {
	var value string

	err := e.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return strconv.Atoi(value)
}
