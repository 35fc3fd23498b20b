// Package postgresengine provides a PostgreSQL implementation of the circulation unit of work.
//
// The engine works with three connection types through internal adapters:
//   - pgx.Pool (NewEngineFromPGXPool)
//   - sql.DB with the lib/pq driver (NewEngineFromSQLDB)
//   - sqlx.DB (NewEngineFromSQLX)
//
// Every unit of work is one READ COMMITTED transaction. Rows that a decision depends on are read with
// SELECT ... FOR UPDATE, and every status change is a guarded UPDATE (... WHERE status = <expected>),
// so two concurrent checkouts of the same copy serialize on the copy row and the loser observes BORROWED.
// Partial unique indexes back the single-active-borrowing-per-copy and single-pending-overdue-fine rules.
//
// Serialization failures, deadlocks, and guarded updates that match no row are reported as
// circulation.ErrConcurrencyConflict, which command handlers retry.
//
// Observability is optional and configured with WithLogger, WithContextualLogger, WithMetrics, and WithTracing.
package postgresengine
