// Package sqliteengine implements circulation.UnitOfWork on SQLite via github.com/mattn/go-sqlite3.
//
// Every unit of work runs in a BEGIN IMMEDIATE transaction, so writers are serialized by the
// database's reserved lock and a Find followed by a write always observes the latest committed state.
// Connections must be opened with the DSN returned by DSN, which enables foreign keys, the
// immediate transaction lock, and a busy timeout. A writer that cannot get the lock within the
// busy timeout fails with circulation.ErrConcurrencyConflict and is retried by the command handlers.
//
// Timestamps are stored as INTEGER microseconds since the Unix epoch in UTC,
// identifiers as TEXT, and money amounts as TEXT with two decimal places.
package sqliteengine
