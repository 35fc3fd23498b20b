// Package enginewrapper creates a migrated circulation engine for tests.
//
// The engine is selected with the ENGINE_TYPE environment variable:
//   - "sqlite" or empty: a fresh SQLite database in t.TempDir()
//   - "pgx.pool", "sql.db", "sqlx.db": the PostgreSQL database at POSTGRES_TEST_DSN, through the named driver
//
// PostgreSQL tests share one database. They stay independent because every test works in its own
// owner partition (see fixtures.NewOwner).
package enginewrapper
