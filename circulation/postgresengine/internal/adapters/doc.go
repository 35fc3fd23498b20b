// Package adapters provides transaction-capable database adapters for the PostgreSQL circulation engine.
//
// The engine can run on top of pgx.Pool, sql.DB (lib/pq), or sqlx.DB. Each adapter opens
// transactions and exposes them through the common DBTx interface, so the engine's SQL
// works unchanged with any of the supported connection types.
package adapters
