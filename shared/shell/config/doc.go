// Package config provides connection and telemetry factories for the circulation engine.
//
// It contains factory functions for the three PostgreSQL drivers the postgres engine accepts
// (pgx.Pool, sql.DB, sqlx.DB), for the embedded SQLite database, and for the OpenTelemetry
// providers that feed the oteladapters. Runtime reads the engine selection from the environment.
//
// This package is part of the shell (infrastructure) layer.
package config
