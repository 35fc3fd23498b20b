package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/postgresengine"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/sqliteengine"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell/config"
)

// engine is what the CLI needs from either storage backend.
type engine interface {
	circulation.UnitOfWork
	Migrate(ctx context.Context) error
}

type observers struct {
	logger           *slog.Logger
	contextualLogger circulation.ContextualLogger
	metrics          circulation.MetricsCollector
	tracing          circulation.TracingCollector
}

// openEngine connects to the configured database. The returned func closes the connection pool.
func openEngine(ctx context.Context, rt config.Runtime, obs observers) (engine, func() error, error) {
	switch rt.Engine {
	case config.EngineSQLite:
		db, err := sqliteengine.Open(rt.DSN)
		if err != nil {
			return nil, nil, err
		}

		e, err := sqliteengine.NewEngine(db, sqliteOptions(obs)...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return e, db.Close, nil

	case config.EnginePGXPool:
		poolConfig, err := config.PostgresPGXPoolConfig(rt.DSN)
		if err != nil {
			return nil, nil, err
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, err
		}

		e, err := postgresengine.NewEngineFromPGXPool(pool, postgresOptions(obs)...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return e, func() error { pool.Close(); return nil }, nil

	case config.EngineSQLDB:
		db, err := config.PostgresSQLDB(ctx, rt.DSN)
		if err != nil {
			return nil, nil, err
		}

		e, err := postgresengine.NewEngineFromSQLDB(db, postgresOptions(obs)...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return e, db.Close, nil

	case config.EngineSQLXDB:
		db, err := config.PostgresSQLX(ctx, rt.DSN)
		if err != nil {
			return nil, nil, err
		}

		e, err := postgresengine.NewEngineFromSQLX(db, postgresOptions(obs)...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return e, db.Close, nil
	}

	return nil, nil, fmt.Errorf("unsupported engine %q", rt.Engine)
}

func sqliteOptions(obs observers) []sqliteengine.Option {
	opts := []sqliteengine.Option{
		sqliteengine.WithLogger(obs.logger),
		sqliteengine.WithContextualLogger(obs.contextualLogger),
	}

	if obs.metrics != nil {
		opts = append(opts, sqliteengine.WithMetrics(obs.metrics))
	}

	if obs.tracing != nil {
		opts = append(opts, sqliteengine.WithTracing(obs.tracing))
	}

	return opts
}

func postgresOptions(obs observers) []postgresengine.Option {
	opts := []postgresengine.Option{
		postgresengine.WithLogger(obs.logger),
		postgresengine.WithContextualLogger(obs.contextualLogger),
	}

	if obs.metrics != nil {
		opts = append(opts, postgresengine.WithMetrics(obs.metrics))
	}

	if obs.tracing != nil {
		opts = append(opts, postgresengine.WithTracing(obs.tracing))
	}

	return opts
}
