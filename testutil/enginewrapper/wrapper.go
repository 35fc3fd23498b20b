package enginewrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/postgresengine"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/sqliteengine"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell/config"
)

// Engine type constants
const (
	typeSQLite  = "sqlite"
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

// Wrapper abstracts over the engine types.
type Wrapper interface {
	GetEngine() circulation.UnitOfWork
	EngineType() string
	Close()
}

type sqliteWrapper struct {
	db     *sql.DB
	engine *sqliteengine.Engine
}

func (w *sqliteWrapper) GetEngine() circulation.UnitOfWork { return w.engine }
func (w *sqliteWrapper) EngineType() string                { return typeSQLite }
func (w *sqliteWrapper) Close()                            { _ = w.db.Close() }

type postgresWrapper struct {
	engineType string
	engine     *postgresengine.Engine
	close      func()
}

func (w *postgresWrapper) GetEngine() circulation.UnitOfWork { return w.engine }
func (w *postgresWrapper) EngineType() string                { return w.engineType }
func (w *postgresWrapper) Close()                            { w.close() }

// CreateWrapperWithTestConfig creates a migrated engine of the type selected by ENGINE_TYPE.
// The wrapper is closed when the test finishes.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	engineType := strings.ToLower(os.Getenv("ENGINE_TYPE"))
	ctx := context.Background()

	var wrapper Wrapper

	switch engineType {
	case typeSQLite, "":
		db, err := sqliteengine.Open(filepath.Join(t.TempDir(), "circulation.db"))
		require.NoError(t, err, "error opening sqlite database in test setup")

		engine, err := sqliteengine.NewEngine(db)
		require.NoError(t, err, "error creating sqlite engine")
		require.NoError(t, engine.Migrate(ctx), "error migrating sqlite schema")

		wrapper = &sqliteWrapper{db: db, engine: engine}

	case typePGXPool:
		poolConfig, err := config.PostgresPGXPoolConfig(config.PostgresTestDSN())
		require.NoError(t, err, "error parsing pgx pool config")

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		require.NoError(t, err, "error connecting to DB pool in test setup")

		engine, err := postgresengine.NewEngineFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating postgres engine")

		wrapper = &postgresWrapper{engineType: engineType, engine: engine, close: pool.Close}

	case typeSQLDB:
		db, err := config.PostgresSQLDB(ctx, config.PostgresTestDSN())
		require.NoError(t, err, "error connecting to DB in test setup")

		engine, err := postgresengine.NewEngineFromSQLDB(db, options...)
		require.NoError(t, err, "error creating postgres engine")

		wrapper = &postgresWrapper{engineType: engineType, engine: engine, close: func() { _ = db.Close() }}

	case typeSQLXDB:
		db, err := config.PostgresSQLX(ctx, config.PostgresTestDSN())
		require.NoError(t, err, "error connecting to DB in test setup")

		engine, err := postgresengine.NewEngineFromSQLX(db, options...)
		require.NoError(t, err, "error creating postgres engine")

		wrapper = &postgresWrapper{engineType: engineType, engine: engine, close: func() { _ = db.Close() }}

	default:
		panic(fmt.Sprintf("unsupported engine type from env: %s", engineType))
	}

	if pw, ok := wrapper.(*postgresWrapper); ok {
		require.NoError(t, pw.engine.Migrate(ctx), "error migrating postgres schema")
	}

	t.Cleanup(wrapper.Close)

	return wrapper
}

// IsPostgres reports whether ENGINE_TYPE selects one of the PostgreSQL drivers.
func IsPostgres() bool {
	switch strings.ToLower(os.Getenv("ENGINE_TYPE")) {
	case typePGXPool, typeSQLDB, typeSQLXDB:
		return true
	}

	return false
}
