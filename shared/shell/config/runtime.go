package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

// Engine selectors accepted by CIRCULATION_ENGINE.
const (
	EngineSQLite  = "sqlite"
	EnginePGXPool = "pgx.pool"
	EngineSQLDB   = "sql.db"
	EngineSQLXDB  = "sqlx.db"

	// EnvDSN names the environment variable holding an explicit DSN.
	EnvDSN = "CIRCULATION_DSN"

	defaultSQLitePath = "circulation.db"
)

// Runtime is the process level configuration of the circulation engine.
type Runtime struct {
	Engine         string
	DSN            string
	OwnerID        uuid.UUID
	DailyFineRate  decimal.Decimal
	OTLPEndpoint   string
	ServiceVersion string
}

// RuntimeFromEnv reads the runtime configuration:
//
//	CIRCULATION_ENGINE           sqlite (default), pgx.pool, sql.db, sqlx.db
//	CIRCULATION_DSN              file path for sqlite, postgres URL otherwise
//	CIRCULATION_OWNER_ID         default partition for commands that do not name one
//	CIRCULATION_DAILY_FINE_RATE  overdue fine per started day, e.g. "0.50"
//	OTEL_EXPORTER_OTLP_ENDPOINT  host:port of an OTLP gRPC receiver; telemetry is off when empty
func RuntimeFromEnv() (Runtime, error) {
	rt := Runtime{
		Engine:         strings.ToLower(strings.TrimSpace(os.Getenv("CIRCULATION_ENGINE"))),
		DSN:            os.Getenv(EnvDSN),
		DailyFineRate:  circulation.DefaultDailyFineRate,
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceVersion: "dev",
	}

	if rt.Engine == "" {
		rt.Engine = EngineSQLite
	}

	if !IsSupportedEngine(rt.Engine) {
		return Runtime{}, fmt.Errorf("unsupported CIRCULATION_ENGINE %q", rt.Engine)
	}

	if rt.DSN == "" {
		rt.DSN = DefaultDSN(rt.Engine)
	}

	if raw := os.Getenv("CIRCULATION_OWNER_ID"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			return Runtime{}, fmt.Errorf("CIRCULATION_OWNER_ID: %w", err)
		}

		rt.OwnerID = ownerID
	}

	if raw := os.Getenv("CIRCULATION_DAILY_FINE_RATE"); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return Runtime{}, fmt.Errorf("CIRCULATION_DAILY_FINE_RATE: %w", err)
		}

		if !rate.IsPositive() {
			return Runtime{}, fmt.Errorf("CIRCULATION_DAILY_FINE_RATE must be greater than zero, got %s", raw)
		}

		rt.DailyFineRate = rate
	}

	return rt, nil
}

// IsPostgres reports whether the runtime selects one of the PostgreSQL drivers.
func (rt Runtime) IsPostgres() bool {
	return rt.Engine != EngineSQLite
}

// IsSupportedEngine reports whether engine is one of the accepted engine selectors.
func IsSupportedEngine(engine string) bool {
	switch engine {
	case EngineSQLite, EnginePGXPool, EngineSQLDB, EngineSQLXDB:
		return true
	}

	return false
}

// DefaultDSN is the DSN an engine runs against when none is configured:
// a local file for sqlite, POSTGRES_TEST_DSN or the local test database for postgres.
func DefaultDSN(engine string) string {
	if engine == EngineSQLite {
		return defaultSQLitePath
	}

	return PostgresTestDSN()
}
