package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/oteladapters"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell/config"
)

const (
	instrumentationName = "github.com/Rayyy-dev/ShelfWise-sub000/cmd/circulation"

	exitFailure  = 1
	exitInvalid  = 2
	exitNotFound = 3
	exitConflict = 4
)

var (
	errMissingOwner      = errors.New("an owner id is required: pass --owner or set CIRCULATION_OWNER_ID")
	errUnknownLogLevel   = errors.New("unknown log level")
	errUnknownLogFormat  = errors.New("unknown log format")
	errPasswordForSQLite = errors.New("--prompt-password only applies to PostgreSQL engines")
	errDSNNotURL         = errors.New("--prompt-password needs a URL style DSN")
)

// globalFlags are the persistent flags shared by every subcommand. Empty values keep the environment config.
type globalFlags struct {
	engine         string
	dsn            string
	owner          string
	dailyFineRate  string
	otlpEndpoint   string
	logLevel       string
	logFormat      string
	promptPassword bool
}

// app carries the process wide dependencies built once before a subcommand runs.
type app struct {
	out          io.Writer
	errOut       io.Writer
	now          func() time.Time
	readPassword func() (string, error)

	flags   globalFlags
	runtime config.Runtime

	logger           *slog.Logger
	contextualLogger circulation.ContextualLogger
	metrics          circulation.MetricsCollector
	tracing          circulation.TracingCollector

	engine   engine
	shutdown []func() error
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:          out,
		errOut:       errOut,
		now:          time.Now,
		readPassword: readPasswordFromTerminal(errOut, term.ReadPassword),
		flags: globalFlags{
			logLevel:  "info",
			logFormat: "text",
		},
	}
}

// setup resolves the runtime configuration and opens the engine.
func (a *app) setup(ctx context.Context) error {
	rt, err := a.resolveRuntime()
	if err != nil {
		return err
	}

	handler, err := newLogHandler(a.errOut, a.flags.logLevel, a.flags.logFormat)
	if err != nil {
		return err
	}

	a.logger = slog.New(handler)
	a.contextualLogger = oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	if rt.OTLPEndpoint != "" {
		providers, providerErr := config.NewObservabilityProviders(ctx, rt.OTLPEndpoint, rt.ServiceVersion)
		if providerErr != nil {
			return fmt.Errorf("observability providers: %w", providerErr)
		}

		a.shutdown = append(a.shutdown, providers.Shutdown)
		a.metrics = oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(instrumentationName))
		a.tracing = oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(instrumentationName))
	}

	if a.flags.promptPassword {
		if !rt.IsPostgres() {
			return errPasswordForSQLite
		}

		password, readErr := a.readPassword()
		if readErr != nil {
			return fmt.Errorf("read password: %w", readErr)
		}

		if rt.DSN, err = dsnWithPassword(rt.DSN, password); err != nil {
			return err
		}
	}

	a.runtime = rt

	opened, closeEngine, err := openEngine(ctx, rt, a.observers())
	if err != nil {
		return err
	}

	a.engine = opened
	a.shutdown = append(a.shutdown, closeEngine)

	return nil
}

// teardown releases the engine and flushes telemetry, in reverse order of setup.
func (a *app) teardown() error {
	var errs []error
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		errs = append(errs, a.shutdown[i]())
	}

	a.shutdown = nil

	return errors.Join(errs...)
}

func (a *app) resolveRuntime() (config.Runtime, error) {
	rt, err := config.RuntimeFromEnv()
	if err != nil {
		return config.Runtime{}, err
	}

	if a.flags.engine != "" {
		engine := strings.ToLower(a.flags.engine)
		if engine != rt.Engine && a.flags.dsn == "" && os.Getenv(config.EnvDSN) == "" {
			rt.DSN = config.DefaultDSN(engine)
		}

		rt.Engine = engine
	}

	if a.flags.dsn != "" {
		rt.DSN = a.flags.dsn
	}

	if a.flags.owner != "" {
		if rt.OwnerID, err = uuid.Parse(a.flags.owner); err != nil {
			return config.Runtime{}, circulation.Invalidf("owner must be a UUID: %v", err)
		}
	}

	if a.flags.dailyFineRate != "" {
		if rt.DailyFineRate, err = decimal.NewFromString(a.flags.dailyFineRate); err != nil {
			return config.Runtime{}, circulation.Invalidf("daily fine rate must be a decimal: %v", err)
		}

		if !rt.DailyFineRate.IsPositive() {
			return config.Runtime{}, circulation.Invalidf("daily fine rate must be greater than zero, got %s", a.flags.dailyFineRate)
		}
	}

	if a.flags.otlpEndpoint != "" {
		rt.OTLPEndpoint = a.flags.otlpEndpoint
	}

	if !config.IsSupportedEngine(rt.Engine) {
		return config.Runtime{}, fmt.Errorf("unsupported engine %q", rt.Engine)
	}

	return rt, nil
}

// ownerID returns the configured partition. Only accrual may run without one.
func (a *app) ownerID() (uuid.UUID, error) {
	if a.runtime.OwnerID == uuid.Nil {
		return uuid.Nil, errMissingOwner
	}

	return a.runtime.OwnerID, nil
}

func (a *app) observers() observers {
	return observers{
		logger:           a.logger,
		contextualLogger: a.contextualLogger,
		metrics:          a.metrics,
		tracing:          a.tracing,
	}
}

func (a *app) printError(err error) {
	if kind, ok := circulation.KindOf(err); ok {
		_, _ = fmt.Fprintf(a.errOut, "%s: %v\n", kind, err)
		return
	}

	_, _ = fmt.Fprintf(a.errOut, "error: %v\n", err)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, circulation.ErrInvalid), errors.Is(err, errMissingOwner):
		return exitInvalid
	case errors.Is(err, circulation.ErrNotFound):
		return exitNotFound
	case errors.Is(err, circulation.ErrConflict):
		return exitConflict
	default:
		return exitFailure
	}
}

func newLogHandler(w io.Writer, level, format string) (slog.Handler, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w %q", errUnknownLogLevel, level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownLogFormat, format)
	}
}

// readPasswordFromTerminal prompts on prompt and reads one line from stdin without echo.
// The password is used verbatim; read already drops the line terminator.
func readPasswordFromTerminal(prompt io.Writer, read func(fd int) ([]byte, error)) func() (string, error) {
	return func() (string, error) {
		_, _ = fmt.Fprint(prompt, "Database password: ")

		password, err := read(int(os.Stdin.Fd()))
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}

		return string(password), nil
	}
}

// dsnWithPassword sets the password of a postgres:// URL, keeping its user name.
func dsnWithPassword(dsn, password string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "", errDSNNotURL
	}

	u.User = url.UserPassword(u.User.Username(), password)

	return u.String(), nil
}
