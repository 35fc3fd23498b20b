package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell/observable"
)

const (
	outcomeApplied    = "applied"
	outcomeIdempotent = "idempotent"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// commandOutput is what every state changing subcommand prints.
type commandOutput struct {
	Outcome  string `json:"outcome"`
	Attempts int    `json:"attempts"`
	Result   any    `json:"result"`
}

// runE sets the app up, runs fn and tears everything down again, also when fn fails.
func (a *app) runE(fn func(ctx context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) (err error) {
		if err = a.setup(cmd.Context()); err != nil {
			return errors.Join(err, a.teardown())
		}

		defer func() {
			err = errors.Join(err, a.teardown())
		}()

		return fn(cmd.Context())
	}
}

// execute runs command through the observable wrapper around handler and prints the result.
func execute[C shell.Command, R any](ctx context.Context, a *app, handler shell.CoreCommandHandler[C, R], command C) error {
	wrapper, err := observable.NewCommandWrapper[C, R](handler, commandOptions[C, R](a)...)
	if err != nil {
		return err
	}

	result, handlerResult, err := wrapper.Handle(ctx, command)
	if err != nil {
		return err
	}

	outcome := outcomeApplied
	if handlerResult.Idempotent {
		outcome = outcomeIdempotent
	}

	return a.print(commandOutput{Outcome: outcome, Attempts: handlerResult.RetryAttempts, Result: result})
}

// query runs q through the observable query wrapper and prints the read model as is.
func query[Q shell.Query, R any](ctx context.Context, a *app, handler shell.CoreQueryHandler[Q, R], q Q) error {
	wrapper, err := observable.NewQueryWrapper[Q, R](handler, queryOptions[Q, R](a)...)
	if err != nil {
		return err
	}

	result, err := wrapper.Handle(ctx, q)
	if err != nil {
		return err
	}

	return a.print(result)
}

func commandOptions[C shell.Command, R any](a *app) []observable.CommandOption[C, R] {
	opts := []observable.CommandOption[C, R]{
		observable.WithCommandContextualLogging[C, R](a.contextualLogger),
	}

	if a.metrics != nil {
		opts = append(opts, observable.WithCommandMetrics[C, R](a.metrics))
	}

	if a.tracing != nil {
		opts = append(opts, observable.WithCommandTracing[C, R](a.tracing))
	}

	return opts
}

func queryOptions[Q shell.Query, R any](a *app) []observable.QueryOption[Q, R] {
	opts := []observable.QueryOption[Q, R]{
		observable.WithQueryContextualLogging[Q, R](a.contextualLogger),
	}

	if a.metrics != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](a.metrics))
	}

	if a.tracing != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](a.tracing))
	}

	return opts
}

func (a *app) print(v any) error {
	data, err := jsonAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = fmt.Fprintln(a.out, string(data))

	return err
}

func parseID(flag, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, circulation.Invalidf("%s must be a UUID", flag)
	}

	return id, nil
}

// parseOptionalID returns a fresh time ordered id when value is empty.
func parseOptionalID(flag, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.NewV7()
	}

	return parseID(flag, value)
}

// parseInstant parses an RFC 3339 timestamp. An empty value means now.
func (a *app) parseInstant(flag, value string) (time.Time, error) {
	if value == "" {
		return a.now(), nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, circulation.Invalidf("%s must be an RFC 3339 timestamp", flag)
	}

	return t, nil
}

func parseOptionalInstant(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, circulation.Invalidf("%s must be an RFC 3339 timestamp", flag)
	}

	return &t, nil
}

func parseAmount(flag, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, circulation.Invalidf("%s must be a decimal amount", flag)
	}

	return amount, nil
}
