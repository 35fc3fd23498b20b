package addbookcopy

import (
	"context"
	"errors"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

// Result is the book and its copy as stored.
type Result struct {
	Book circulation.Book
	Copy circulation.BookCopy
}

// CommandHandler orchestrates the Load -> Decide -> Write workflow inside one unit of work, with retry.
type CommandHandler struct {
	uow          circulation.UnitOfWork
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(uow circulation.UnitOfWork, opts ...Option) CommandHandler {
	handler := CommandHandler{
		uow: uow,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle validates the command and runs it as one unit of work, retried on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, shell.HandlerResult, error) {
	if err := command.Validate(); err != nil {
		return Result{}, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var (
		result       Result
		isIdempotent bool
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.uow.WithinTx(retryCtx, func(ctx context.Context, tx circulation.Tx) error {
			var execErr error
			result, isIdempotent, execErr = h.executeCommand(ctx, tx, command)

			return execErr
		})
	}, h.retryOptions...)

	if err != nil {
		return Result{}, shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return result, shell.NewIdempotentResult(retryMetrics), nil
	}

	return result, shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, tx circulation.Tx, command Command) (Result, bool, error) {
	s, err := loadState(ctx, tx, command)
	if err != nil {
		return Result{}, false, err
	}

	decision := Decide(s, command)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return Result{}, false, decisionErr
	}

	if decision.IsIdempotent() {
		return Result{Book: s.Book, Copy: s.Copy}, true, nil
	}

	book := s.Book

	if newBook := decision.Change.NewBook; newBook != nil {
		if err = tx.InsertBook(ctx, *newBook); err != nil {
			return Result{}, false, err
		}

		book = *newBook
	}

	if err = tx.InsertCopy(ctx, decision.Change.Copy); err != nil {
		return Result{}, false, err
	}

	return Result{Book: book, Copy: decision.Change.Copy}, false, nil
}

func loadState(ctx context.Context, tx circulation.Tx, command Command) (State, error) {
	var (
		s   State
		err error
	)

	if s.Book, s.BookFound, err = found(tx.FindBook(ctx, command.OwnerID, command.BookID)); err != nil {
		return s, err
	}

	if s.Copy, s.CopyFound, err = found(tx.FindCopy(ctx, command.OwnerID, command.CopyID)); err != nil {
		return s, err
	}

	if _, s.BarcodeTaken, err = found(tx.FindCopyByBarcode(ctx, command.OwnerID, command.Barcode)); err != nil {
		return s, err
	}

	return s, nil
}

func found[T any](record T, err error) (T, bool, error) {
	switch {
	case errors.Is(err, circulation.ErrRecordNotFound):
		var zero T
		return zero, false, nil
	case err != nil:
		var zero T
		return zero, false, err
	}

	return record, true, nil
}
