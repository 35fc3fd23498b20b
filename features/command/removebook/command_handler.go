package removebook

import (
	"context"
	"errors"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

// Result reports how many copies were removed along with the book.
type Result struct {
	RemovedCopies int
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

	var result Result

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.uow.WithinTx(retryCtx, func(ctx context.Context, tx circulation.Tx) error {
			s, loadErr := loadState(ctx, tx, command)
			if loadErr != nil {
				return loadErr
			}

			decision := Decide(s)
			if decisionErr := decision.HasError(); decisionErr != nil {
				return decisionErr
			}

			if deleteErr := tx.DeleteBook(ctx, command.OwnerID, command.BookID); deleteErr != nil {
				return deleteErr
			}

			result = Result(decision.Change)

			return nil
		})
	}, h.retryOptions...)

	if err != nil {
		return Result{}, shell.NewErrorResult(retryMetrics), err
	}

	return result, shell.NewSuccessResult(retryMetrics), nil
}

func loadState(ctx context.Context, tx circulation.Tx, command Command) (State, error) {
	var (
		s   State
		err error
	)

	// FindBook holds the book row lock until the unit of work ends
	if _, err = tx.FindBook(ctx, command.OwnerID, command.BookID); err != nil {
		if errors.Is(err, circulation.ErrRecordNotFound) {
			return s, nil
		}

		return s, err
	}

	s.BookFound = true

	if s.ActiveBorrowings, err = tx.CountActiveBorrowingsForBook(ctx, command.OwnerID, command.BookID); err != nil {
		return s, err
	}

	if s.Copies, err = tx.CountCopiesOfBook(ctx, command.OwnerID, command.BookID); err != nil {
		return s, err
	}

	return s, nil
}
