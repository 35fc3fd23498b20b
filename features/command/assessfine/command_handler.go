package assessfine

import (
	"context"
	"errors"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

// Result is the created fine.
type Result struct {
	Fine circulation.Fine
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
			var s State

			borrowing, findErr := tx.FindBorrowing(ctx, command.OwnerID, command.BorrowingID)
			switch {
			case errors.Is(findErr, circulation.ErrRecordNotFound):
			case findErr != nil:
				return findErr
			default:
				s.Borrowing, s.BorrowingFound = borrowing, true
			}

			decision := Decide(s, command)
			if decisionErr := decision.HasError(); decisionErr != nil {
				return decisionErr
			}

			if insertErr := tx.InsertFine(ctx, decision.Change.Fine); insertErr != nil {
				return insertErr
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
