package deleteborrowing

import (
	"context"
	"errors"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

// Result reports whether the purge released a copy.
type Result struct {
	CopyRestored bool
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
	if err := shell.ValidateCommand(command); err != nil {
		return Result{}, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var result Result

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.uow.WithinTx(retryCtx, func(ctx context.Context, tx circulation.Tx) error {
			var execErr error
			result, execErr = h.executeCommand(ctx, tx, command)

			return execErr
		})
	}, h.retryOptions...)

	if err != nil {
		return Result{}, shell.NewErrorResult(retryMetrics), err
	}

	return result, shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, tx circulation.Tx, command Command) (Result, error) {
	var s State

	borrowing, err := tx.FindBorrowing(ctx, command.OwnerID, command.BorrowingID)
	switch {
	case errors.Is(err, circulation.ErrRecordNotFound):
	case err != nil:
		return Result{}, err
	default:
		s.Borrowing, s.BorrowingFound = borrowing, true

		if s.Copy, err = tx.FindCopy(ctx, command.OwnerID, borrowing.CopyID); err != nil {
			return Result{}, err
		}
	}

	decision := Decide(s)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return Result{}, decisionErr
	}

	if err = tx.DeleteBorrowing(ctx, command.OwnerID, command.BorrowingID); err != nil {
		return Result{}, err
	}

	if decision.Change.RestoreCopy {
		err = tx.SetCopyStatus(ctx, command.OwnerID, s.Copy.ID, circulation.CopyBorrowed, circulation.CopyAvailable, command.At)
		if err != nil {
			return Result{}, err
		}
	}

	return Result{CopyRestored: decision.Change.RestoreCopy}, nil
}
