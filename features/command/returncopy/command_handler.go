package returncopy

import (
	"context"
	"errors"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

// Result is the returned borrowing with its lateness at the return instant.
type Result struct {
	Borrowing   circulation.Borrowing
	WasOverdue  bool
	DaysOverdue int
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
	s, err := loadState(ctx, tx, command)
	if err != nil {
		return Result{}, err
	}

	decision := Decide(s, command)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return Result{}, decisionErr
	}

	change := decision.Change

	if err = tx.UpdateBorrowing(ctx, change.Borrowing); err != nil {
		return Result{}, err
	}

	err = tx.SetCopyStatus(ctx, command.OwnerID, s.Copy.ID, change.CopyFrom, change.CopyTo, command.At)
	if err != nil {
		return Result{}, err
	}

	if command.Condition != nil {
		if err = tx.SetCopyCondition(ctx, command.OwnerID, s.Copy.ID, *command.Condition, command.At); err != nil {
			return Result{}, err
		}
	}

	return Result{
		Borrowing:   change.Borrowing,
		WasOverdue:  change.WasOverdue,
		DaysOverdue: change.DaysOverdue,
	}, nil
}

func loadState(ctx context.Context, tx circulation.Tx, command Command) (State, error) {
	var s State

	borrowing, err := tx.FindBorrowing(ctx, command.OwnerID, command.BorrowingID)
	if err != nil {
		return s, ignoreRecordNotFound(err)
	}

	s.Borrowing, s.BorrowingFound = borrowing, true

	if s.Copy, err = tx.FindCopy(ctx, command.OwnerID, borrowing.CopyID); err != nil {
		return s, err
	}

	return s, nil
}

func ignoreRecordNotFound(err error) error {
	if errors.Is(err, circulation.ErrRecordNotFound) {
		return nil
	}

	return err
}
