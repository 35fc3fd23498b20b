package updateborrowing

import (
	"context"
	"errors"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

// Result is the borrowing as it is after the command.
type Result struct {
	Borrowing circulation.Borrowing
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
		return Result{Borrowing: s.Borrowing}, true, nil
	}

	change := decision.Change

	if err = tx.UpdateBorrowing(ctx, change.Borrowing); err != nil {
		return Result{}, false, err
	}

	if change.CopyStatus != nil {
		err = tx.SetCopyStatus(ctx, command.OwnerID, s.Copy.ID, change.CopyStatus.From, change.CopyStatus.To, command.At)
		if err != nil {
			return Result{}, false, err
		}
	}

	return Result{Borrowing: change.Borrowing}, false, nil
}

// loadState locks the borrowing, then the member (only when reactivating), then the copy.
func loadState(ctx context.Context, tx circulation.Tx, command Command) (State, error) {
	var s State

	borrowing, err := tx.FindBorrowing(ctx, command.OwnerID, command.BorrowingID)
	switch {
	case errors.Is(err, circulation.ErrRecordNotFound):
		return s, nil
	case err != nil:
		return s, err
	}

	s.Borrowing, s.BorrowingFound = borrowing, true

	if command.reactivates(borrowing.Status) {
		if s.Member, err = tx.FindMember(ctx, command.OwnerID, borrowing.MemberID); err != nil {
			return s, err
		}

		if s.ActiveBorrowings, err = tx.CountActiveBorrowings(ctx, command.OwnerID, borrowing.MemberID); err != nil {
			return s, err
		}
	}

	if s.Copy, err = tx.FindCopy(ctx, command.OwnerID, borrowing.CopyID); err != nil {
		return s, err
	}

	return s, nil
}
