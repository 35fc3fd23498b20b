package changecopystatus

import (
	"context"
	"errors"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

// Result is the copy after the change.
type Result struct {
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
			var s State

			bookCopy, findErr := tx.FindCopy(ctx, command.OwnerID, command.CopyID)
			switch {
			case errors.Is(findErr, circulation.ErrRecordNotFound):
			case findErr != nil:
				return findErr
			default:
				s.Copy, s.CopyFound = bookCopy, true
			}

			decision := Decide(s, command)
			if decisionErr := decision.HasError(); decisionErr != nil {
				return decisionErr
			}

			if decision.IsIdempotent() {
				result, isIdempotent = Result{Copy: s.Copy}, true
				return nil
			}

			change := decision.Change
			if setErr := tx.SetCopyStatus(ctx, command.OwnerID, command.CopyID, change.From, change.To, command.At); setErr != nil {
				return setErr
			}

			updated := s.Copy
			updated.Status = change.To
			updated.UpdatedAt = command.At
			result, isIdempotent = Result{Copy: updated}, false

			return nil
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
