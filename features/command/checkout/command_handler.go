package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

// MemberSummary is the borrower as shown next to a new borrowing.
type MemberSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// CopySummary is the lent copy as shown next to a new borrowing.
type CopySummary struct {
	ID      uuid.UUID
	BookID  uuid.UUID
	Barcode string
	Title   string
}

// Result is the created borrowing with denormalized member and copy details.
type Result struct {
	Borrowing circulation.Borrowing
	Member    MemberSummary
	Copy      CopySummary
}

// CommandHandler orchestrates the Load -> Decide -> Write workflow inside one unit of work, with retry.
// External wrappers handle all observability concerns.
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

// Handle validates the command and runs it as one unit of work.
// The unit of work is retried with exponential backoff when it hits a concurrency conflict,
// e.g. a concurrent checkout flipped the copy between our read and our guarded write.
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
	// Load phase
	s, err := loadState(ctx, tx, command)
	if err != nil {
		return Result{}, err
	}

	// Business logic phase - delegate to pure core function
	decision := Decide(s, command)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return Result{}, decisionErr
	}

	// Write phase
	change := decision.Change
	borrowing := change.Borrowing

	err = tx.SetCopyStatus(ctx, command.OwnerID, s.Copy.ID, change.CopyFrom, change.CopyTo, command.At)
	if err != nil {
		return Result{}, err
	}

	if err = tx.InsertBorrowing(ctx, borrowing); err != nil {
		return Result{}, err
	}

	book, err := tx.FindBook(ctx, command.OwnerID, s.Copy.BookID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Borrowing: borrowing,
		Member: MemberSummary{
			ID:    s.Member.ID,
			Name:  s.Member.Name,
			Email: s.Member.Email,
		},
		Copy: CopySummary{
			ID:      s.Copy.ID,
			BookID:  s.Copy.BookID,
			Barcode: s.Copy.Barcode,
			Title:   book.Title,
		},
	}, nil
}

// loadState reads the member before the copy, so concurrent units of work lock rows in the same order.
func loadState(ctx context.Context, tx circulation.Tx, command Command) (State, error) {
	var s State

	member, err := tx.FindMember(ctx, command.OwnerID, command.MemberID)
	switch {
	case errors.Is(err, circulation.ErrRecordNotFound):
		return s, nil
	case err != nil:
		return s, err
	}

	s.Member, s.MemberFound = member, true

	if s.ActiveBorrowings, err = tx.CountActiveBorrowings(ctx, command.OwnerID, command.MemberID); err != nil {
		return s, err
	}

	bookCopy, err := tx.FindCopyByBarcode(ctx, command.OwnerID, command.Barcode)
	switch {
	case errors.Is(err, circulation.ErrRecordNotFound):
		return s, nil
	case err != nil:
		return s, err
	}

	s.Copy, s.CopyFound = bookCopy, true

	return s, nil
}
