package accrueoverduefines

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeUnchanged
	outcomeCreated
	outcomeUpdated
)

// Result counts what one sweep did. Scanned = Created + Updated + Unchanged + Skipped.
type Result struct {
	Scanned   int
	Created   int
	Updated   int
	Unchanged int
	Skipped   int
}

// CommandHandler runs the accrual sweep: one listing unit of work, then one unit of work per borrowing,
// each retried on concurrency conflicts.
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

// Handle runs one sweep. The returned HandlerResult carries the retry metrics of all units of work.
// The sweep stops at the first infrastructure error; borrowings accrued before it stay accrued
// and the partial counts are returned with the error.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, shell.HandlerResult, error) {
	if err := command.Validate(); err != nil {
		return Result{}, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var candidates []circulation.BorrowingRef

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.uow.WithinTx(retryCtx, func(ctx context.Context, tx circulation.Tx) error {
			var listErr error
			candidates, listErr = tx.ListOverdueBorrowings(ctx, command.OwnerID, command.AsOf)

			return listErr
		})
	}, h.retryOptions...)

	if err != nil {
		return Result{}, shell.NewErrorResult(retryMetrics), err
	}

	result := Result{Scanned: len(candidates)}

	for _, candidate := range candidates {
		o, stepMetrics, stepErr := h.accrueOne(ctx, candidate, command)
		retryMetrics = retryMetrics.Merge(stepMetrics)

		if stepErr != nil {
			return result, shell.NewErrorResult(retryMetrics), stepErr
		}

		switch o {
		case outcomeCreated:
			result.Created++
		case outcomeUpdated:
			result.Updated++
		case outcomeUnchanged:
			result.Unchanged++
		case outcomeSkipped:
			result.Skipped++
		}
	}

	if result.Created == 0 && result.Updated == 0 {
		return result, shell.NewIdempotentResult(retryMetrics), nil
	}

	return result, shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) accrueOne(
	ctx context.Context,
	candidate circulation.BorrowingRef,
	command Command,
) (outcome, shell.RetryMetrics, error) {
	var o outcome

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.uow.WithinTx(retryCtx, func(ctx context.Context, tx circulation.Tx) error {
			var execErr error
			o, execErr = h.executeCommand(ctx, tx, candidate, command)

			return execErr
		})
	}, h.retryOptions...)

	return o, retryMetrics, err
}

func (h CommandHandler) executeCommand(
	ctx context.Context,
	tx circulation.Tx,
	candidate circulation.BorrowingRef,
	command Command,
) (outcome, error) {
	s, err := loadState(ctx, tx, candidate)
	if err != nil {
		return outcomeSkipped, err
	}

	if !IsEligible(s, command.AsOf) {
		return outcomeSkipped, nil
	}

	decision := Decide(s, command)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return outcomeSkipped, decisionErr
	}

	if decision.IsIdempotent() {
		return outcomeUnchanged, nil
	}

	if updated := decision.Change.UpdatedFine; updated != nil {
		err = tx.UpdateFineAmount(ctx, updated.OwnerID, updated.ID, updated.Amount, command.AsOf)
		if err != nil {
			return outcomeSkipped, err
		}

		return outcomeUpdated, nil
	}

	fine := *decision.Change.NewFine
	fine.ID = uuid.Must(uuid.NewV7())

	if err = tx.InsertFine(ctx, fine); err != nil {
		return outcomeSkipped, err
	}

	return outcomeCreated, nil
}

func loadState(ctx context.Context, tx circulation.Tx, candidate circulation.BorrowingRef) (State, error) {
	var s State

	borrowing, err := tx.FindBorrowing(ctx, candidate.OwnerID, candidate.ID)
	switch {
	case errors.Is(err, circulation.ErrRecordNotFound):
		return s, nil
	case err != nil:
		return s, err
	}

	s.Borrowing, s.BorrowingFound = borrowing, true

	if s.Fines, err = tx.ListFinesForBorrowing(ctx, candidate.OwnerID, candidate.ID); err != nil {
		return s, err
	}

	return s, nil
}
