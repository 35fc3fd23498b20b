package accrueoverduefines

import (
	"time"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

// State is one borrowing with its fines, loaded under lock.
type State struct {
	Borrowing      circulation.Borrowing
	BorrowingFound bool
	Fines          []circulation.Fine
}

// Change is either a new PENDING OVERDUE fine or a new amount for the existing one.
// NewFine has no ID yet; the handler assigns it.
type Change struct {
	NewFine     *circulation.Fine
	UpdatedFine *circulation.Fine
}

// IsEligible reports whether the borrowing takes part in the sweep at asOf.
// Borrowings that are gone, returned, not overdue, or whose overdue fine was already settled are skipped.
func IsEligible(s State, asOf time.Time) bool {
	if !s.BorrowingFound || !s.Borrowing.IsOverdueAt(asOf) {
		return false
	}

	_, hasPending := pendingOverdueFine(s.Fines)

	return hasPending || !hasSettledOverdueFine(s.Fines)
}

// Decide implements the accrual of one eligible borrowing.
//
// Business Rules:
//
//	GIVEN: An ACTIVE borrowing that is overdue at AsOf
//	WHEN: AccrueOverdueFines command is received
//	THEN: amount = ceil(days overdue) x DailyRate; a PENDING OVERDUE fine is created with it,
//	      or the existing PENDING OVERDUE fine is updated to it
//	IDEMPOTENCY: If the existing PENDING OVERDUE fine already has that amount, nothing is written (no-op)
//
// Callers filter with IsEligible first.
func Decide(s State, command Command) core.DecisionResult[Change] {
	amount := circulation.OverdueFineAmount(
		circulation.DaysOverdue(s.Borrowing.DueDate, command.AsOf),
		command.DailyRate,
	)

	if pending, ok := pendingOverdueFine(s.Fines); ok {
		if pending.Amount.Equal(amount) {
			return core.IdempotentDecision[Change]()
		}

		updated := pending
		updated.Amount = amount
		updated.UpdatedAt = command.AsOf

		return core.SuccessDecision(Change{UpdatedFine: &updated})
	}

	return core.SuccessDecision(Change{NewFine: &circulation.Fine{
		OwnerID:     s.Borrowing.OwnerID,
		BorrowingID: s.Borrowing.ID,
		Amount:      amount,
		Reason:      circulation.FineOverdue,
		Status:      circulation.FinePending,
		CreatedAt:   command.AsOf,
		UpdatedAt:   command.AsOf,
	}})
}

func pendingOverdueFine(fines []circulation.Fine) (circulation.Fine, bool) {
	for _, fine := range fines {
		if fine.Reason == circulation.FineOverdue && fine.Status == circulation.FinePending {
			return fine, true
		}
	}

	return circulation.Fine{}, false
}

func hasSettledOverdueFine(fines []circulation.Fine) bool {
	for _, fine := range fines {
		if fine.Reason == circulation.FineOverdue && fine.Status.IsTerminal() {
			return true
		}
	}

	return false
}
