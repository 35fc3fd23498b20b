package updateborrowing

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonBorrowingNotFound = "borrowing not found"
	failureReasonDueDateTooEarly   = "due date must be after the borrow date"
	failureReasonLimitReached      = "borrowing limit reached"
	failureReasonCopyStatusFmt     = "copy is currently %s"
	failureReasonTransitionFmt     = "cannot change borrowing status from %s to %s"
)

// State is what the handler loads, under lock, before deciding.
// Member and ActiveBorrowings are only loaded when the command reactivates a returned borrowing.
type State struct {
	Borrowing        circulation.Borrowing
	BorrowingFound   bool
	Copy             circulation.BookCopy
	Member           circulation.Member
	ActiveBorrowings int
}

// CopyStatusChange is a guarded copy status update.
type CopyStatusChange struct {
	From circulation.CopyStatus
	To   circulation.CopyStatus
}

// Change is the corrected borrowing and, for status toggles, the matching copy move.
type Change struct {
	Borrowing  circulation.Borrowing
	CopyStatus *CopyStatusChange
}

// Decide implements the business logic of administrative borrowing corrections.
//
// Business Rules:
//
//	GIVEN: A borrowing with BorrowingID
//	WHEN: UpdateBorrowing command is received
//	THEN: The due date and/or status are changed; ACTIVE -> RETURNED frees the copy,
//	      RETURNED -> ACTIVE takes the copy again and clears the return date
//	ERROR: NotFound "borrowing not found" if the borrowing does not exist in the partition
//	ERROR: Conflict "due date must be after the borrow date" for a due date at or before the borrow date
//	ERROR: Conflict "copy is currently <STATUS>" if the copy is not in the status the toggle starts from
//	ERROR: Conflict "borrowing limit reached" if reactivating would exceed the member's limit
//	IDEMPOTENCY: If neither the due date nor the status would change, nothing is written (no-op)
func Decide(s State, command Command) core.DecisionResult[Change] {
	if !s.BorrowingFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonBorrowingNotFound))
	}

	updated := s.Borrowing
	changed := false

	if command.DueDate != nil && !command.DueDate.Equal(updated.DueDate) {
		if !command.DueDate.After(updated.BorrowDate) {
			return core.ErrorDecision[Change](circulation.Conflict(failureReasonDueDateTooEarly))
		}

		updated.DueDate = *command.DueDate
		changed = true
	}

	var copyStatus *CopyStatusChange

	if command.Status != nil && *command.Status != updated.Status {
		if !updated.Status.CanTransitionTo(*command.Status) {
			return core.ErrorDecision[Change](circulation.Conflictf(failureReasonTransitionFmt, updated.Status, *command.Status))
		}

		switch *command.Status {
		case circulation.BorrowingReturned:
			if s.Copy.Status != circulation.CopyBorrowed || !s.Copy.Status.CanTransitionTo(circulation.CopyAvailable) {
				return core.ErrorDecision[Change](circulation.Conflictf(failureReasonCopyStatusFmt, s.Copy.Status))
			}

			returnDate := command.At
			updated.ReturnDate = &returnDate
			copyStatus = &CopyStatusChange{From: circulation.CopyBorrowed, To: circulation.CopyAvailable}

		case circulation.BorrowingActive:
			if !s.Copy.Status.CanTransitionTo(circulation.CopyBorrowed) {
				return core.ErrorDecision[Change](circulation.Conflictf(failureReasonCopyStatusFmt, s.Copy.Status))
			}

			if s.ActiveBorrowings >= s.Member.MaxBooks {
				return core.ErrorDecision[Change](circulation.Conflict(failureReasonLimitReached))
			}

			updated.ReturnDate = nil
			copyStatus = &CopyStatusChange{From: circulation.CopyAvailable, To: circulation.CopyBorrowed}
		}

		updated.Status = *command.Status
		changed = true
	}

	if !changed {
		return core.IdempotentDecision[Change]()
	}

	updated.UpdatedAt = command.At

	return core.SuccessDecision(Change{Borrowing: updated, CopyStatus: copyStatus})
}
