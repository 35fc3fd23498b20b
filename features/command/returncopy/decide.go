package returncopy

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonBorrowingNotFound = "borrowing not found"
	failureReasonAlreadyReturned   = "already returned"
	failureReasonCopyStatusFmt     = "copy is currently %s"
)

// State is what the handler loads, under lock, before deciding.
type State struct {
	Borrowing      circulation.Borrowing
	BorrowingFound bool
	Copy           circulation.BookCopy
}

// Change is the closed borrowing plus the lateness facts measured at the return instant.
type Change struct {
	Borrowing   circulation.Borrowing
	WasOverdue  bool
	DaysOverdue int
	CopyFrom    circulation.CopyStatus
	CopyTo      circulation.CopyStatus
}

// Decide implements the business logic of returning a copy.
//
// Business Rules:
//
//	GIVEN: An ACTIVE borrowing whose copy is BORROWED
//	WHEN: ReturnCopy command is received
//	THEN: The borrowing becomes RETURNED with ReturnDate = At and the copy becomes AVAILABLE
//	ERROR: NotFound "borrowing not found" if the borrowing does not exist in the partition
//	ERROR: Conflict "already returned" if the borrowing is RETURNED
//	ERROR: Conflict "copy is currently <STATUS>" if the copy is not BORROWED
//
// Lateness uses ceiling days: one second past the due date counts as one day overdue,
// returning exactly at the due date is on time.
func Decide(s State, command Command) core.DecisionResult[Change] {
	if !s.BorrowingFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonBorrowingNotFound))
	}

	if !s.Borrowing.Status.CanTransitionTo(circulation.BorrowingReturned) {
		return core.ErrorDecision[Change](circulation.Conflict(failureReasonAlreadyReturned))
	}

	if s.Copy.Status != circulation.CopyBorrowed || !s.Copy.Status.CanTransitionTo(circulation.CopyAvailable) {
		return core.ErrorDecision[Change](circulation.Conflictf(failureReasonCopyStatusFmt, s.Copy.Status))
	}

	returned := s.Borrowing
	returnDate := command.At
	returned.ReturnDate = &returnDate
	returned.Status = circulation.BorrowingReturned
	returned.UpdatedAt = command.At

	return core.SuccessDecision(Change{
		Borrowing:   returned,
		WasOverdue:  s.Borrowing.IsOverdueAt(command.At),
		DaysOverdue: circulation.DaysOverdue(s.Borrowing.DueDate, command.At),
		CopyFrom:    s.Copy.Status,
		CopyTo:      circulation.CopyAvailable,
	})
}
