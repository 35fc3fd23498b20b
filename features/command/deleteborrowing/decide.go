package deleteborrowing

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonBorrowingNotFound = "borrowing not found"
	failureReasonCopyStatusFmt     = "copy is currently %s"
)

// State is what the handler loads, under lock, before deciding.
type State struct {
	Borrowing      circulation.Borrowing
	BorrowingFound bool
	Copy           circulation.BookCopy
}

// Change tells the handler whether the copy has to be put back to AVAILABLE.
type Change struct {
	RestoreCopy bool
}

// Decide implements the business logic of purging a borrowing.
//
// Business Rules:
//
//	GIVEN: A borrowing with BorrowingID
//	WHEN: DeleteBorrowing command is received
//	THEN: The borrowing and its fines are deleted; an ACTIVE borrowing's copy becomes AVAILABLE
//	ERROR: NotFound "borrowing not found" if the borrowing does not exist in the partition
//	ERROR: Conflict "copy is currently <STATUS>" if an ACTIVE borrowing's copy is not BORROWED
func Decide(s State) core.DecisionResult[Change] {
	if !s.BorrowingFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonBorrowingNotFound))
	}

	if s.Borrowing.Status != circulation.BorrowingActive {
		return core.SuccessDecision(Change{RestoreCopy: false})
	}

	if s.Copy.Status != circulation.CopyBorrowed || !s.Copy.Status.CanTransitionTo(circulation.CopyAvailable) {
		return core.ErrorDecision[Change](circulation.Conflictf(failureReasonCopyStatusFmt, s.Copy.Status))
	}

	return core.SuccessDecision(Change{RestoreCopy: true})
}
