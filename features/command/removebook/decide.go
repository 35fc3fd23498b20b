package removebook

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonBookNotFound = "book not found"
	failureReasonCopiesOnLoan = "book has copies on loan"
)

// State is what the handler loads before deciding.
type State struct {
	BookFound        bool
	Copies           int
	ActiveBorrowings int
}

// Change carries how many copies the delete takes with it.
type Change struct {
	RemovedCopies int
}

// Decide implements the business logic of removing a book.
//
// Business Rules:
//
//	GIVEN: A book in the partition with no copy on loan
//	WHEN: RemoveBook command is received
//	THEN: The book and all its copies are deleted
//	ERROR: NotFound "book not found" if the book does not exist in the partition
//	ERROR: Conflict "book has copies on loan" if any copy has an ACTIVE borrowing
func Decide(s State) core.DecisionResult[Change] {
	if !s.BookFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonBookNotFound))
	}

	if s.ActiveBorrowings > 0 {
		return core.ErrorDecision[Change](circulation.Conflict(failureReasonCopiesOnLoan))
	}

	return core.SuccessDecision(Change{RemovedCopies: s.Copies})
}
