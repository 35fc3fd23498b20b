package assessfine

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonBorrowingNotFound = "borrowing not found"
)

// State is what the handler loads, under lock, before deciding.
type State struct {
	Borrowing      circulation.Borrowing
	BorrowingFound bool
}

// Change is the fine to create.
type Change struct {
	Fine circulation.Fine
}

// Decide implements the business logic of assessing a fine.
//
// Business Rules:
//
//	GIVEN: A borrowing with BorrowingID, in any status
//	WHEN: AssessFine command is received
//	THEN: A PENDING fine with the given reason and amount is created
//	ERROR: NotFound "borrowing not found" if the borrowing does not exist in the partition
func Decide(s State, command Command) core.DecisionResult[Change] {
	if !s.BorrowingFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonBorrowingNotFound))
	}

	return core.SuccessDecision(Change{Fine: circulation.Fine{
		ID:          command.FineID,
		OwnerID:     command.OwnerID,
		BorrowingID: s.Borrowing.ID,
		Amount:      command.Amount,
		Reason:      command.Reason,
		Status:      circulation.FinePending,
		CreatedAt:   command.At,
		UpdatedAt:   command.At,
	}})
}
