package changecopystatus

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonCopyNotFound  = "copy not found"
	failureReasonCopyStatusFmt = "copy is currently %s"
	failureReasonOnlyCheckout  = "copies are only borrowed through checkout"
	failureReasonTransitionFmt = "cannot change copy status from %s to %s"
)

// State is what the handler loads before deciding.
type State struct {
	Copy      circulation.BookCopy
	CopyFound bool
}

// Change is the guarded status transition to apply.
type Change struct {
	From circulation.CopyStatus
	To   circulation.CopyStatus
}

// Decide implements the business logic of an administrative copy status change.
//
// Business Rules:
//
//	GIVEN: A copy that is not BORROWED
//	WHEN: ChangeCopyStatus command is received with AVAILABLE, MAINTENANCE or LOST
//	THEN: The copy moves to the requested status if the copy state machine allows it
//	ERROR: NotFound "copy not found" if the copy does not exist in the partition
//	ERROR: Conflict "copy is currently BORROWED" if the copy is on loan
//	ERROR: Conflict "copies are only borrowed through checkout" if BORROWED is requested
//	ERROR: Conflict "cannot change copy status from X to Y" for a disallowed transition
//	IDEMPOTENCY: If the copy already has the requested status, nothing is written (no-op)
func Decide(s State, command Command) core.DecisionResult[Change] {
	if !s.CopyFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonCopyNotFound))
	}

	current := s.Copy.Status

	switch {
	case current == command.Status:
		return core.IdempotentDecision[Change]()
	case current == circulation.CopyBorrowed:
		return core.ErrorDecision[Change](circulation.Conflictf(failureReasonCopyStatusFmt, current))
	case command.Status == circulation.CopyBorrowed:
		return core.ErrorDecision[Change](circulation.Conflict(failureReasonOnlyCheckout))
	case !current.IsAdministrative(command.Status):
		return core.ErrorDecision[Change](circulation.Conflictf(failureReasonTransitionFmt, current, command.Status))
	}

	return core.SuccessDecision(Change{From: current, To: command.Status})
}
