package payfine

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonFineNotFound = "fine not found"
	failureReasonSettledFmt   = "already %s"
)

// State is what the handler loads, under lock, before deciding.
type State struct {
	Fine      circulation.Fine
	FineFound bool
}

// Change is the fine as it is after the payment.
type Change struct {
	Fine circulation.Fine
}

// Decide implements the business logic of paying a fine.
//
// Business Rules:
//
//	GIVEN: A fine with FineID
//	WHEN: PayFine command is received
//	THEN: The fine becomes PAID with PaidAt = At
//	ERROR: NotFound "fine not found" if the fine does not exist in the partition
//	ERROR: Conflict "already paid" / "already waived" if the fine is no longer PENDING
func Decide(s State, command Command) core.DecisionResult[Change] {
	if !s.FineFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonFineNotFound))
	}

	if !s.Fine.Status.CanTransitionTo(circulation.FinePaid) {
		return core.ErrorDecision[Change](circulation.Conflictf(failureReasonSettledFmt, s.Fine.Status.Lower()))
	}

	paid := s.Fine
	paidAt := command.At
	paid.Status = circulation.FinePaid
	paid.PaidAt = &paidAt
	paid.UpdatedAt = command.At

	return core.SuccessDecision(Change{Fine: paid})
}
