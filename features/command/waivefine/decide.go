package waivefine

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

// Change is the fine as it is after the waiver.
type Change struct {
	Fine circulation.Fine
}

// Decide implements the business logic of waiving a fine.
//
// Business Rules:
//
//	GIVEN: A fine with FineID
//	WHEN: WaiveFine command is received
//	THEN: The fine becomes WAIVED; PaidAt stays empty
//	ERROR: NotFound "fine not found" if the fine does not exist in the partition
//	ERROR: Conflict "already paid" / "already waived" if the fine is no longer PENDING
func Decide(s State, command Command) core.DecisionResult[Change] {
	if !s.FineFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonFineNotFound))
	}

	if !s.Fine.Status.CanTransitionTo(circulation.FineWaived) {
		return core.ErrorDecision[Change](circulation.Conflictf(failureReasonSettledFmt, s.Fine.Status.Lower()))
	}

	waived := s.Fine
	waived.Status = circulation.FineWaived
	waived.UpdatedAt = command.At

	return core.SuccessDecision(Change{Fine: waived})
}
