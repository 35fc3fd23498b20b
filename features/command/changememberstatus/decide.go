package changememberstatus

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonMemberNotFound = "member not found"
)

// State is what the handler loads before deciding.
type State struct {
	Member      circulation.Member
	MemberFound bool
}

// Change is the new standing.
type Change struct {
	Status circulation.MemberStatus
}

// Decide implements the business logic of changing a member's standing.
// Existing loans are not touched; a non-ACTIVE member only loses the right to check out.
//
// Business Rules:
//
//	GIVEN: A member in the partition
//	WHEN: ChangeMemberStatus command is received
//	THEN: The member takes the requested status
//	ERROR: NotFound "member not found" if the member does not exist in the partition
//	IDEMPOTENCY: If the member already has the requested status, nothing is written (no-op)
func Decide(s State, command Command) core.DecisionResult[Change] {
	if !s.MemberFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonMemberNotFound))
	}

	if s.Member.Status == command.Status {
		return core.IdempotentDecision[Change]()
	}

	return core.SuccessDecision(Change{Status: command.Status})
}
