package registermember

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonMemberExists = "member already exists"
)

// State is what the handler loads before deciding.
type State struct {
	Member      circulation.Member
	MemberFound bool
}

// Change is the member to insert.
type Change struct {
	Member circulation.Member
}

// Decide implements the business logic of registering a member.
//
// Business Rules:
//
//	GIVEN: No member with MemberID in the partition
//	WHEN: RegisterMember command is received
//	THEN: An ACTIVE member is created
//	ERROR: Conflict "member already exists" if MemberID is taken with different details
//	IDEMPOTENCY: If the same member is already registered, nothing is written (no-op)
func Decide(s State, command Command) core.DecisionResult[Change] {
	if s.MemberFound {
		if s.Member.Name == command.Name && s.Member.Email == command.Email && s.Member.MaxBooks == command.MaxBooks {
			return core.IdempotentDecision[Change]()
		}

		return core.ErrorDecision[Change](circulation.Conflict(failureReasonMemberExists))
	}

	return core.SuccessDecision(Change{Member: circulation.Member{
		ID:        command.MemberID,
		OwnerID:   command.OwnerID,
		Name:      command.Name,
		Email:     command.Email,
		Status:    circulation.MemberActive,
		MaxBooks:  command.MaxBooks,
		CreatedAt: command.At,
	}})
}
