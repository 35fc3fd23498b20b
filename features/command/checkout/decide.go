package checkout

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonMemberNotFound  = "member not found"
	failureReasonLimitReached    = "borrowing limit reached"
	failureReasonCopyNotFound    = "copy not found"
	failureReasonMemberStatusFmt = "member account is %s"
	failureReasonCopyStatusFmt   = "copy is currently %s"
)

// State is what the handler loads, under lock, before deciding.
type State struct {
	Member           circulation.Member
	MemberFound      bool
	ActiveBorrowings int
	Copy             circulation.BookCopy
	CopyFound        bool
}

// Change is the borrowing to create and the copy transition that goes with it.
type Change struct {
	Borrowing circulation.Borrowing
	CopyFrom  circulation.CopyStatus
	CopyTo    circulation.CopyStatus
}

// Decide implements the business logic to determine whether a copy can be lent to a member.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A member with MemberID and a copy with Barcode
//	WHEN: Checkout command is received
//	THEN: An ACTIVE borrowing is created and the copy becomes BORROWED
//	ERROR: NotFound "member not found" if the member does not exist in the partition
//	ERROR: Conflict "member account is <status>" if the member is not ACTIVE
//	ERROR: Conflict "borrowing limit reached" if the member already holds MaxBooks active borrowings
//	ERROR: NotFound "copy not found" if no copy has the barcode
//	ERROR: Conflict "copy is currently <STATUS>" if the copy state machine does not allow lending it
//
// The checks run in exactly this order.
func Decide(s State, command Command) core.DecisionResult[Change] {
	if !s.MemberFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonMemberNotFound))
	}

	if s.Member.Status != circulation.MemberActive {
		return core.ErrorDecision[Change](circulation.Conflictf(failureReasonMemberStatusFmt, s.Member.Status.Lower()))
	}

	if s.ActiveBorrowings >= s.Member.MaxBooks {
		return core.ErrorDecision[Change](circulation.Conflict(failureReasonLimitReached))
	}

	if !s.CopyFound {
		return core.ErrorDecision[Change](circulation.NotFound(failureReasonCopyNotFound))
	}

	if !s.Copy.Status.CanTransitionTo(circulation.CopyBorrowed) {
		return core.ErrorDecision[Change](circulation.Conflictf(failureReasonCopyStatusFmt, s.Copy.Status))
	}

	return core.SuccessDecision(Change{
		Borrowing: circulation.Borrowing{
			ID:         command.BorrowingID,
			OwnerID:    command.OwnerID,
			MemberID:   s.Member.ID,
			CopyID:     s.Copy.ID,
			BorrowDate: command.At,
			DueDate:    command.EffectiveDueDate(),
			Status:     circulation.BorrowingActive,
			CreatedAt:  command.At,
			UpdatedAt:  command.At,
		},
		CopyFrom: s.Copy.Status,
		CopyTo:   circulation.CopyBorrowed,
	})
}
