package circulation

import (
	"slices"
	"strings"
)

// CopyStatus is the circulation state of one physical BookCopy.
type CopyStatus string

const (
	CopyAvailable   CopyStatus = "AVAILABLE"
	CopyBorrowed    CopyStatus = "BORROWED"
	CopyMaintenance CopyStatus = "MAINTENANCE"
	CopyLost        CopyStatus = "LOST"
)

var copyTransitions = map[CopyStatus][]CopyStatus{
	CopyAvailable:   {CopyBorrowed, CopyMaintenance, CopyLost},
	CopyBorrowed:    {CopyAvailable},
	CopyMaintenance: {CopyAvailable, CopyLost},
	CopyLost:        {CopyAvailable},
}

// IsValid reports whether s is one of the known copy states.
func (s CopyStatus) IsValid() bool {
	_, ok := copyTransitions[s]
	return ok
}

// CanTransitionTo reports whether the copy state machine allows moving from s to next.
func (s CopyStatus) CanTransitionTo(next CopyStatus) bool {
	return slices.Contains(copyTransitions[s], next)
}

// IsAdministrative reports whether moving from s to next may be requested by catalog staff.
// Transitions into or out of BORROWED are owned by checkout and return.
func (s CopyStatus) IsAdministrative(next CopyStatus) bool {
	if s == CopyBorrowed || next == CopyBorrowed {
		return false
	}

	return s.CanTransitionTo(next)
}

// MemberStatus is the standing of a patron.
type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberSuspended MemberStatus = "SUSPENDED"
	MemberExpired   MemberStatus = "EXPIRED"
)

// IsValid reports whether s is one of the known member states.
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberActive, MemberSuspended, MemberExpired:
		return true
	}

	return false
}

// Lower renders the status for human-readable reasons, e.g. "member account is suspended".
func (s MemberStatus) Lower() string {
	return strings.ToLower(string(s))
}

// BorrowingStatus is the lifecycle state of a Borrowing.
type BorrowingStatus string

const (
	BorrowingActive   BorrowingStatus = "ACTIVE"
	BorrowingReturned BorrowingStatus = "RETURNED"
)

var borrowingTransitions = map[BorrowingStatus][]BorrowingStatus{
	BorrowingActive:   {BorrowingReturned},
	BorrowingReturned: {BorrowingActive},
}

// IsValid reports whether s is one of the known borrowing states.
func (s BorrowingStatus) IsValid() bool {
	_, ok := borrowingTransitions[s]
	return ok
}

// CanTransitionTo reports whether a borrowing may move from s to next.
// RETURNED -> ACTIVE exists for administrative corrections only.
func (s BorrowingStatus) CanTransitionTo(next BorrowingStatus) bool {
	return slices.Contains(borrowingTransitions[s], next)
}

// FineStatus is the disposition state of a Fine. PAID and WAIVED are terminal.
type FineStatus string

const (
	FinePending FineStatus = "PENDING"
	FinePaid    FineStatus = "PAID"
	FineWaived  FineStatus = "WAIVED"
)

var fineTransitions = map[FineStatus][]FineStatus{
	FinePending: {FinePaid, FineWaived},
	FinePaid:    nil,
	FineWaived:  nil,
}

// IsValid reports whether s is one of the known fine states.
func (s FineStatus) IsValid() bool {
	_, ok := fineTransitions[s]
	return ok
}

// CanTransitionTo reports whether a fine may move from s to next.
func (s FineStatus) CanTransitionTo(next FineStatus) bool {
	return slices.Contains(fineTransitions[s], next)
}

// IsTerminal reports whether no transition leaves s.
func (s FineStatus) IsTerminal() bool {
	return s.IsValid() && len(fineTransitions[s]) == 0
}

// Lower renders the status for human-readable reasons, e.g. "already paid".
func (s FineStatus) Lower() string {
	return strings.ToLower(string(s))
}

// FineReason is why a Fine was levied.
type FineReason string

const (
	FineOverdue FineReason = "OVERDUE"
	FineDamage  FineReason = "DAMAGE"
	FineLost    FineReason = "LOST"
)

// IsValid reports whether r is one of the known fine reasons.
func (r FineReason) IsValid() bool {
	switch r {
	case FineOverdue, FineDamage, FineLost:
		return true
	}

	return false
}
