package circulation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is catalog metadata. It owns a set of BookCopy records.
type Book struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Title         string
	Author        string
	Category      string
	ISBN          *string
	PublishedYear *int
	CreatedAt     time.Time
}

// BookCopy is one physical instance of a Book, identified externally by its barcode.
type BookCopy struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	BookID        uuid.UUID
	Barcode       string
	Condition     string
	ShelfLocation string
	Status        CopyStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Member is a patron with a borrowing cap.
type Member struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Email     string
	Status    MemberStatus
	MaxBooks  int
	CreatedAt time.Time
}

// Borrowing is a loan of one BookCopy to one Member.
// ReturnDate is set if and only if Status is RETURNED.
type Borrowing struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	MemberID   uuid.UUID
	CopyID     uuid.UUID
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     BorrowingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOverdueAt reports whether the borrowing is still out and past its due date at the given instant.
func (b Borrowing) IsOverdueAt(at time.Time) bool {
	return b.Status == BorrowingActive && at.After(b.DueDate)
}

// Fine is a monetary charge against a Borrowing.
type Fine struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	BorrowingID uuid.UUID
	Amount      decimal.Decimal
	Reason      FineReason
	Status      FineStatus
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BorrowingRef identifies a borrowing across partitions, as returned by the accrual candidate listing.
type BorrowingRef struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
}
