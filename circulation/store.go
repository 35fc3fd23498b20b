package circulation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxFunc is the body of a unit of work. Returning an error rolls back every write made through tx.
type TxFunc func(ctx context.Context, tx Tx) error

// UnitOfWork runs a TxFunc inside one database transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// Tx is the transactional view on all stores. It is only valid inside the TxFunc that received it.
//
// All lookups are scoped to an owner partition. Find* methods that are used before a write
// lock the returned row until the unit of work ends. Lookups that match no row return ErrRecordNotFound.
// Guarded writes (Set*Status with an expected current status) return ErrConcurrencyConflict
// when no row matched the guard.
type Tx interface {
	CatalogStore
	MembershipStore
	BorrowingStore
	FineLedger
}

// CatalogStore persists books and their copies.
type CatalogStore interface {
	InsertBook(ctx context.Context, book Book) error
	FindBook(ctx context.Context, ownerID, bookID uuid.UUID) (Book, error)
	DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error
	InsertCopy(ctx context.Context, bookCopy BookCopy) error
	FindCopy(ctx context.Context, ownerID, copyID uuid.UUID) (BookCopy, error)
	FindCopyByBarcode(ctx context.Context, ownerID uuid.UUID, barcode string) (BookCopy, error)
	CountCopiesOfBook(ctx context.Context, ownerID, bookID uuid.UUID) (int, error)
	SetCopyStatus(ctx context.Context, ownerID, copyID uuid.UUID, from, to CopyStatus, at time.Time) error
	SetCopyCondition(ctx context.Context, ownerID, copyID uuid.UUID, condition string, at time.Time) error
}

// MembershipStore persists patrons.
type MembershipStore interface {
	InsertMember(ctx context.Context, member Member) error
	FindMember(ctx context.Context, ownerID, memberID uuid.UUID) (Member, error)
	CountActiveBorrowings(ctx context.Context, ownerID, memberID uuid.UUID) (int, error)
	SetMemberStatus(ctx context.Context, ownerID, memberID uuid.UUID, status MemberStatus) error
}

// BorrowingStore persists loans.
type BorrowingStore interface {
	InsertBorrowing(ctx context.Context, borrowing Borrowing) error
	FindBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) (Borrowing, error)
	UpdateBorrowing(ctx context.Context, borrowing Borrowing) error
	DeleteBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) error
	CountActiveBorrowingsForCopy(ctx context.Context, ownerID, copyID uuid.UUID) (int, error)
	CountActiveBorrowingsForBook(ctx context.Context, ownerID, bookID uuid.UUID) (int, error)

	// ListOverdueBorrowings returns ACTIVE borrowings with a due date before asOf.
	// A uuid.Nil ownerID lists all partitions. The rows are not locked.
	ListOverdueBorrowings(ctx context.Context, ownerID uuid.UUID, asOf time.Time) ([]BorrowingRef, error)
}

// FineLedger persists fines.
type FineLedger interface {
	InsertFine(ctx context.Context, fine Fine) error
	FindFine(ctx context.Context, ownerID, fineID uuid.UUID) (Fine, error)
	ListFinesForBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) ([]Fine, error)
	UpdateFineAmount(ctx context.Context, ownerID, fineID uuid.UUID, amount decimal.Decimal, at time.Time) error
	SetFineStatus(ctx context.Context, ownerID, fineID uuid.UUID, from, to FineStatus, paidAt *time.Time, at time.Time) error
}
