package fixtures

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

// Epoch is the fixed "now" fixtures use unless a test moves it.
var Epoch = time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)

// Library seeds and inspects one owner partition.
type Library struct {
	t       testing.TB
	uow     circulation.UnitOfWork
	OwnerID uuid.UUID
}

// NewLibrary creates a Library on a fresh random owner partition.
func NewLibrary(t testing.TB, uow circulation.UnitOfWork) *Library {
	return &Library{t: t, uow: uow, OwnerID: uuid.New()}
}

func (l *Library) within(fn circulation.TxFunc) {
	l.t.Helper()
	require.NoError(l.t, l.uow.WithinTx(context.Background(), fn), "fixture unit of work failed")
}

// GivenBook inserts a book.
func (l *Library) GivenBook(title string) circulation.Book {
	l.t.Helper()

	book := circulation.Book{
		ID:        uuid.New(),
		OwnerID:   l.OwnerID,
		Title:     title,
		Author:    "Ursula K. Le Guin",
		Category:  "Fiction",
		CreatedAt: Epoch,
	}

	l.within(func(ctx context.Context, tx circulation.Tx) error {
		return tx.InsertBook(ctx, book)
	})

	return book
}

// GivenCopy inserts an AVAILABLE copy of book with the given barcode.
func (l *Library) GivenCopy(book circulation.Book, barcode string) circulation.BookCopy {
	l.t.Helper()

	return l.GivenCopyWithStatus(book, barcode, circulation.CopyAvailable)
}

// GivenCopyWithStatus inserts a copy in an arbitrary status.
// Use GivenActiveBorrowing for BORROWED copies, so the borrowing exists too.
func (l *Library) GivenCopyWithStatus(book circulation.Book, barcode string, status circulation.CopyStatus) circulation.BookCopy {
	l.t.Helper()

	bookCopy := circulation.BookCopy{
		ID:            uuid.New(),
		OwnerID:       l.OwnerID,
		BookID:        book.ID,
		Barcode:       barcode,
		Condition:     "good",
		ShelfLocation: "A-1",
		Status:        status,
		CreatedAt:     Epoch,
		UpdatedAt:     Epoch,
	}

	l.within(func(ctx context.Context, tx circulation.Tx) error {
		return tx.InsertCopy(ctx, bookCopy)
	})

	return bookCopy
}

// GivenMember inserts an ACTIVE member with the given borrowing cap.
func (l *Library) GivenMember(name string, maxBooks int) circulation.Member {
	l.t.Helper()

	return l.GivenMemberWithStatus(name, maxBooks, circulation.MemberActive)
}

// GivenMemberWithStatus inserts a member in an arbitrary standing.
func (l *Library) GivenMemberWithStatus(name string, maxBooks int, status circulation.MemberStatus) circulation.Member {
	l.t.Helper()

	member := circulation.Member{
		ID:        uuid.New(),
		OwnerID:   l.OwnerID,
		Name:      name,
		Email:     "patron@example.org",
		Status:    status,
		MaxBooks:  maxBooks,
		CreatedAt: Epoch,
	}

	l.within(func(ctx context.Context, tx circulation.Tx) error {
		return tx.InsertMember(ctx, member)
	})

	return member
}

// GivenActiveBorrowing lends bookCopy to member and marks the copy BORROWED in one unit of work.
func (l *Library) GivenActiveBorrowing(
	member circulation.Member,
	bookCopy circulation.BookCopy,
	borrowDate, dueDate time.Time,
) circulation.Borrowing {
	l.t.Helper()

	borrowing := circulation.Borrowing{
		ID:         uuid.New(),
		OwnerID:    l.OwnerID,
		MemberID:   member.ID,
		CopyID:     bookCopy.ID,
		BorrowDate: circulation.NormalizeTime(borrowDate),
		DueDate:    circulation.NormalizeTime(dueDate),
		Status:     circulation.BorrowingActive,
		CreatedAt:  circulation.NormalizeTime(borrowDate),
		UpdatedAt:  circulation.NormalizeTime(borrowDate),
	}

	l.within(func(ctx context.Context, tx circulation.Tx) error {
		if err := tx.SetCopyStatus(ctx, l.OwnerID, bookCopy.ID, circulation.CopyAvailable, circulation.CopyBorrowed, borrowDate); err != nil {
			return err
		}

		return tx.InsertBorrowing(ctx, borrowing)
	})

	return borrowing
}

// GivenReturnedBorrowing inserts a RETURNED borrowing. The copy is left untouched.
func (l *Library) GivenReturnedBorrowing(
	member circulation.Member,
	bookCopy circulation.BookCopy,
	borrowDate, dueDate, returnDate time.Time,
) circulation.Borrowing {
	l.t.Helper()

	returned := circulation.NormalizeTime(returnDate)
	borrowing := circulation.Borrowing{
		ID:         uuid.New(),
		OwnerID:    l.OwnerID,
		MemberID:   member.ID,
		CopyID:     bookCopy.ID,
		BorrowDate: circulation.NormalizeTime(borrowDate),
		DueDate:    circulation.NormalizeTime(dueDate),
		ReturnDate: &returned,
		Status:     circulation.BorrowingReturned,
		CreatedAt:  circulation.NormalizeTime(borrowDate),
		UpdatedAt:  returned,
	}

	l.within(func(ctx context.Context, tx circulation.Tx) error {
		return tx.InsertBorrowing(ctx, borrowing)
	})

	return borrowing
}

// GivenFine inserts a fine against borrowing. PAID fines get PaidAt = Epoch.
func (l *Library) GivenFine(
	borrowing circulation.Borrowing,
	reason circulation.FineReason,
	status circulation.FineStatus,
	amount string,
) circulation.Fine {
	l.t.Helper()

	fine := circulation.Fine{
		ID:          uuid.New(),
		OwnerID:     l.OwnerID,
		BorrowingID: borrowing.ID,
		Amount:      decimal.RequireFromString(amount),
		Reason:      reason,
		Status:      status,
		CreatedAt:   Epoch,
		UpdatedAt:   Epoch,
	}

	if status == circulation.FinePaid {
		paidAt := Epoch
		fine.PaidAt = &paidAt
	}

	l.within(func(ctx context.Context, tx circulation.Tx) error {
		return tx.InsertFine(ctx, fine)
	})

	return fine
}

// Copy reloads a copy.
func (l *Library) Copy(copyID uuid.UUID) circulation.BookCopy {
	l.t.Helper()

	var bookCopy circulation.BookCopy

	l.within(func(ctx context.Context, tx circulation.Tx) (err error) {
		bookCopy, err = tx.FindCopy(ctx, l.OwnerID, copyID)
		return err
	})

	return bookCopy
}

// Member reloads a member.
func (l *Library) Member(memberID uuid.UUID) circulation.Member {
	l.t.Helper()

	var member circulation.Member

	l.within(func(ctx context.Context, tx circulation.Tx) (err error) {
		member, err = tx.FindMember(ctx, l.OwnerID, memberID)
		return err
	})

	return member
}

// Borrowing reloads a borrowing. The second return value is false if it no longer exists.
func (l *Library) Borrowing(borrowingID uuid.UUID) (circulation.Borrowing, bool) {
	l.t.Helper()

	var borrowing circulation.Borrowing

	err := l.uow.WithinTx(context.Background(), func(ctx context.Context, tx circulation.Tx) (err error) {
		borrowing, err = tx.FindBorrowing(ctx, l.OwnerID, borrowingID)
		return err
	})
	if errors.Is(err, circulation.ErrRecordNotFound) {
		return circulation.Borrowing{}, false
	}

	require.NoError(l.t, err)

	return borrowing, true
}

// Fine reloads a fine.
func (l *Library) Fine(fineID uuid.UUID) circulation.Fine {
	l.t.Helper()

	var fine circulation.Fine

	l.within(func(ctx context.Context, tx circulation.Tx) (err error) {
		fine, err = tx.FindFine(ctx, l.OwnerID, fineID)
		return err
	})

	return fine
}

// FinesFor lists the fines of a borrowing.
func (l *Library) FinesFor(borrowingID uuid.UUID) []circulation.Fine {
	l.t.Helper()

	var fines []circulation.Fine

	l.within(func(ctx context.Context, tx circulation.Tx) (err error) {
		fines, err = tx.ListFinesForBorrowing(ctx, l.OwnerID, borrowingID)
		return err
	})

	return fines
}

// AssertCopyInvariant checks that the copy is BORROWED if and only if exactly one ACTIVE borrowing references it.
func (l *Library) AssertCopyInvariant(copyID uuid.UUID) {
	l.t.Helper()

	var (
		bookCopy circulation.BookCopy
		active   int
	)

	l.within(func(ctx context.Context, tx circulation.Tx) (err error) {
		if bookCopy, err = tx.FindCopy(ctx, l.OwnerID, copyID); err != nil {
			return err
		}

		active, err = tx.CountActiveBorrowingsForCopy(ctx, l.OwnerID, copyID)

		return err
	})

	assert.Equal(l.t, bookCopy.Status == circulation.CopyBorrowed, active == 1,
		"copy %s is %s with %d active borrowings", bookCopy.Barcode, bookCopy.Status, active)
	assert.LessOrEqual(l.t, active, 1, "copy %s has more than one active borrowing", bookCopy.Barcode)
}

// AssertLimitInvariant checks that the member does not hold more active borrowings than allowed.
func (l *Library) AssertLimitInvariant(memberID uuid.UUID) {
	l.t.Helper()

	var (
		member circulation.Member
		active int
	)

	l.within(func(ctx context.Context, tx circulation.Tx) (err error) {
		if member, err = tx.FindMember(ctx, l.OwnerID, memberID); err != nil {
			return err
		}

		active, err = tx.CountActiveBorrowings(ctx, l.OwnerID, memberID)

		return err
	})

	assert.LessOrEqual(l.t, active, member.MaxBooks, "member %s exceeds the borrowing limit", member.Name)
}
