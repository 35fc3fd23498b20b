package postgresengine

import (
	"time"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/postgresengine/internal/adapters"
)

func scanBook(rows adapters.DBRows) (circulation.Book, error) {
	var book circulation.Book

	err := rows.Scan(
		&book.ID,
		&book.OwnerID,
		&book.Title,
		&book.Author,
		&book.Category,
		&book.ISBN,
		&book.PublishedYear,
		&book.CreatedAt,
	)
	book.CreatedAt = book.CreatedAt.UTC()

	return book, err
}

func scanCopy(rows adapters.DBRows) (circulation.BookCopy, error) {
	var bookCopy circulation.BookCopy
	var status string

	err := rows.Scan(
		&bookCopy.ID,
		&bookCopy.OwnerID,
		&bookCopy.BookID,
		&bookCopy.Barcode,
		&bookCopy.Condition,
		&bookCopy.ShelfLocation,
		&status,
		&bookCopy.CreatedAt,
		&bookCopy.UpdatedAt,
	)
	bookCopy.Status = circulation.CopyStatus(status)
	bookCopy.CreatedAt = bookCopy.CreatedAt.UTC()
	bookCopy.UpdatedAt = bookCopy.UpdatedAt.UTC()

	return bookCopy, err
}

func scanMember(rows adapters.DBRows) (circulation.Member, error) {
	var member circulation.Member
	var status string
	var maxBooks int64

	err := rows.Scan(
		&member.ID,
		&member.OwnerID,
		&member.Name,
		&member.Email,
		&status,
		&maxBooks,
		&member.CreatedAt,
	)
	member.Status = circulation.MemberStatus(status)
	member.MaxBooks = int(maxBooks)
	member.CreatedAt = member.CreatedAt.UTC()

	return member, err
}

func scanBorrowing(rows adapters.DBRows) (circulation.Borrowing, error) {
	var borrowing circulation.Borrowing
	var status string

	err := rows.Scan(
		&borrowing.ID,
		&borrowing.OwnerID,
		&borrowing.MemberID,
		&borrowing.CopyID,
		&borrowing.BorrowDate,
		&borrowing.DueDate,
		&borrowing.ReturnDate,
		&status,
		&borrowing.CreatedAt,
		&borrowing.UpdatedAt,
	)
	borrowing.Status = circulation.BorrowingStatus(status)
	borrowing.BorrowDate = borrowing.BorrowDate.UTC()
	borrowing.DueDate = borrowing.DueDate.UTC()
	borrowing.ReturnDate = utcOrNil(borrowing.ReturnDate)
	borrowing.CreatedAt = borrowing.CreatedAt.UTC()
	borrowing.UpdatedAt = borrowing.UpdatedAt.UTC()

	return borrowing, err
}

func scanBorrowingRef(rows adapters.DBRows) (circulation.BorrowingRef, error) {
	var ref circulation.BorrowingRef

	err := rows.Scan(&ref.ID, &ref.OwnerID)

	return ref, err
}

func scanFine(rows adapters.DBRows) (circulation.Fine, error) {
	var fine circulation.Fine
	var reason, status string

	err := rows.Scan(
		&fine.ID,
		&fine.OwnerID,
		&fine.BorrowingID,
		&fine.Amount,
		&reason,
		&status,
		&fine.PaidAt,
		&fine.CreatedAt,
		&fine.UpdatedAt,
	)
	fine.Reason = circulation.FineReason(reason)
	fine.Status = circulation.FineStatus(status)
	fine.PaidAt = utcOrNil(fine.PaidAt)
	fine.CreatedAt = fine.CreatedAt.UTC()
	fine.UpdatedAt = fine.UpdatedAt.UTC()

	return fine, err
}

func scanCount(rows adapters.DBRows) (int, error) {
	var count int64

	err := rows.Scan(&count)

	return int(count), err
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	utc := t.UTC()

	return &utc
}
