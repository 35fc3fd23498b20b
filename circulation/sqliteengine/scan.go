package sqliteengine

import (
	"database/sql"
	"time"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

func fromNullMicros(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}

	t := fromMicros(v.Int64)

	return &t
}

func scanBook(rows *sql.Rows) (circulation.Book, error) {
	var book circulation.Book
	var createdAt int64

	err := rows.Scan(
		&book.ID,
		&book.OwnerID,
		&book.Title,
		&book.Author,
		&book.Category,
		&book.ISBN,
		&book.PublishedYear,
		&createdAt,
	)
	book.CreatedAt = fromMicros(createdAt)

	return book, err
}

func scanCopy(rows *sql.Rows) (circulation.BookCopy, error) {
	var bookCopy circulation.BookCopy
	var status string
	var createdAt, updatedAt int64

	err := rows.Scan(
		&bookCopy.ID,
		&bookCopy.OwnerID,
		&bookCopy.BookID,
		&bookCopy.Barcode,
		&bookCopy.Condition,
		&bookCopy.ShelfLocation,
		&status,
		&createdAt,
		&updatedAt,
	)
	bookCopy.Status = circulation.CopyStatus(status)
	bookCopy.CreatedAt = fromMicros(createdAt)
	bookCopy.UpdatedAt = fromMicros(updatedAt)

	return bookCopy, err
}

func scanMember(rows *sql.Rows) (circulation.Member, error) {
	var member circulation.Member
	var status string
	var createdAt int64

	err := rows.Scan(
		&member.ID,
		&member.OwnerID,
		&member.Name,
		&member.Email,
		&status,
		&member.MaxBooks,
		&createdAt,
	)
	member.Status = circulation.MemberStatus(status)
	member.CreatedAt = fromMicros(createdAt)

	return member, err
}

func scanBorrowing(rows *sql.Rows) (circulation.Borrowing, error) {
	var borrowing circulation.Borrowing
	var status string
	var borrowDate, dueDate, createdAt, updatedAt int64
	var returnDate sql.NullInt64

	err := rows.Scan(
		&borrowing.ID,
		&borrowing.OwnerID,
		&borrowing.MemberID,
		&borrowing.CopyID,
		&borrowDate,
		&dueDate,
		&returnDate,
		&status,
		&createdAt,
		&updatedAt,
	)
	borrowing.Status = circulation.BorrowingStatus(status)
	borrowing.BorrowDate = fromMicros(borrowDate)
	borrowing.DueDate = fromMicros(dueDate)
	borrowing.ReturnDate = fromNullMicros(returnDate)
	borrowing.CreatedAt = fromMicros(createdAt)
	borrowing.UpdatedAt = fromMicros(updatedAt)

	return borrowing, err
}

func scanBorrowingRef(rows *sql.Rows) (circulation.BorrowingRef, error) {
	var ref circulation.BorrowingRef

	err := rows.Scan(&ref.ID, &ref.OwnerID)

	return ref, err
}

func scanFine(rows *sql.Rows) (circulation.Fine, error) {
	var fine circulation.Fine
	var reason, status string
	var createdAt, updatedAt int64
	var paidAt sql.NullInt64

	err := rows.Scan(
		&fine.ID,
		&fine.OwnerID,
		&fine.BorrowingID,
		&fine.Amount,
		&reason,
		&status,
		&paidAt,
		&createdAt,
		&updatedAt,
	)
	fine.Reason = circulation.FineReason(reason)
	fine.Status = circulation.FineStatus(status)
	fine.PaidAt = fromNullMicros(paidAt)
	fine.CreatedAt = fromMicros(createdAt)
	fine.UpdatedAt = fromMicros(updatedAt)

	return fine, err
}

func scanCount(rows *sql.Rows) (int, error) {
	var count int

	err := rows.Scan(&count)

	return count, err
}
