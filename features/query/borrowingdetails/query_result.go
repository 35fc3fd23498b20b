package borrowingdetails

import (
	"github.com/shopspring/decimal"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

// BorrowingDetails is the read model of one borrowing.
type BorrowingDetails struct {
	Borrowing         circulation.Borrowing
	Member            circulation.Member
	Copy              circulation.BookCopy
	Book              circulation.Book
	Fines             []circulation.Fine
	OutstandingAmount decimal.Decimal
	DaysOverdue       int
}
