package borrowingdetails

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

// Snapshot is everything the handler read for one borrowing.
type Snapshot struct {
	Borrowing circulation.Borrowing
	Member    circulation.Member
	Copy      circulation.BookCopy
	Book      circulation.Book
	Fines     []circulation.Fine
}

// Project builds the read model from what was loaded.
//
// Query Logic:
//
//	GIVEN: One borrowing with its member, copy, book and fines
//	WHEN: BorrowingDetails query is executed at instant At
//	THEN: BorrowingDetails is returned with fines sorted oldest first
//	DETAILS: OutstandingAmount sums the PENDING fines only
//	DETAILS: DaysOverdue counts to At for an ACTIVE borrowing and to the return date otherwise
func Project(snapshot Snapshot, at time.Time) BorrowingDetails {
	fines := slices.Clone(snapshot.Fines)
	slices.SortFunc(fines, func(a, b circulation.Fine) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	outstanding := decimal.Zero
	for _, fine := range fines {
		if fine.Status == circulation.FinePending {
			outstanding = outstanding.Add(fine.Amount)
		}
	}

	until := at
	if snapshot.Borrowing.ReturnDate != nil {
		until = *snapshot.Borrowing.ReturnDate
	}

	return BorrowingDetails{
		Borrowing:         snapshot.Borrowing,
		Member:            snapshot.Member,
		Copy:              snapshot.Copy,
		Book:              snapshot.Book,
		Fines:             fines,
		OutstandingAmount: outstanding,
		DaysOverdue:       circulation.DaysOverdue(snapshot.Borrowing.DueDate, until),
	}
}
