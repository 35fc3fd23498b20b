package borrowingdetails

import (
	"context"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

const (
	failureReasonBorrowingNotFound = "borrowing not found"
)

// QueryHandler loads a borrowing and the records it references, then delegates to Project.
type QueryHandler struct {
	uow circulation.UnitOfWork
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(uow circulation.UnitOfWork) QueryHandler {
	return QueryHandler{uow: uow}
}

// Handle runs the query. An unknown borrowing is a NotFound error.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowingDetails, error) {
	if err := query.Validate(); err != nil {
		return BorrowingDetails{}, err
	}

	var snapshot Snapshot

	err := h.uow.WithinTx(ctx, func(ctx context.Context, tx circulation.Tx) error {
		var err error

		snapshot.Borrowing, err = tx.FindBorrowing(ctx, query.OwnerID, query.BorrowingID)
		if err != nil {
			return circulation.NotFoundIfMissing(err, failureReasonBorrowingNotFound)
		}

		if snapshot.Member, err = tx.FindMember(ctx, query.OwnerID, snapshot.Borrowing.MemberID); err != nil {
			return err
		}

		if snapshot.Copy, err = tx.FindCopy(ctx, query.OwnerID, snapshot.Borrowing.CopyID); err != nil {
			return err
		}

		if snapshot.Book, err = tx.FindBook(ctx, query.OwnerID, snapshot.Copy.BookID); err != nil {
			return err
		}

		snapshot.Fines, err = tx.ListFinesForBorrowing(ctx, query.OwnerID, query.BorrowingID)

		return err
	})
	if err != nil {
		return BorrowingDetails{}, err
	}

	return Project(snapshot, query.At), nil
}
