package borrowingdetails

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	queryType = "BorrowingDetails"
)

// Query asks for the details of one borrowing as seen at At.
type Query struct {
	OwnerID     uuid.UUID `validate:"required"`
	BorrowingID uuid.UUID `validate:"required"`
	At          time.Time `validate:"required"`
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(ownerID, borrowingID uuid.UUID, at time.Time) Query {
	return Query{
		OwnerID:     ownerID,
		BorrowingID: borrowingID,
		At:          circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (q Query) Validate() error {
	return shell.ValidateCommand(q)
}
