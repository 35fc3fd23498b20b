package deleteborrowing

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

const (
	commandType = "DeleteBorrowing"
)

// Command represents the intent to purge a borrowing.
type Command struct {
	OwnerID     uuid.UUID `validate:"required"`
	BorrowingID uuid.UUID `validate:"required"`
	At          time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID, borrowingID uuid.UUID, at time.Time) Command {
	return Command{
		OwnerID:     ownerID,
		BorrowingID: borrowingID,
		At:          circulation.NormalizeTime(at),
	}
}
