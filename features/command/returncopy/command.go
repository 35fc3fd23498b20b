package returncopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "ReturnCopy"
)

// Command represents the intent to return the copy of a borrowing.
// Condition, if set, replaces the condition recorded on the copy.
type Command struct {
	OwnerID     uuid.UUID `validate:"required"`
	BorrowingID uuid.UUID `validate:"required"`
	Condition   *string   `validate:"omitnil,min=1,max=64"`
	At          time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID, borrowingID uuid.UUID, condition *string, at time.Time) Command {
	return Command{
		OwnerID:     ownerID,
		BorrowingID: borrowingID,
		Condition:   condition,
		At:          circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	return shell.ValidateCommand(c)
}
