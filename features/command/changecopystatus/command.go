package changecopystatus

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "ChangeCopyStatus"
)

// Command represents the intent to change the circulation status of one copy.
type Command struct {
	OwnerID uuid.UUID              `validate:"required"`
	CopyID  uuid.UUID              `validate:"required"`
	Status  circulation.CopyStatus `validate:"required,oneof=AVAILABLE BORROWED MAINTENANCE LOST"`
	At      time.Time              `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID, copyID uuid.UUID, status circulation.CopyStatus, at time.Time) Command {
	return Command{
		OwnerID: ownerID,
		CopyID:  copyID,
		Status:  status,
		At:      circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	return shell.ValidateCommand(c)
}
