package waivefine

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

const (
	commandType = "WaiveFine"
)

// Command represents the intent to waive a fine.
type Command struct {
	OwnerID uuid.UUID `validate:"required"`
	FineID  uuid.UUID `validate:"required"`
	At      time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID, fineID uuid.UUID, at time.Time) Command {
	return Command{
		OwnerID: ownerID,
		FineID:  fineID,
		At:      circulation.NormalizeTime(at),
	}
}
