package removebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "RemoveBook"
)

// Command represents the intent to remove a book from the catalog.
type Command struct {
	OwnerID uuid.UUID `validate:"required"`
	BookID  uuid.UUID `validate:"required"`
	At      time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID, bookID uuid.UUID, at time.Time) Command {
	return Command{
		OwnerID: ownerID,
		BookID:  bookID,
		At:      circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	return shell.ValidateCommand(c)
}
