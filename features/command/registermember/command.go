package registermember

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "RegisterMember"
)

// Command represents the intent to register an ACTIVE member with a borrowing cap.
type Command struct {
	OwnerID  uuid.UUID `validate:"required"`
	MemberID uuid.UUID `validate:"required"`
	Name     string    `validate:"required,max=255"`
	Email    string    `validate:"omitempty,email,max=255"`
	MaxBooks int       `validate:"gte=0,lte=100"`
	At       time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID, memberID uuid.UUID, name, email string, maxBooks int, at time.Time) Command {
	return Command{
		OwnerID:  ownerID,
		MemberID: memberID,
		Name:     name,
		Email:    email,
		MaxBooks: maxBooks,
		At:       circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	return shell.ValidateCommand(c)
}
