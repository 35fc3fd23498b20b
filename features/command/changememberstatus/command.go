package changememberstatus

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "ChangeMemberStatus"
)

// Command represents the intent to change the standing of a member.
type Command struct {
	OwnerID  uuid.UUID                `validate:"required"`
	MemberID uuid.UUID                `validate:"required"`
	Status   circulation.MemberStatus `validate:"required,oneof=ACTIVE SUSPENDED EXPIRED"`
	At       time.Time                `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID, memberID uuid.UUID, status circulation.MemberStatus, at time.Time) Command {
	return Command{
		OwnerID:  ownerID,
		MemberID: memberID,
		Status:   status,
		At:       circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	return shell.ValidateCommand(c)
}
