package updateborrowing

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "UpdateBorrowing"
)

// Command represents an administrative correction of a borrowing. At least one of DueDate and Status is set.
type Command struct {
	OwnerID     uuid.UUID `validate:"required"`
	BorrowingID uuid.UUID `validate:"required"`
	DueDate     *time.Time
	Status      *circulation.BorrowingStatus
	At          time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	ownerID, borrowingID uuid.UUID,
	dueDate *time.Time,
	status *circulation.BorrowingStatus,
	at time.Time,
) Command {
	var normalizedDueDate *time.Time
	if dueDate != nil {
		d := circulation.NormalizeTime(*dueDate)
		normalizedDueDate = &d
	}

	return Command{
		OwnerID:     ownerID,
		BorrowingID: borrowingID,
		DueDate:     normalizedDueDate,
		Status:      status,
		At:          circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	if err := shell.ValidateCommand(c); err != nil {
		return err
	}

	if c.DueDate == nil && c.Status == nil {
		return circulation.Invalid("dueDate or status is required")
	}

	if c.Status != nil && !c.Status.IsValid() {
		return circulation.Invalidf("status must be one of %s, %s", circulation.BorrowingActive, circulation.BorrowingReturned)
	}

	return nil
}

func (c Command) reactivates(current circulation.BorrowingStatus) bool {
	return c.Status != nil && *c.Status == circulation.BorrowingActive && current == circulation.BorrowingReturned
}
