package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "Checkout"
)

// Command represents the intent to lend the copy with Barcode to a member.
// DueDate is optional; without it the loan runs for circulation.DefaultLoanPeriod.
type Command struct {
	BorrowingID uuid.UUID `validate:"required"`
	OwnerID     uuid.UUID `validate:"required"`
	MemberID    uuid.UUID `validate:"required"`
	Barcode     string    `validate:"required,max=64"`
	DueDate     *time.Time
	At          time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh borrowing identifier.
func BuildCommand(ownerID, memberID uuid.UUID, barcode string, dueDate *time.Time, at time.Time) Command {
	var normalizedDueDate *time.Time
	if dueDate != nil {
		d := circulation.NormalizeTime(*dueDate)
		normalizedDueDate = &d
	}

	return Command{
		BorrowingID: uuid.Must(uuid.NewV7()),
		OwnerID:     ownerID,
		MemberID:    memberID,
		Barcode:     barcode,
		DueDate:     normalizedDueDate,
		At:          circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	if err := shell.ValidateCommand(c); err != nil {
		return err
	}

	if c.DueDate != nil && !c.DueDate.After(c.At) {
		return circulation.Invalid("due date must be after the checkout time")
	}

	return nil
}

// EffectiveDueDate is the explicit due date or the default loan period from At.
func (c Command) EffectiveDueDate() time.Time {
	if c.DueDate != nil {
		return *c.DueDate
	}

	return c.At.Add(circulation.DefaultLoanPeriod)
}
