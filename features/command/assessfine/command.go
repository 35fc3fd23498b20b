package assessfine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "AssessFine"
)

// Command represents the intent to charge a borrowing with a DAMAGE or LOST fine.
type Command struct {
	FineID      uuid.UUID              `validate:"required"`
	OwnerID     uuid.UUID              `validate:"required"`
	BorrowingID uuid.UUID              `validate:"required"`
	Reason      circulation.FineReason `validate:"required,oneof=DAMAGE LOST"`
	Amount      decimal.Decimal
	At          time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh fine identifier.
func BuildCommand(
	ownerID, borrowingID uuid.UUID,
	reason circulation.FineReason,
	amount decimal.Decimal,
	at time.Time,
) Command {
	return Command{
		FineID:      uuid.Must(uuid.NewV7()),
		OwnerID:     ownerID,
		BorrowingID: borrowingID,
		Reason:      reason,
		Amount:      amount.Round(2),
		At:          circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	if err := shell.ValidateCommand(c); err != nil {
		return err
	}

	if !c.Amount.IsPositive() {
		return circulation.Invalid("amount must be greater than 0")
	}

	return nil
}
