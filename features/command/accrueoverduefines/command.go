package accrueoverduefines

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType = "AccrueOverdueFines"
)

// Command represents one accrual sweep. A uuid.Nil OwnerID sweeps every partition.
type Command struct {
	OwnerID   uuid.UUID
	AsOf      time.Time `validate:"required"`
	DailyRate decimal.Decimal
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID uuid.UUID, asOf time.Time, dailyRate decimal.Decimal) Command {
	return Command{
		OwnerID:   ownerID,
		AsOf:      circulation.NormalizeTime(asOf),
		DailyRate: dailyRate,
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	if err := shell.ValidateCommand(c); err != nil {
		return err
	}

	if !c.DailyRate.IsPositive() {
		return circulation.Invalid("dailyRate must be greater than 0")
	}

	return nil
}
