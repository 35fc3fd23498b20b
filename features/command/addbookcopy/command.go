package addbookcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/shell"
)

const (
	commandType      = "AddBookCopy"
	defaultCondition = "good"
)

// BookMetadata describes a book that does not exist yet. An empty Title means "the book must already exist".
type BookMetadata struct {
	Title         string  `validate:"max=255"`
	Author        string  `validate:"max=255"`
	Category      string  `validate:"max=64"`
	ISBN          *string `validate:"omitnil,min=10,max=17"`
	PublishedYear *int    `validate:"omitnil,gte=0,lte=9999"`
}

// Command represents the intent to add a copy with Barcode to the book with BookID.
type Command struct {
	OwnerID       uuid.UUID `validate:"required"`
	BookID        uuid.UUID `validate:"required"`
	Book          BookMetadata
	CopyID        uuid.UUID `validate:"required"`
	Barcode       string    `validate:"required,max=64"`
	Condition     string    `validate:"max=64"`
	ShelfLocation string    `validate:"max=64"`
	At            time.Time `validate:"required"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. Condition defaults to "good".
func BuildCommand(
	ownerID, bookID uuid.UUID,
	book BookMetadata,
	copyID uuid.UUID,
	barcode, condition, shelfLocation string,
	at time.Time,
) Command {
	if condition == "" {
		condition = defaultCondition
	}

	return Command{
		OwnerID:       ownerID,
		BookID:        bookID,
		Book:          book,
		CopyID:        copyID,
		Barcode:       barcode,
		Condition:     condition,
		ShelfLocation: shelfLocation,
		At:            circulation.NormalizeTime(at),
	}
}

// Validate rejects malformed input before any store access.
func (c Command) Validate() error {
	return shell.ValidateCommand(c)
}
