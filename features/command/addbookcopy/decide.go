package addbookcopy

import (
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/shared/core"
)

const (
	failureReasonBookNotFound = "book not found"
	failureReasonCopyExists   = "copy already exists"
	failureReasonBarcodeTaken = "barcode is already in use"
)

// State is what the handler loads before deciding.
type State struct {
	Book         circulation.Book
	BookFound    bool
	Copy         circulation.BookCopy
	CopyFound    bool
	BarcodeTaken bool
}

// Change is the copy to insert, preceded by its book if that is new.
type Change struct {
	NewBook *circulation.Book
	Copy    circulation.BookCopy
}

// Decide implements the business logic of adding a copy.
//
// Business Rules:
//
//	GIVEN: A book with BookID, or metadata for a new one
//	WHEN: AddBookCopy command is received
//	THEN: An AVAILABLE copy is added; the book is created first if it is missing
//	ERROR: NotFound "book not found" if the book is missing and no title was given
//	ERROR: Conflict "copy already exists" if CopyID is taken by a different copy
//	ERROR: Conflict "barcode is already in use" if another copy carries the barcode
//	IDEMPOTENCY: If the same copy of the same book already exists, nothing is written (no-op)
func Decide(s State, command Command) core.DecisionResult[Change] {
	if s.CopyFound {
		if s.Copy.BookID == command.BookID && s.Copy.Barcode == command.Barcode {
			return core.IdempotentDecision[Change]()
		}

		return core.ErrorDecision[Change](circulation.Conflict(failureReasonCopyExists))
	}

	if s.BarcodeTaken {
		return core.ErrorDecision[Change](circulation.Conflict(failureReasonBarcodeTaken))
	}

	var newBook *circulation.Book

	if !s.BookFound {
		if command.Book.Title == "" {
			return core.ErrorDecision[Change](circulation.NotFound(failureReasonBookNotFound))
		}

		newBook = &circulation.Book{
			ID:            command.BookID,
			OwnerID:       command.OwnerID,
			Title:         command.Book.Title,
			Author:        command.Book.Author,
			Category:      command.Book.Category,
			ISBN:          command.Book.ISBN,
			PublishedYear: command.Book.PublishedYear,
			CreatedAt:     command.At,
		}
	}

	return core.SuccessDecision(Change{
		NewBook: newBook,
		Copy: circulation.BookCopy{
			ID:            command.CopyID,
			OwnerID:       command.OwnerID,
			BookID:        command.BookID,
			Barcode:       command.Barcode,
			Condition:     command.Condition,
			ShelfLocation: command.ShelfLocation,
			Status:        circulation.CopyAvailable,
			CreatedAt:     command.At,
			UpdatedAt:     command.At,
		},
	})
}
