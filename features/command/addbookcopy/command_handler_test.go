package addbookcopy_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/addbookcopy"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/enginewrapper"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/fixtures"
)

func Test_CommandHandler_Handle(t *testing.T) {
	// arrange
	ctx := context.Background()
	wrapper := enginewrapper.CreateWrapperWithTestConfig(t)
	library := fixtures.NewLibrary(t, wrapper.GetEngine())
	handler := addbookcopy.NewCommandHandler(wrapper.GetEngine())

	isbn := "978-0-06-051275-4"
	year := 1974
	bookID := uuid.New()
	metadata := addbookcopy.BookMetadata{Title: "The Dispossessed", Author: "Ursula K. Le Guin", Category: "Fiction", ISBN: &isbn, PublishedYear: &year}
	first := addbookcopy.BuildCommand(library.OwnerID, bookID, metadata, uuid.New(), "BC-1", "", "A-1", fixtures.Epoch)

	t.Run("first copy creates the book", func(t *testing.T) {
		// act
		result, handlerResult, err := handler.Handle(ctx, first)

		// assert
		require.NoError(t, err)
		assert.False(t, handlerResult.Idempotent)
		assert.Equal(t, "The Dispossessed", result.Book.Title)
		require.NotNil(t, result.Book.ISBN)
		assert.Equal(t, isbn, *result.Book.ISBN)

		stored := library.Copy(first.CopyID)
		assert.Equal(t, "BC-1", stored.Barcode)
		assert.Equal(t, circulation.CopyAvailable, stored.Status)
	})

	t.Run("re-sending the same copy is a no-op", func(t *testing.T) {
		// act
		_, handlerResult, err := handler.Handle(ctx, first)

		// assert
		require.NoError(t, err)
		assert.True(t, handlerResult.Idempotent)
	})

	t.Run("second copy joins the existing book", func(t *testing.T) {
		// act
		result, _, err := handler.Handle(ctx, addbookcopy.BuildCommand(library.OwnerID, bookID, addbookcopy.BookMetadata{}, uuid.New(), "BC-2", "worn", "A-2", fixtures.Epoch))

		// assert
		require.NoError(t, err)
		assert.Equal(t, "The Dispossessed", result.Book.Title)
		assert.Equal(t, "worn", result.Copy.Condition)
	})

	t.Run("barcode clash", func(t *testing.T) {
		// act
		_, _, err := handler.Handle(ctx, addbookcopy.BuildCommand(library.OwnerID, bookID, addbookcopy.BookMetadata{}, uuid.New(), "BC-1", "", "A-3", fixtures.Epoch))

		// assert
		assert.ErrorIs(t, err, circulation.ErrConflict)
		assert.EqualError(t, err, "barcode is already in use")
	})

	t.Run("the same barcode is free in another partition", func(t *testing.T) {
		// arrange
		other := fixtures.NewLibrary(t, wrapper.GetEngine())

		// act
		_, _, err := handler.Handle(ctx, addbookcopy.BuildCommand(other.OwnerID, uuid.New(), metadata, uuid.New(), "BC-1", "", "A-1", fixtures.Epoch))

		// assert
		assert.NoError(t, err)
	})

	t.Run("unknown book without metadata", func(t *testing.T) {
		// act
		_, _, err := handler.Handle(ctx, addbookcopy.BuildCommand(library.OwnerID, uuid.New(), addbookcopy.BookMetadata{}, uuid.New(), "BC-3", "", "A-1", fixtures.Epoch))

		// assert
		assert.ErrorIs(t, err, circulation.ErrNotFound)
		assert.EqualError(t, err, "book not found")
	})
}
