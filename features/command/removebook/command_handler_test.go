package removebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/removebook"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/enginewrapper"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/fixtures"
)

func Test_CommandHandler_Handle(t *testing.T) {
	ctx := context.Background()
	wrapper := enginewrapper.CreateWrapperWithTestConfig(t)
	handler := removebook.NewCommandHandler(wrapper.GetEngine())
	dueDate := fixtures.Epoch.Add(14 * 24 * time.Hour)

	t.Run("removes the book with its copies and history", func(t *testing.T) {
		// arrange
		library := fixtures.NewLibrary(t, wrapper.GetEngine())
		book := library.GivenBook("The Left Hand of Darkness")
		first := library.GivenCopy(book, "BC-3001")
		library.GivenCopyWithStatus(book, "BC-3002", circulation.CopyMaintenance)
		member := library.GivenMember("Genly Ai", 3)
		returned := library.GivenReturnedBorrowing(member, first, fixtures.Epoch, dueDate, dueDate)

		// act
		result, _, err := handler.Handle(ctx, removebook.BuildCommand(library.OwnerID, book.ID, fixtures.Epoch))

		// assert
		require.NoError(t, err)
		assert.Equal(t, 2, result.RemovedCopies)
		_, stillThere := library.Borrowing(returned.ID)
		assert.False(t, stillThere)
	})

	t.Run("refuses while a copy is on loan", func(t *testing.T) {
		// arrange
		library := fixtures.NewLibrary(t, wrapper.GetEngine())
		book := library.GivenBook("The Left Hand of Darkness")
		bookCopy := library.GivenCopy(book, "BC-3003")
		member := library.GivenMember("Estraven", 3)
		library.GivenActiveBorrowing(member, bookCopy, fixtures.Epoch, dueDate)

		// act
		_, _, err := handler.Handle(ctx, removebook.BuildCommand(library.OwnerID, book.ID, fixtures.Epoch))

		// assert
		assert.ErrorIs(t, err, circulation.ErrConflict)
		assert.EqualError(t, err, "book has copies on loan")
		assert.Equal(t, circulation.CopyBorrowed, library.Copy(bookCopy.ID).Status)
	})

	t.Run("unknown book", func(t *testing.T) {
		// arrange
		library := fixtures.NewLibrary(t, wrapper.GetEngine())

		// act
		_, _, err := handler.Handle(ctx, removebook.BuildCommand(library.OwnerID, uuid.New(), fixtures.Epoch))

		// assert
		assert.ErrorIs(t, err, circulation.ErrNotFound)
	})
}
