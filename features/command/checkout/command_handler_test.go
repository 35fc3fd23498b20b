package checkout_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/checkout"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/enginewrapper"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/fixtures"
)

func setupTestEnvironment(t *testing.T) (context.Context, *fixtures.Library, checkout.CommandHandler) {
	t.Helper()

	wrapper := enginewrapper.CreateWrapperWithTestConfig(t)

	return context.Background(),
		fixtures.NewLibrary(t, wrapper.GetEngine()),
		checkout.NewCommandHandler(wrapper.GetEngine())
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx, library, handler := setupTestEnvironment(t)
	book := library.GivenBook("The Dispossessed")
	bookCopy := library.GivenCopy(book, "BC-1")
	member := library.GivenMember("Ada", 3)
	at := fixtures.Epoch.Add(time.Hour)

	// act
	result, handlerResult, err := handler.Handle(ctx, checkout.BuildCommand(library.OwnerID, member.ID, "BC-1", nil, at))

	// assert
	require.NoError(t, err)
	assert.False(t, handlerResult.Idempotent)
	assert.Equal(t, 1, handlerResult.RetryAttempts)

	assert.Equal(t, circulation.BorrowingActive, result.Borrowing.Status)
	assert.Equal(t, at.Add(circulation.DefaultLoanPeriod), result.Borrowing.DueDate)
	assert.Equal(t, "Ada", result.Member.Name)
	assert.Equal(t, "BC-1", result.Copy.Barcode)
	assert.Equal(t, "The Dispossessed", result.Copy.Title)

	assert.Equal(t, circulation.CopyBorrowed, library.Copy(bookCopy.ID).Status)

	stored, found := library.Borrowing(result.Borrowing.ID)
	require.True(t, found)
	assert.Equal(t, result.Borrowing, stored)

	library.AssertCopyInvariant(bookCopy.ID)
	library.AssertLimitInvariant(member.ID)
}

func Test_CommandHandler_Handle_SecondCheckoutHitsTheLimit(t *testing.T) {
	// arrange
	ctx, library, handler := setupTestEnvironment(t)
	book := library.GivenBook("A Wizard of Earthsea")
	first := library.GivenCopy(book, "BC-1")
	second := library.GivenCopy(book, "BC-2")
	member := library.GivenMember("Ged", 1)

	_, _, err := handler.Handle(ctx, checkout.BuildCommand(library.OwnerID, member.ID, "BC-1", nil, fixtures.Epoch))
	require.NoError(t, err)

	// act
	_, _, err = handler.Handle(ctx, checkout.BuildCommand(library.OwnerID, member.ID, "BC-2", nil, fixtures.Epoch))

	// assert
	assert.ErrorIs(t, err, circulation.ErrConflict)
	assert.EqualError(t, err, "borrowing limit reached")

	assert.Equal(t, circulation.CopyBorrowed, library.Copy(first.ID).Status)
	assert.Equal(t, circulation.CopyAvailable, library.Copy(second.ID).Status)
	library.AssertCopyInvariant(second.ID)
	library.AssertLimitInvariant(member.ID)
}

func Test_CommandHandler_Handle_ConcurrentCheckoutsOfOneCopy(t *testing.T) {
	// arrange
	ctx, library, handler := setupTestEnvironment(t)
	book := library.GivenBook("The Left Hand of Darkness")
	bookCopy := library.GivenCopy(book, "BC-1")

	const contenders = 4

	members := make([]circulation.Member, contenders)
	for i := range members {
		members[i] = library.GivenMember("contender", 5)
	}

	errs := make([]error, contenders)

	var wg sync.WaitGroup

	start := make(chan struct{})

	// act
	for i, member := range members {
		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start

			_, _, errs[i] = handler.Handle(ctx, checkout.BuildCommand(library.OwnerID, member.ID, "BC-1", nil, fixtures.Epoch))
		}()
	}

	close(start)
	wg.Wait()

	// assert
	succeeded := 0

	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		assert.ErrorIs(t, err, circulation.ErrConflict)
		assert.EqualError(t, err, "copy is currently BORROWED")
	}

	assert.Equal(t, 1, succeeded, "exactly one checkout must win")
	assert.Equal(t, circulation.CopyBorrowed, library.Copy(bookCopy.ID).Status)
	library.AssertCopyInvariant(bookCopy.ID)
}

func Test_CommandHandler_Handle_RejectedCommandWritesNothing(t *testing.T) {
	// arrange
	ctx, library, handler := setupTestEnvironment(t)
	book := library.GivenBook("Lathe of Heaven")
	bookCopy := library.GivenCopyWithStatus(book, "BC-1", circulation.CopyMaintenance)
	member := library.GivenMember("George", 2)
	command := checkout.BuildCommand(library.OwnerID, member.ID, "BC-1", nil, fixtures.Epoch)

	// act
	_, _, err := handler.Handle(ctx, command)

	// assert
	assert.EqualError(t, err, "copy is currently MAINTENANCE")
	assert.Equal(t, circulation.CopyMaintenance, library.Copy(bookCopy.ID).Status)

	_, found := library.Borrowing(command.BorrowingID)
	assert.False(t, found)
}

func Test_CommandHandler_Handle_NotFound(t *testing.T) {
	// arrange
	ctx, library, handler := setupTestEnvironment(t)
	book := library.GivenBook("Always Coming Home")
	library.GivenCopy(book, "BC-1")
	member := library.GivenMember("Stone Telling", 2)
	otherLibrary := fixtures.NewLibrary(t, nil)

	testCases := map[string]checkout.Command{
		"unknown member":        checkout.BuildCommand(library.OwnerID, uuid.New(), "BC-1", nil, fixtures.Epoch),
		"unknown barcode":       checkout.BuildCommand(library.OwnerID, member.ID, "BC-404", nil, fixtures.Epoch),
		"member of other owner": checkout.BuildCommand(otherLibrary.OwnerID, member.ID, "BC-1", nil, fixtures.Epoch),
	}

	for name, command := range testCases {
		t.Run(name, func(t *testing.T) {
			// act
			_, _, err := handler.Handle(ctx, command)

			// assert
			assert.ErrorIs(t, err, circulation.ErrNotFound)
		})
	}
}

func Test_CommandHandler_Handle_InvalidCommandSkipsTheStore(t *testing.T) {
	// arrange
	handler := checkout.NewCommandHandler(nil)
	dueDate := fixtures.Epoch.Add(-time.Hour)

	// act
	_, handlerResult, err := handler.Handle(
		context.Background(),
		checkout.BuildCommand(uuid.New(), uuid.New(), "BC-1", &dueDate, fixtures.Epoch),
	)

	// assert
	assert.ErrorIs(t, err, circulation.ErrInvalid)
	assert.Equal(t, 0, handlerResult.RetryAttempts)
}
