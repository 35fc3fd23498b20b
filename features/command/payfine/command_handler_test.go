package payfine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/payfine"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/waivefine"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/enginewrapper"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/fixtures"
)

func setupTestEnvironment(t *testing.T) (context.Context, *fixtures.Library, circulation.UnitOfWork, circulation.Fine) {
	t.Helper()

	wrapper := enginewrapper.CreateWrapperWithTestConfig(t)
	library := fixtures.NewLibrary(t, wrapper.GetEngine())

	book := library.GivenBook("The Eye of the Heron")
	bookCopy := library.GivenCopy(book, "BC-1")
	member := library.GivenMember("Luz", 2)
	borrowing := library.GivenActiveBorrowing(member, bookCopy, fixtures.Epoch.Add(-20*24*time.Hour), fixtures.Epoch.Add(-3*24*time.Hour))
	fine := library.GivenFine(borrowing, circulation.FineOverdue, circulation.FinePending, "1.50")

	return context.Background(), library, wrapper.GetEngine(), fine
}

func Test_CommandHandler_Handle_PaysPendingFine(t *testing.T) {
	// arrange
	ctx, library, uow, fine := setupTestEnvironment(t)
	at := fixtures.Epoch.Add(time.Hour)

	// act
	result, _, err := payfine.NewCommandHandler(uow).Handle(ctx, payfine.BuildCommand(library.OwnerID, fine.ID, at))

	// assert
	require.NoError(t, err)
	assert.Equal(t, circulation.FinePaid, result.Fine.Status)

	stored := library.Fine(fine.ID)
	assert.Equal(t, circulation.FinePaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.Equal(t, at, *stored.PaidAt)
	assert.Equal(t, "1.50", stored.Amount.StringFixed(2))
}

func Test_CommandHandler_Handle_SettledFineIsTerminal(t *testing.T) {
	// arrange
	ctx, library, uow, fine := setupTestEnvironment(t)
	payHandler := payfine.NewCommandHandler(uow)

	_, _, err := payHandler.Handle(ctx, payfine.BuildCommand(library.OwnerID, fine.ID, fixtures.Epoch))
	require.NoError(t, err)

	// act
	_, _, payAgainErr := payHandler.Handle(ctx, payfine.BuildCommand(library.OwnerID, fine.ID, fixtures.Epoch.Add(time.Hour)))
	_, _, waiveErr := waivefine.NewCommandHandler(uow).Handle(ctx, waivefine.BuildCommand(library.OwnerID, fine.ID, fixtures.Epoch.Add(time.Hour)))

	// assert
	assert.ErrorIs(t, payAgainErr, circulation.ErrConflict)
	assert.EqualError(t, payAgainErr, "already paid")
	assert.ErrorIs(t, waiveErr, circulation.ErrConflict)
	assert.EqualError(t, waiveErr, "already paid")

	stored := library.Fine(fine.ID)
	assert.Equal(t, circulation.FinePaid, stored.Status)
	assert.Equal(t, fixtures.Epoch, *stored.PaidAt, "the first payment time is kept")
}

func Test_CommandHandler_Handle_UnknownFine(t *testing.T) {
	// arrange
	ctx, library, uow, _ := setupTestEnvironment(t)

	// act
	_, _, err := payfine.NewCommandHandler(uow).Handle(ctx, payfine.BuildCommand(library.OwnerID, uuid.New(), fixtures.Epoch))

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
	assert.EqualError(t, err, "fine not found")
}

func Test_CommandHandler_Handle_FineOfAnotherOwner(t *testing.T) {
	// arrange
	ctx, _, uow, fine := setupTestEnvironment(t)
	stranger := fixtures.NewLibrary(t, uow)

	// act
	_, _, err := payfine.NewCommandHandler(uow).Handle(ctx, payfine.BuildCommand(stranger.OwnerID, fine.ID, fixtures.Epoch))

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
}
