package registermember_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/registermember"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/enginewrapper"
	"github.com/Rayyy-dev/ShelfWise-sub000/testutil/fixtures"
)

func Test_CommandHandler_Handle(t *testing.T) {
	// arrange
	ctx := context.Background()
	wrapper := enginewrapper.CreateWrapperWithTestConfig(t)
	library := fixtures.NewLibrary(t, wrapper.GetEngine())
	handler := registermember.NewCommandHandler(wrapper.GetEngine())
	command := registermember.BuildCommand(library.OwnerID, uuid.New(), "Shevek", "shevek@anarres.org", 3, fixtures.Epoch)

	// act
	result, handlerResult, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.False(t, handlerResult.Idempotent)
	stored := library.Member(command.MemberID)
	assert.Equal(t, result.Member.ID, stored.ID)
	assert.Equal(t, "Shevek", stored.Name)
	assert.Equal(t, circulation.MemberActive, stored.Status)
	assert.Equal(t, 3, stored.MaxBooks)

	// act
	_, handlerResult, err = handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.True(t, handlerResult.Idempotent)

	// act
	_, _, err = handler.Handle(ctx, registermember.BuildCommand(library.OwnerID, command.MemberID, "Takver", "", 3, fixtures.Epoch))

	// assert
	assert.ErrorIs(t, err, circulation.ErrConflict)
}
