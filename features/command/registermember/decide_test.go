package registermember_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/registermember"
)

var now = time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)

func Test_Decide(t *testing.T) {
	command := registermember.BuildCommand(uuid.New(), uuid.New(), "Shevek", "shevek@anarres.org", 3, now)

	t.Run("new member is ACTIVE", func(t *testing.T) {
		// act
		result := registermember.Decide(registermember.State{}, command)

		// assert
		require.True(t, result.HasChangeToApply())
		assert.Equal(t, circulation.MemberActive, result.Change.Member.Status)
		assert.Equal(t, 3, result.Change.Member.MaxBooks)
	})

	t.Run("same member again", func(t *testing.T) {
		// arrange
		s := registermember.State{
			Member:      circulation.Member{Name: "Shevek", Email: "shevek@anarres.org", MaxBooks: 3, Status: circulation.MemberSuspended},
			MemberFound: true,
		}

		// act
		result := registermember.Decide(s, command)

		// assert
		assert.True(t, result.IsIdempotent())
	})

	t.Run("id taken by someone else", func(t *testing.T) {
		// arrange
		s := registermember.State{Member: circulation.Member{Name: "Takver"}, MemberFound: true}

		// act
		result := registermember.Decide(s, command)

		// assert
		assert.EqualError(t, result.HasError(), "member already exists")
	})
}

func Test_Command_Validate(t *testing.T) {
	testCases := map[string]struct {
		command  registermember.Command
		expected string
	}{
		"missing name":  {registermember.BuildCommand(uuid.New(), uuid.New(), "", "", 3, now), "name is required"},
		"bad email":     {registermember.BuildCommand(uuid.New(), uuid.New(), "Odo", "not-an-email", 3, now), "email must be a valid email address"},
		"negative caps": {registermember.BuildCommand(uuid.New(), uuid.New(), "Odo", "", -1, now), "maxBooks must be greater than or equal to 0"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			// act
			err := tc.command.Validate()

			// assert
			assert.ErrorIs(t, err, circulation.ErrInvalid)
			assert.EqualError(t, err, tc.expected)
		})
	}
}
