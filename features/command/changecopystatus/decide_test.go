package changecopystatus_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/changecopystatus"
)

var now = time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)

func Test_Decide(t *testing.T) {
	testCases := map[string]struct {
		current  circulation.CopyStatus
		found    bool
		target   circulation.CopyStatus
		expected string
	}{
		"unknown copy":             {"", false, circulation.CopyMaintenance, "copy not found"},
		"on loan":                  {circulation.CopyBorrowed, true, circulation.CopyMaintenance, "copy is currently BORROWED"},
		"borrow through the back":  {circulation.CopyAvailable, true, circulation.CopyBorrowed, "copies are only borrowed through checkout"},
		"lost straight to repairs": {circulation.CopyLost, true, circulation.CopyMaintenance, "cannot change copy status from LOST to MAINTENANCE"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			// arrange
			s := changecopystatus.State{Copy: circulation.BookCopy{Status: tc.current}, CopyFound: tc.found}

			// act
			result := changecopystatus.Decide(s, changecopystatus.BuildCommand(uuid.New(), uuid.New(), tc.target, now))

			// assert
			assert.EqualError(t, result.HasError(), tc.expected)
		})
	}

	t.Run("allowed transitions", func(t *testing.T) {
		for _, pair := range [][2]circulation.CopyStatus{
			{circulation.CopyAvailable, circulation.CopyMaintenance},
			{circulation.CopyAvailable, circulation.CopyLost},
			{circulation.CopyMaintenance, circulation.CopyAvailable},
			{circulation.CopyMaintenance, circulation.CopyLost},
			{circulation.CopyLost, circulation.CopyAvailable},
		} {
			// arrange
			s := changecopystatus.State{Copy: circulation.BookCopy{Status: pair[0]}, CopyFound: true}

			// act
			result := changecopystatus.Decide(s, changecopystatus.BuildCommand(uuid.New(), uuid.New(), pair[1], now))

			// assert
			require.True(t, result.HasChangeToApply(), "%s -> %s", pair[0], pair[1])
			assert.Equal(t, changecopystatus.Change{From: pair[0], To: pair[1]}, result.Change)
		}
	})

	t.Run("same status", func(t *testing.T) {
		// arrange
		s := changecopystatus.State{Copy: circulation.BookCopy{Status: circulation.CopyLost}, CopyFound: true}

		// act
		result := changecopystatus.Decide(s, changecopystatus.BuildCommand(uuid.New(), uuid.New(), circulation.CopyLost, now))

		// assert
		assert.True(t, result.IsIdempotent())
	})
}

func Test_Command_Validate(t *testing.T) {
	// act
	err := changecopystatus.BuildCommand(uuid.New(), uuid.New(), "SHREDDED", now).Validate()

	// assert
	assert.ErrorIs(t, err, circulation.ErrInvalid)
	assert.EqualError(t, err, "status must be one of AVAILABLE, BORROWED, MAINTENANCE, LOST")
}
