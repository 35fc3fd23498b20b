package waivefine_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/waivefine"
)

func Test_Decide_WaivesPendingFine(t *testing.T) {
	// arrange
	s := waivefine.State{Fine: circulation.Fine{ID: uuid.New(), Status: circulation.FinePending}, FineFound: true}
	now := time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)

	// act
	result := waivefine.Decide(s, waivefine.BuildCommand(uuid.New(), s.Fine.ID, now))

	// assert
	require.True(t, result.HasChangeToApply())
	assert.Equal(t, circulation.FineWaived, result.Change.Fine.Status)
	assert.Nil(t, result.Change.Fine.PaidAt)
}

func Test_Decide_Rejections(t *testing.T) {
	testCases := map[string]struct {
		state    waivefine.State
		expected string
	}{
		"missing": {waivefine.State{}, "fine not found"},
		"paid":    {waivefine.State{Fine: circulation.Fine{Status: circulation.FinePaid}, FineFound: true}, "already paid"},
		"waived":  {waivefine.State{Fine: circulation.Fine{Status: circulation.FineWaived}, FineFound: true}, "already waived"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			// act
			result := waivefine.Decide(tc.state, waivefine.BuildCommand(uuid.New(), uuid.New(), time.Now()))

			// assert
			assert.EqualError(t, result.HasError(), tc.expected)
		})
	}
}
