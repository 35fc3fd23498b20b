package removebook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/removebook"
)

func Test_Decide(t *testing.T) {
	testCases := map[string]struct {
		state    removebook.State
		expected error
		copies   int
	}{
		"unknown book":        {removebook.State{}, circulation.ErrNotFound, 0},
		"copy on loan":        {removebook.State{BookFound: true, Copies: 2, ActiveBorrowings: 1}, circulation.ErrConflict, 0},
		"nothing on loan":     {removebook.State{BookFound: true, Copies: 2}, nil, 2},
		"book without copies": {removebook.State{BookFound: true}, nil, 0},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			// act
			result := removebook.Decide(tc.state)

			// assert
			if tc.expected != nil {
				assert.ErrorIs(t, result.HasError(), tc.expected)
				return
			}

			assert.True(t, result.HasChangeToApply())
			assert.Equal(t, tc.copies, result.Change.RemovedCopies)
		})
	}
}
