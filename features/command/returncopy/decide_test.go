package returncopy_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/returncopy"
)

var now = time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)

func givenState(dueDate time.Time) returncopy.State {
	ownerID := uuid.New()
	copyID := uuid.New()

	return returncopy.State{
		Borrowing: circulation.Borrowing{
			ID:         uuid.New(),
			OwnerID:    ownerID,
			MemberID:   uuid.New(),
			CopyID:     copyID,
			BorrowDate: dueDate.Add(-14 * 24 * time.Hour),
			DueDate:    dueDate,
			Status:     circulation.BorrowingActive,
		},
		BorrowingFound: true,
		Copy: circulation.BookCopy{
			ID:      copyID,
			OwnerID: ownerID,
			Status:  circulation.CopyBorrowed,
		},
	}
}

func Test_Decide_Lateness(t *testing.T) {
	testCases := []struct {
		name         string
		dueDate      time.Time
		expectedLate bool
		expectedDays int
	}{
		{"returned early", now.Add(48 * time.Hour), false, 0},
		{"returned exactly at the due date", now, false, 0},
		{"one second late counts as a day", now.Add(-time.Second), true, 1},
		{"seven days late", now.Add(-7 * 24 * time.Hour), true, 7},
		{"seven days and an hour late", now.Add(-7*24*time.Hour - time.Hour), true, 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			s := givenState(tc.dueDate)

			// act
			result := returncopy.Decide(s, returncopy.BuildCommand(s.Borrowing.OwnerID, s.Borrowing.ID, nil, now))

			// assert
			require.True(t, result.HasChangeToApply())
			assert.Equal(t, tc.expectedLate, result.Change.WasOverdue)
			assert.Equal(t, tc.expectedDays, result.Change.DaysOverdue)

			returned := result.Change.Borrowing
			assert.Equal(t, circulation.BorrowingReturned, returned.Status)
			require.NotNil(t, returned.ReturnDate)
			assert.Equal(t, now, *returned.ReturnDate)
			assert.Equal(t, s.Borrowing.DueDate, returned.DueDate)
			assert.Equal(t, circulation.CopyBorrowed, result.Change.CopyFrom)
			assert.Equal(t, circulation.CopyAvailable, result.Change.CopyTo)
		})
	}
}

func Test_Decide_DoesNotMutateLoadedState(t *testing.T) {
	// arrange
	s := givenState(now)

	// act
	returncopy.Decide(s, returncopy.BuildCommand(s.Borrowing.OwnerID, s.Borrowing.ID, nil, now))

	// assert
	assert.Equal(t, circulation.BorrowingActive, s.Borrowing.Status)
	assert.Nil(t, s.Borrowing.ReturnDate)
}

func Test_Decide_Rejections(t *testing.T) {
	testCases := []struct {
		name           string
		mutate         func(s *returncopy.State)
		expectedKind   circulation.ErrorKind
		expectedReason string
	}{
		{"borrowing missing", func(s *returncopy.State) { s.BorrowingFound = false }, circulation.KindNotFound, "borrowing not found"},
		{"already returned", func(s *returncopy.State) { s.Borrowing.Status = circulation.BorrowingReturned }, circulation.KindConflict, "already returned"},
		{"copy out of sync", func(s *returncopy.State) { s.Copy.Status = circulation.CopyAvailable }, circulation.KindConflict, "copy is currently AVAILABLE"},
		{"copy marked lost", func(s *returncopy.State) { s.Copy.Status = circulation.CopyLost }, circulation.KindConflict, "copy is currently LOST"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			s := givenState(now)
			tc.mutate(&s)

			// act
			result := returncopy.Decide(s, returncopy.BuildCommand(s.Borrowing.OwnerID, s.Borrowing.ID, nil, now))

			// assert
			err := result.HasError()
			require.Error(t, err)

			kind, _ := circulation.KindOf(err)
			assert.Equal(t, tc.expectedKind, kind)
			assert.Equal(t, tc.expectedReason, err.Error())
		})
	}
}

func Test_Command_Validate_RejectsEmptyCondition(t *testing.T) {
	// arrange
	empty := ""

	// act
	err := returncopy.BuildCommand(uuid.New(), uuid.New(), &empty, now).Validate()

	// assert
	assert.ErrorIs(t, err, circulation.ErrInvalid)
}
