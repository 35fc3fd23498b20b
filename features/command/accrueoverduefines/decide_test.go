package accrueoverduefines_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/accrueoverduefines"
)

const day = 24 * time.Hour

var (
	now       = time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)
	dailyRate = decimal.RequireFromString("0.50")
)

func overdueState(daysOverdue int, fines ...circulation.Fine) accrueoverduefines.State {
	borrowingID := uuid.New()
	ownerID := uuid.New()

	for i := range fines {
		fines[i].BorrowingID = borrowingID
		fines[i].OwnerID = ownerID
	}

	return accrueoverduefines.State{
		Borrowing: circulation.Borrowing{
			ID:         borrowingID,
			OwnerID:    ownerID,
			BorrowDate: now.Add(-time.Duration(daysOverdue+14) * day),
			DueDate:    now.Add(-time.Duration(daysOverdue) * day),
			Status:     circulation.BorrowingActive,
		},
		BorrowingFound: true,
		Fines:          fines,
	}
}

func fine(reason circulation.FineReason, status circulation.FineStatus, amount string) circulation.Fine {
	return circulation.Fine{
		ID:     uuid.New(),
		Amount: decimal.RequireFromString(amount),
		Reason: reason,
		Status: status,
	}
}

func Test_IsEligible(t *testing.T) {
	testCases := []struct {
		name     string
		state    func() accrueoverduefines.State
		expected bool
	}{
		{"overdue without fines", func() accrueoverduefines.State { return overdueState(3) }, true},
		{
			"overdue with a pending overdue fine",
			func() accrueoverduefines.State {
				return overdueState(3, fine(circulation.FineOverdue, circulation.FinePending, "1.00"))
			},
			true,
		},
		{
			"overdue with only a damage fine",
			func() accrueoverduefines.State {
				return overdueState(3, fine(circulation.FineDamage, circulation.FinePaid, "20.00"))
			},
			true,
		},
		{
			"overdue fine already paid",
			func() accrueoverduefines.State {
				return overdueState(3, fine(circulation.FineOverdue, circulation.FinePaid, "1.00"))
			},
			false,
		},
		{
			"overdue fine already waived",
			func() accrueoverduefines.State {
				return overdueState(3, fine(circulation.FineOverdue, circulation.FineWaived, "1.00"))
			},
			false,
		},
		{
			"returned meanwhile",
			func() accrueoverduefines.State {
				s := overdueState(3)
				s.Borrowing.Status = circulation.BorrowingReturned
				return s
			},
			false,
		},
		{
			"gone meanwhile",
			func() accrueoverduefines.State {
				s := overdueState(3)
				s.BorrowingFound = false
				return s
			},
			false,
		},
		{"due exactly now", func() accrueoverduefines.State { return overdueState(0) }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			eligible := accrueoverduefines.IsEligible(tc.state(), now)

			// assert
			assert.Equal(t, tc.expected, eligible)
		})
	}
}

func Test_Decide_CreatesPendingOverdueFine(t *testing.T) {
	// arrange
	s := overdueState(3)

	// act
	result := accrueoverduefines.Decide(s, accrueoverduefines.BuildCommand(s.Borrowing.OwnerID, now, dailyRate))

	// assert
	require.True(t, result.HasChangeToApply())
	require.NotNil(t, result.Change.NewFine)
	assert.Nil(t, result.Change.UpdatedFine)

	created := result.Change.NewFine
	assert.Equal(t, "1.50", created.Amount.StringFixed(2))
	assert.Equal(t, circulation.FineOverdue, created.Reason)
	assert.Equal(t, circulation.FinePending, created.Status)
	assert.Equal(t, s.Borrowing.ID, created.BorrowingID)
	assert.Nil(t, created.PaidAt)
}

func Test_Decide_UpdatesPendingOverdueFine(t *testing.T) {
	// arrange
	pending := fine(circulation.FineOverdue, circulation.FinePending, "1.50")
	s := overdueState(5, pending)

	// act
	result := accrueoverduefines.Decide(s, accrueoverduefines.BuildCommand(s.Borrowing.OwnerID, now, dailyRate))

	// assert
	require.True(t, result.HasChangeToApply())
	require.NotNil(t, result.Change.UpdatedFine)
	assert.Nil(t, result.Change.NewFine)
	assert.Equal(t, pending.ID, result.Change.UpdatedFine.ID)
	assert.Equal(t, "2.50", result.Change.UpdatedFine.Amount.StringFixed(2))
}

func Test_Decide_UnchangedAmountIsIdempotent(t *testing.T) {
	// arrange
	s := overdueState(3, fine(circulation.FineOverdue, circulation.FinePending, "1.5"))

	// act
	result := accrueoverduefines.Decide(s, accrueoverduefines.BuildCommand(s.Borrowing.OwnerID, now, dailyRate))

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_Decide_PartialDayCountsAsFullDay(t *testing.T) {
	// arrange
	s := overdueState(2)
	s.Borrowing.DueDate = s.Borrowing.DueDate.Add(-time.Minute)

	// act
	result := accrueoverduefines.Decide(s, accrueoverduefines.BuildCommand(s.Borrowing.OwnerID, now, dailyRate))

	// assert
	require.NotNil(t, result.Change.NewFine)
	assert.Equal(t, "1.50", result.Change.NewFine.Amount.StringFixed(2))
}

func Test_Command_Validate_RejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []string{"0", "-0.50"} {
		t.Run(rate, func(t *testing.T) {
			// act
			err := accrueoverduefines.BuildCommand(uuid.Nil, now, decimal.RequireFromString(rate)).Validate()

			// assert
			assert.ErrorIs(t, err, circulation.ErrInvalid)
			assert.EqualError(t, err, "dailyRate must be greater than 0")
		})
	}
}
