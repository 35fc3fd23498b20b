package circulation

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultLoanPeriod is added to the borrow instant when checkout gets no explicit due date.
	DefaultLoanPeriod = 14 * 24 * time.Hour

	day = 24 * time.Hour
)

// DefaultDailyFineRate is 0.50 currency units per overdue day.
var DefaultDailyFineRate = decimal.New(50, -2)

// DaysOverdue returns the number of started days between due and at.
// Any fraction of a day counts as a full day; at == due is not overdue.
func DaysOverdue(due, at time.Time) int {
	late := at.Sub(due)
	if late <= 0 {
		return 0
	}

	days := late / day
	if late%day != 0 {
		days++
	}

	return int(days)
}

// OverdueFineAmount is daysOverdue x dailyRate, rounded to cents.
func OverdueFineAmount(daysOverdue int, dailyRate decimal.Decimal) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(daysOverdue))).Round(2)
}

// NormalizeTime converts t to UTC with the microsecond precision both engines persist.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
