package utils

import (
	"fmt"
	"time"
)

const (
	// FreeWindowDays is the initial rental period during which no fee accrues.
	FreeWindowDays = 30

	// DaysPerBillingMonth is the length of one charged month. Billing months
	// are fixed 30-day blocks, not calendar months.
	DaysPerBillingMonth = 30
)

// DateOnly normalizes a timestamp to midnight UTC. All rental date arithmetic
// operates on day precision.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from one date to another.
// Both arguments are normalized to midnight UTC first.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// FreeWindowEnd returns the last free day of a rental that started on startDate.
func FreeWindowEnd(startDate time.Time) time.Time {
	return DateOnly(startDate).AddDate(0, 0, FreeWindowDays)
}

// MonthlyRateCents returns the per-month fee for a book, in cents.
// The rate is pages/100 currency units, which is exactly pages cents, so
// all fee arithmetic stays in integers.
func MonthlyRateCents(pages int32) int64 {
	return int64(pages)
}

// CalculateFeeCents computes the total rental fee in cents for a rental that
// started on startDate and effectively ends on effectiveEnd.
//
// The first 30 days are free. Past the free window, every started 30-day
// block is charged at the monthly rate. A rental ending exactly on a 30-day
// multiple past the free window is still charged the extra month: the policy
// always rounds up, minimum one charged month past the free window.
func CalculateFeeCents(startDate, effectiveEnd time.Time, pages int32) int64 {
	end := DateOnly(effectiveEnd)
	freeEnd := FreeWindowEnd(startDate)

	if !end.After(freeEnd) {
		return 0
	}

	extraDays := DaysBetween(freeEnd, end)
	monthsExtra := int64(extraDays/DaysPerBillingMonth) + 1
	return monthsExtra * MonthlyRateCents(pages)
}

// FormatCents renders a cent amount as a dollar string, e.g. 150 -> "$1.50".
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
