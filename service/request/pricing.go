package request

import (
	"math"
	"time"
)

// DateOnly truncates a timestamp to UTC midnight. All date comparisons in the
// request engine happen on truncated dates so time-of-day never affects cost.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DurationDays returns the rental length in whole calendar days, rounding any
// partial day up. Both bounds are truncated to UTC midnight first.
func DurationDays(start, end time.Time) int {
	diff := DateOnly(end).Sub(DateOnly(start))
	return int(math.Ceil(diff.Hours() / 24))
}

// TotalCost prices a rental at days x pricePerDay, kept to two decimals.
func TotalCost(days int, pricePerDay float64) float64 {
	return math.Round(float64(days)*pricePerDay*100) / 100
}
