// Package schedule holds the pure time and money calculations behind the
// booking lifecycle: interval overlap, price, refund tiers and recurrence
// expansion. Everything here is deterministic and side-effect free.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

var msPerHour = decimal.NewFromInt(3_600_000)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back bookings where one ends exactly
// when the other starts do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Price computes the total charge for occupying a space at hourlyRate over
// [start, end). Partial hours are billed pro rata, rounded to 2 decimal
// places half-up.
func Price(hourlyRate decimal.Decimal, start, end time.Time) decimal.Decimal {
	if !end.After(start) {
		return decimal.Zero
	}
	ms := decimal.NewFromInt(end.Sub(start).Milliseconds())
	return hourlyRate.Mul(ms).Div(msPerHour).Round(2)
}

// Refund tier boundaries, measured from cancellation time to booking start.
const (
	fullRefundNotice = 24 * time.Hour
	halfRefundNotice = 12 * time.Hour
)

// RefundFraction returns the fraction of the paid amount refunded when a
// booking is cancelled at now: 1 with at least 24 hours notice, 0.5 with at
// least 12, otherwise 0. A booking already started refunds nothing.
func RefundFraction(now, bookingStart time.Time) decimal.Decimal {
	notice := bookingStart.Sub(now)
	switch {
	case notice >= fullRefundNotice:
		return decimal.NewFromInt(1)
	case notice >= halfRefundNotice:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}

// RefundAmount applies RefundFraction to a paid amount, rounded to 2 decimal
// places.
func RefundAmount(paid decimal.Decimal, now, bookingStart time.Time) decimal.Decimal {
	return paid.Mul(RefundFraction(now, bookingStart)).Round(2)
}

// Occurrence is one expanded instance of a recurrence rule.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ExpandRecurrence generates the sibling occurrences of a recurring booking.
// Starting the day after the first occurrence and walking day by day through
// until (inclusive), each date whose weekday is in daysOfWeek yields an
// occurrence at the same clock time and duration as the first. The first
// occurrence itself is not returned.
func ExpandRecurrence(firstStart, firstEnd time.Time, daysOfWeek []time.Weekday, until time.Time) []Occurrence {
	wanted := make(map[time.Weekday]bool, len(daysOfWeek))
	for _, d := range daysOfWeek {
		wanted[d] = true
	}

	duration := firstEnd.Sub(firstStart)
	var out []Occurrence
	for day := firstStart.AddDate(0, 0, 1); !dateAfter(day, until); day = day.AddDate(0, 0, 1) {
		if !wanted[day.Weekday()] {
			continue
		}
		out = append(out, Occurrence{Start: day, End: day.Add(duration)})
	}
	return out
}

// dateAfter reports whether t falls on a calendar day after limit, comparing
// dates only so a limit of midnight still includes that whole day.
func dateAfter(t, limit time.Time) bool {
	ty, tm, td := t.Date()
	ly, lm, ld := limit.Date()
	if ty != ly {
		return ty > ly
	}
	if tm != lm {
		return tm > lm
	}
	return td > ld
}
