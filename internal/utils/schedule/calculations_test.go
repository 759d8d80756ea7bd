package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func at(day int, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{"identical intervals", at(10, 9), at(10, 11), at(10, 9), at(10, 11), true},
		{"partial overlap", at(10, 9), at(10, 11), at(10, 10), at(10, 12), true},
		{"contained interval", at(10, 9), at(10, 17), at(10, 12), at(10, 13), true},
		{"back to back, earlier first", at(10, 9), at(10, 11), at(10, 11), at(10, 13), false},
		{"back to back, later first", at(10, 11), at(10, 13), at(10, 9), at(10, 11), false},
		{"disjoint days", at(10, 9), at(10, 11), at(11, 9), at(11, 11), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tc.expected, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestPrice(t *testing.T) {
	testCases := []struct {
		name     string
		rate     string
		start    time.Time
		end      time.Time
		expected string
	}{
		{"two full hours", "5000", at(10, 9), at(10, 11), "10000"},
		{"single hour", "25.50", at(10, 9), at(10, 10), "25.5"},
		{"ninety minutes pro rata", "10", at(10, 9), at(10, 9).Add(90 * time.Minute), "15"},
		{"fifteen minutes", "10", at(10, 9), at(10, 9).Add(15 * time.Minute), "2.5"},
		{"rounds to cents", "9.99", at(10, 9), at(10, 9).Add(100 * time.Minute), "16.65"},
		{"zero duration", "5000", at(10, 9), at(10, 9), "0"},
		{"inverted interval", "5000", at(10, 11), at(10, 9), "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate := decimal.RequireFromString(tc.rate)
			got := Price(rate, tc.start, tc.end)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)),
				"expected %s, got %s", tc.expected, got.String())
		})
	}
}

func TestRefundFraction(t *testing.T) {
	start := at(10, 12)

	testCases := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{"48 hours notice", start.Add(-48 * time.Hour), "1"},
		{"exactly 24 hours notice", start.Add(-24 * time.Hour), "1"},
		{"18 hours notice", start.Add(-18 * time.Hour), "0.5"},
		{"exactly 12 hours notice", start.Add(-12 * time.Hour), "0.5"},
		{"2 hours notice", start.Add(-2 * time.Hour), "0"},
		{"already started", start.Add(30 * time.Minute), "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := RefundFraction(tc.now, start)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)),
				"expected %s, got %s", tc.expected, got.String())
		})
	}
}

func TestRefundAmount(t *testing.T) {
	paid := decimal.RequireFromString("10000")
	start := at(10, 12)

	assert.True(t, RefundAmount(paid, start.Add(-30*time.Hour), start).Equal(decimal.RequireFromString("10000")))
	assert.True(t, RefundAmount(paid, start.Add(-15*time.Hour), start).Equal(decimal.RequireFromString("5000")))
	assert.True(t, RefundAmount(paid, start.Add(-1*time.Hour), start).IsZero())

	// Half refunds round to cents.
	odd := decimal.RequireFromString("33.33")
	assert.True(t, RefundAmount(odd, start.Add(-15*time.Hour), start).Equal(decimal.RequireFromString("16.67")))
}

func TestExpandRecurrence(t *testing.T) {
	// First occurrence Monday 2024-01-01 09:00-11:00, repeating Mon/Wed
	// through the end of January.
	firstStart := at(1, 9)
	firstEnd := at(1, 11)
	until := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	got := ExpandRecurrence(firstStart, firstEnd, []time.Weekday{time.Monday, time.Wednesday}, until)

	wantDays := []int{3, 8, 10, 15, 17, 22, 24, 29, 31}
	assert.Len(t, got, len(wantDays))
	for i, day := range wantDays {
		assert.Equal(t, at(day, 9), got[i].Start)
		assert.Equal(t, at(day, 11), got[i].End)
	}
}

func TestExpandRecurrenceEdges(t *testing.T) {
	t.Run("no matching weekdays", func(t *testing.T) {
		got := ExpandRecurrence(at(1, 9), at(1, 11), nil, at(31, 0))
		assert.Empty(t, got)
	})

	t.Run("until before first occurrence", func(t *testing.T) {
		got := ExpandRecurrence(at(10, 9), at(10, 11), []time.Weekday{time.Monday}, at(5, 0))
		assert.Empty(t, got)
	})

	t.Run("first occurrence weekday not repeated on its own day", func(t *testing.T) {
		// A Monday booking repeating on Mondays starts its siblings the
		// following week, not the same day.
		got := ExpandRecurrence(at(1, 9), at(1, 11), []time.Weekday{time.Monday}, at(15, 0))
		assert.Len(t, got, 2)
		assert.Equal(t, at(8, 9), got[0].Start)
		assert.Equal(t, at(15, 9), got[1].Start)
	})

	t.Run("duration carries through", func(t *testing.T) {
		got := ExpandRecurrence(at(1, 9), at(1, 9).Add(90*time.Minute), []time.Weekday{time.Wednesday}, at(3, 0))
		assert.Len(t, got, 1)
		assert.Equal(t, 90*time.Minute, got[0].End.Sub(got[0].Start))
	})
}
