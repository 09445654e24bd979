package domain

import (
	"errors"
	"math"
	"time"
)

const day = 24 * time.Hour

// DateRange is an immutable span between two instants, e.g. order date to delivery date.
// The end may precede the start; Days is then negative.
//
// Value object: no setters, compared by value.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a range from two instants. Both must be set.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, errors.New("date range bounds cannot be zero")
	}
	return DateRange{start: start, end: end}, nil
}

// Start returns the lower bound.
func (dr DateRange) Start() time.Time {
	return dr.start
}

// End returns the upper bound.
func (dr DateRange) End() time.Time {
	return dr.end
}

// Days returns the number of whole days from start to end, floored.
// 1.5 days gives 1 and -0.5 days gives -1.
func (dr DateRange) Days() int {
	return DaysBetween(dr.start, dr.end)
}

// DaysBetween returns floor((to - from) / 24h).
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	return int(math.Floor(float64(d) / float64(day)))
}

// MonthStart truncates t to the first instant of its month, keeping its location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Quarter returns the calendar quarter (1..4) of t.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}
