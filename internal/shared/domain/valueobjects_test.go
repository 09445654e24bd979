package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween_FloorsPartialDays(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 19, DaysBetween(base, base.AddDate(0, 0, 19)))
	assert.Equal(t, 1, DaysBetween(base, base.Add(36*time.Hour)))
	assert.Equal(t, -1, DaysBetween(base, base.Add(-12*time.Hour)))
	assert.Equal(t, 0, DaysBetween(base, base))
}

func TestDateRange(t *testing.T) {
	order := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expected := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	dr, err := NewDateRange(order, expected)
	require.NoError(t, err)
	assert.Equal(t, 14, dr.Days())
	assert.Equal(t, order, dr.Start())
	assert.Equal(t, expected, dr.End())

	_, err = NewDateRange(time.Time{}, expected)
	assert.Error(t, err)

	back, err := NewDateRange(expected, order)
	require.NoError(t, err)
	assert.Equal(t, -14, back.Days())
}

func TestQuarterAndMonthStart(t *testing.T) {
	assert.Equal(t, 1, Quarter(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, Quarter(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, Quarter(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))

	got := MonthStart(time.Date(2024, 5, 17, 13, 4, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestQuantity(t *testing.T) {
	_, err := NewQuantity(-1)
	assert.Error(t, err)

	received := MustNewQuantity(95)
	defects := MustNewQuantity(5)
	assert.InDelta(t, 5.0/95.0, received.Ratio(defects), 1e-12)
	assert.Equal(t, 0.0, MustNewQuantity(0).Ratio(defects))
	assert.True(t, received.Equal(MustNewQuantity(95)))
	assert.False(t, received.Equal(defects))
	assert.True(t, MustNewQuantity(0).IsZero())
}

func TestMoney(t *testing.T) {
	_, err := NewMoney(-1, "USD")
	assert.Error(t, err)
	_, err = NewMoney(10, "")
	assert.Error(t, err)

	m, err := ParseMoney("12.50", "USD")
	require.NoError(t, err)
	assert.Equal(t, 12.5, m.Amount())
	assert.Equal(t, "12.50 USD", m.String())

	_, err = ParseMoney("abc", "USD")
	assert.Error(t, err)
	_, err = ParseMoney("-3", "USD")
	assert.Error(t, err)
}
