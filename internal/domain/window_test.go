package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow_RejectsReversedBounds(t *testing.T) {
	start := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewWindow(start, end)

	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestNewWindow_RejectsZeroBounds(t *testing.T) {
	_, err := NewWindow(time.Time{}, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestWindow_ContainsIsInclusive(t *testing.T) {
	w := MonthWindow(2026, time.June)

	assert.True(t, w.Contains(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2026, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWindow_Days(t *testing.T) {
	assert.Equal(t, 30, MonthWindow(2026, time.June).Days())
	assert.Equal(t, 28, MonthWindow(2026, time.February).Days())

	single, err := NewWindow(
		time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, single.Days())
}

func TestMonthWindow_CoversWholeMonth(t *testing.T) {
	w := MonthWindow(2026, time.February)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), w.End)
}
