package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local), got)
}

func TestParseDateLegacyForm(t *testing.T) {
	cases := map[string]time.Time{
		"2nd January,2026":  time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local),
		"21st March,2025":   time.Date(2025, 3, 21, 0, 0, 0, 0, time.Local),
		"3rd August, 2026":  time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local),
		"15th October,2024": time.Date(2024, 10, 15, 0, 0, 0, 0, time.Local),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "soon", "2026/03/09", "32nd January,2026"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2026-03-09"))
	assert.False(t, ValidDate("2nd January,2026"))
	assert.False(t, ValidDate("2026-13-01"))
}

func TestParseSlotLabel(t *testing.T) {
	start, end, err := ParseSlotLabel("9:00am - 10:00am")
	require.NoError(t, err)
	assert.Equal(t, 9*60, start)
	assert.Equal(t, 10*60, end)

	start, end, err = ParseSlotLabel("14:30-15:00")
	require.NoError(t, err)
	assert.Equal(t, 14*60+30, start)
	assert.Equal(t, 15*60, end)
}

func TestParseSlotLabelRejectsInvertedRange(t *testing.T) {
	_, _, err := ParseSlotLabel("10:00am - 9:00am")
	assert.Error(t, err)
}

func TestParseSlotLabelRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "morning", "9am", "9:00am"} {
		_, _, err := ParseSlotLabel(in)
		assert.Error(t, err, in)
	}
}

func TestSlotWindow(t *testing.T) {
	start, end, err := SlotWindow("2026-03-09", "9:00am - 10:00am")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 3, 9, 10, 0, 0, 0, time.Local), end)
}

func TestCountdown(t *testing.T) {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.Local)

	assert.Equal(t, "now", Countdown(now, now))
	assert.Equal(t, "now", Countdown(now, now.Add(-time.Hour)))
	assert.Equal(t, "in 30m", Countdown(now, now.Add(30*time.Minute)))
	assert.Equal(t, "in 2h 05m", Countdown(now, now.Add(2*time.Hour+5*time.Minute)))
	assert.Equal(t, "in 1 day", Countdown(now, now.Add(25*time.Hour)))
	assert.Equal(t, "in 3 days", Countdown(now, now.Add(72*time.Hour)))
}
