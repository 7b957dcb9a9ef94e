package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	cairo, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name      string
		t         time.Time
		loc       *time.Location
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "utc midday",
			t:         time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC),
			loc:       time.UTC,
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "utc late evening is next day in cairo",
			t:         time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC),
			loc:       cairo,
			wantStart: time.Date(2025, 3, 11, 0, 0, 0, 0, cairo),
			wantEnd:   time.Date(2025, 3, 12, 0, 0, 0, 0, cairo),
		},
		{
			name:      "dst start day is 23 hours long",
			t:         time.Date(2025, 3, 9, 15, 0, 0, 0, ny),
			loc:       ny,
			wantStart: time.Date(2025, 3, 9, 0, 0, 0, 0, ny),
			wantEnd:   time.Date(2025, 3, 10, 0, 0, 0, 0, ny),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := DayBounds(tt.t, tt.loc)
			assert.True(t, tt.wantStart.Equal(start), "start: want %s got %s", tt.wantStart, start)
			assert.True(t, tt.wantEnd.Equal(end), "end: want %s got %s", tt.wantEnd, end)
		})
	}
}

func TestPreviousDay(t *testing.T) {
	start, end := PreviousDay(time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	start, end := Window(now, 30)
	assert.Equal(t, now, start)
	assert.Equal(t, time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC), end)
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("Africa/Cairo")
	require.NoError(t, err)
	assert.Equal(t, "Africa/Cairo", loc.String())

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}
