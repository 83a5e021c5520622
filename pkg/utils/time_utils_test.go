package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-01T10:30:00Z", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-01T10:30:00+02:00", time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), true},
		{"2024-03-01T10:30:00.123Z", time.Date(2024, 3, 1, 10, 30, 0, 123000000, time.UTC), true},
		{"03/01/2024", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDatePtr(t *testing.T) {
	got, err := ParseDatePtr(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	empty := ""
	got, err = ParseDatePtr(&empty)
	assert.NoError(t, err)
	assert.Nil(t, got)

	s := "2024-01-15"
	got, err = ParseDatePtr(&s)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Day())
}

func TestMonthBoundaries(t *testing.T) {
	now := time.Date(2024, 2, 17, 13, 45, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), MonthStart(now))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), NextMonthStart(now))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), MonthEnd(now), "leap year")
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), YearStart(now))

	dec := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), NextMonthStart(dec))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), MonthEnd(dec))
}
