package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	assert.Equal(t, start, r.Start())
	assert.Equal(t, end, r.End())

	_, err = NewDateRange(end, start)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// 同一天是合法区间
	_, err = NewDateRange(start, start)
	assert.NoError(t, err)
}

func TestDateRange_Days(t *testing.T) {
	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "同一天",
			start: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC),
			want:  1,
		},
		{
			name:  "整月",
			start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			want:  31,
		},
		{
			name:  "跨月",
			start: time.Date(2025, 1, 30, 23, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 2, 2, 1, 0, 0, 0, time.UTC),
			want:  4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewDateRange(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.Days())
		})
	}
}

func TestLastDays(t *testing.T) {
	r := LastDays(7)
	assert.True(t, r.Start().Before(r.End()))
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), r.End().Sub(r.Start()).Seconds(), 60)
}

func TestCurrentMonth(t *testing.T) {
	r := CurrentMonth()
	now := time.Now()
	assert.Equal(t, 1, r.Start().Day())
	assert.Equal(t, now.Month(), r.Start().Month())
	assert.Equal(t, now.Month(), r.End().Month())
}
