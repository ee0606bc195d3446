package leave_test

import (
	"testing"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/leave"
	leaveerrors "github.com/yhnjiuy4321/BankSystem/internal/leave/errors"

	"github.com/stretchr/testify/assert"
)

// 2026-03-02 is a Monday.
func day(dayOfMonth, hour, minute int) time.Time {
	return time.Date(2026, 3, dayOfMonth, hour, minute, 0, 0, time.UTC)
}

func TestBusinessHours(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"morning slot", day(2, 9, 0), day(2, 11, 0), 2.0},
		{"full day excludes lunch", day(2, 8, 0), day(2, 17, 0), 8.0},
		{"spanning lunch", day(2, 11, 0), day(2, 14, 0), 2.0},
		{"three full days", day(2, 8, 0), day(4, 17, 0), 24.0},
		{"across a weekend", day(6, 13, 0), day(9, 12, 0), 8.0},
		{"half hour minimum exactly met", day(2, 9, 0), day(2, 9, 30), 0.5},
		{"fourteen working days exactly met", day(2, 8, 0), day(19, 17, 0), 112.0},
		{"ninety minutes", day(2, 9, 0), day(2, 10, 30), 1.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := leave.BusinessHours(tc.start, tc.end)
			assert.NoError(t, err)
			assert.InDelta(t, tc.want, got, 0.001)
		})
	}

	t.Run("negative end before start", func(t *testing.T) {
		_, err := leave.BusinessHours(day(3, 10, 0), day(2, 10, 0))
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidPeriod)
	})

	t.Run("negative weekend only", func(t *testing.T) {
		_, err := leave.BusinessHours(day(7, 8, 0), day(8, 17, 0))
		assert.ErrorIs(t, err, leaveerrors.ErrOutsideWorkHours)
	})

	t.Run("negative lunch only", func(t *testing.T) {
		_, err := leave.BusinessHours(day(2, 12, 0), day(2, 13, 0))
		assert.ErrorIs(t, err, leaveerrors.ErrOutsideWorkHours)
	})

	t.Run("negative outside office hours", func(t *testing.T) {
		_, err := leave.BusinessHours(day(2, 18, 0), day(2, 20, 0))
		assert.ErrorIs(t, err, leaveerrors.ErrOutsideWorkHours)
	})

	t.Run("negative starts before the working day", func(t *testing.T) {
		_, err := leave.BusinessHours(day(2, 6, 0), day(2, 9, 0))
		assert.ErrorIs(t, err, leaveerrors.ErrOutsideWorkHours)
	})

	t.Run("negative ends after the working day", func(t *testing.T) {
		_, err := leave.BusinessHours(day(2, 16, 0), day(2, 20, 0))
		assert.ErrorIs(t, err, leaveerrors.ErrOutsideWorkHours)
	})

	t.Run("negative under the half hour floor", func(t *testing.T) {
		_, err := leave.BusinessHours(day(2, 9, 0), day(2, 9, 5))
		assert.ErrorIs(t, err, leaveerrors.ErrPeriodTooShort)
	})

	t.Run("negative four week request over the cap", func(t *testing.T) {
		_, err := leave.BusinessHours(day(2, 8, 0), day(27, 17, 0))
		assert.ErrorIs(t, err, leaveerrors.ErrPeriodTooLong)
	})
}

func TestWithinWorkHours(t *testing.T) {
	assert.True(t, leave.WithinWorkHours(day(2, 8, 0)))
	assert.True(t, leave.WithinWorkHours(day(2, 17, 0)))
	assert.False(t, leave.WithinWorkHours(day(2, 7, 59)))
	assert.False(t, leave.WithinWorkHours(day(2, 17, 1)))
	assert.False(t, leave.WithinWorkHours(day(7, 10, 0)))
}
