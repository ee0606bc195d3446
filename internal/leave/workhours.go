package leave

import (
	"math"
	"time"

	leaveerrors "github.com/yhnjiuy4321/BankSystem/internal/leave/errors"
)

// The working day runs 08:00 to 17:00 with a 12:00 to 13:00 lunch break,
// giving 8 countable hours. Saturdays and Sundays never count.
const (
	workStartHour  = 8
	workEndHour    = 17
	lunchStartHour = 12
	lunchEndHour   = 13

	// HoursPerDay is one full working day.
	HoursPerDay = 8.0

	// AnnualEntitlementHours is the yearly annual leave pool, 14 days.
	AnnualEntitlementHours = 14 * HoursPerDay

	// MinRequestHours is the smallest bookable slice.
	MinRequestHours = 0.5

	// MaxRequestHours caps a single request at 14 working days.
	MaxRequestHours = 14 * HoursPerDay
)

// WithinWorkHours reports whether t falls on a weekday between 08:00
// and 17:00 inclusive.
func WithinWorkHours(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= workStartHour*60 && minutes <= workEndHour*60
}

// BusinessHours counts working hours between start and end, excluding
// weekends and the lunch break, rounded to 0.1h. Both endpoints must sit
// inside the working day and the result must fall between MinRequestHours
// and MaxRequestHours.
func BusinessHours(start, end time.Time) (float64, error) {
	if !end.After(start) {
		return 0, leaveerrors.ErrInvalidPeriod
	}
	if !WithinWorkHours(start) || !WithinWorkHours(end) {
		return 0, leaveerrors.ErrOutsideWorkHours
	}

	total := 0.0
	for day := startOfDay(start); day.Before(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		workStart := day.Add(workStartHour * time.Hour)
		workEnd := day.Add(workEndHour * time.Hour)
		total += overlapHours(start, end, workStart, workEnd)

		lunchStart := day.Add(lunchStartHour * time.Hour)
		lunchEnd := day.Add(lunchEndHour * time.Hour)
		total -= overlapHours(start, end, lunchStart, lunchEnd)
	}

	rounded := math.Round(total*10) / 10
	if rounded <= 0 {
		return 0, leaveerrors.ErrOutsideWorkHours
	}
	if rounded < MinRequestHours {
		return 0, leaveerrors.ErrPeriodTooShort
	}
	if rounded > MaxRequestHours {
		return 0, leaveerrors.ErrPeriodTooLong
	}
	return rounded, nil
}

func overlapHours(aStart, aEnd, bStart, bEnd time.Time) float64 {
	from := aStart
	if bStart.After(from) {
		from = bStart
	}
	to := aEnd
	if bEnd.Before(to) {
		to = bEnd
	}
	if !to.After(from) {
		return 0
	}
	return to.Sub(from).Hours()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
