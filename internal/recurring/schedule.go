package recurring

import (
	"time"

	"github.com/404Simon/splitify-backend/internal/types"
)

// NextOccurrence returns the next occurrence of a schedule after the given
// date. It is pure and total: any date and supported frequency map to a
// date strictly after the input.
//
// Monthly schedules keep the day of month and clamp to the last valid day
// when the target month is shorter (Jan 31 -> Feb 28/29). Yearly schedules
// clamp Feb 29 to Feb 28 in non-leap target years. No other calendar
// irregularities are handled.
func NextOccurrence(date types.Date, frequency types.Frequency) types.Date {
	switch frequency {
	case types.FrequencyDaily:
		return date.AddDays(1)

	case types.FrequencyWeekly:
		return date.AddDays(7)

	case types.FrequencyMonthly:
		year, month := date.Year(), date.Month()
		if month == time.December {
			year++
			month = time.January
		} else {
			month++
		}

		return types.NewDate(year, month, clampDay(date.Day(), year, month))

	case types.FrequencyYearly:
		year := date.Year() + 1
		return types.NewDate(year, date.Month(), clampDay(date.Day(), year, date.Month()))
	}

	// Unknown frequencies never enter the schedule, templates are
	// validated on save
	return date.AddDays(1)
}

// clampDay limits a day of month to the last valid day of the target month.
func clampDay(day, year int, month time.Month) int {
	last := daysIn(year, month)
	if day > last {
		return last
	}

	return day
}

// daysIn returns the number of days in a month. Day zero of the next month
// is the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
