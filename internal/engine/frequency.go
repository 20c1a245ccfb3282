package engine

import (
	"slices"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// IsDue reports whether a habit with the given frequency is scheduled on date.
//
// TIMES_PER_WEEK and TIMES_PER_MONTH habits are presentable every day; their
// quota is counted over the period by the aggregator rather than by
// restricting which days are due. A SPECIFIC_DAYS rule without days is never due.
func IsDue(freq models.HabitFrequency, date time.Time) bool {
	switch freq.Type {
	case models.FrequencyDaily:
		return true
	case models.FrequencySpecificDays:
		if len(freq.DaysOfWeek) == 0 {
			return false
		}
		return slices.Contains(freq.DaysOfWeek, utils.ISOWeekday(date))
	case models.FrequencyTimesPerWeek, models.FrequencyTimesPerMonth:
		return true
	default:
		return false
	}
}
