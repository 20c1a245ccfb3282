package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// StartOfDay returns local midnight of the calendar day t falls on in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayMillis normalizes t to local midnight in loc and returns it as epoch millis.
func DayMillis(t time.Time, loc *time.Location) int64 {
	return StartOfDay(t, loc).UnixMilli()
}

// FromDayMillis converts stored epoch millis back into a local midnight.
func FromDayMillis(ms int64, loc *time.Location) time.Time {
	return StartOfDay(time.UnixMilli(ms), loc)
}

// PreviousDay returns local midnight of the day before t. Calendar arithmetic
// keeps the result on midnight across DST transitions.
func PreviousDay(t time.Time, loc *time.Location) time.Time {
	d := StartOfDay(t, loc)
	return time.Date(d.Year(), d.Month(), d.Day()-1, 0, 0, 0, 0, loc)
}

// ISOWeekday returns the day of week as 1 (Monday) through 7 (Sunday).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekBounds returns the Monday midnight starting the ISO week containing t and
// the Monday midnight after it.
func WeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	d := StartOfDay(t, loc)
	start := time.Date(d.Year(), d.Month(), d.Day()-(ISOWeekday(d)-1), 0, 0, 0, 0, loc)
	return start, time.Date(start.Year(), start.Month(), start.Day()+7, 0, 0, 0, 0, loc)
}

// MonthBounds returns midnight of the first day of t's month and of the next month.
func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	d := t.In(loc)
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", dateStr)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DateOrToday parses dateStr, falling back to today in loc when it is empty.
func DateOrToday(dateStr string, loc *time.Location) (time.Time, error) {
	if dateStr == "" {
		return StartOfDay(time.Now(), loc), nil
	}
	return ParseDateInLocation(dateStr, loc)
}
