package utils

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]int{
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
	"sun": 7, "sunday": 7,
}

// NormalizeDays returns the canonical form of a days-of-week set: sorted,
// de-duplicated, every value in 1..7.
func NormalizeDays(days []int) ([]int, error) {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("day of week %d out of range 1-7", d)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out, nil
}

// EncodeDays renders days in the canonical storage encoding, a JSON array.
// An empty set encodes as "".
func EncodeDays(days []int) (string, error) {
	norm, err := NormalizeDays(days)
	if err != nil {
		return "", err
	}
	if len(norm) == 0 {
		return "", nil
	}
	b, err := json.Marshal(norm)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeDays parses a stored days-of-week column. Besides the canonical JSON
// array it accepts the legacy comma-separated form ("1,3,5").
func DecodeDays(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" || raw == "null" {
		return nil, nil
	}

	var days []int
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &days); err != nil {
			return nil, fmt.Errorf("invalid days-of-week %q: %w", raw, err)
		}
	} else {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid days-of-week %q: %w", raw, err)
			}
			days = append(days, n)
		}
	}
	return NormalizeDays(days)
}

// IsCanonicalDays reports whether raw is already in the canonical encoding.
func IsCanonicalDays(raw string) bool {
	days, err := DecodeDays(raw)
	if err != nil {
		return false
	}
	enc, err := EncodeDays(days)
	return err == nil && enc == strings.TrimSpace(raw)
}

// ParseWeekdays parses a user-supplied comma-separated list of weekday names
// or ISO numbers (1=Monday .. 7=Sunday).
func ParseWeekdays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if d, ok := weekdayNames[part]; ok {
			days = append(days, d)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 1 || num > 7 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return NormalizeDays(days)
}

// FormatWeekdays renders ISO weekdays as short English names ("Mon,Wed").
func FormatWeekdays(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d < 1 || d > 7 {
			continue
		}
		names = append(names, time.Weekday(d%7).String()[:3])
	}
	return strings.Join(names, ",")
}
