package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "[..........]"},
		{0.5, "[#####.....]"},
		{0.75, "[########..]"},
		{1, "[##########]"},
		{1.7, "[##########]"},
		{-1, "[..........]"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.in); got != tt.want {
			t.Errorf("ProgressBar(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFrequency(t *testing.T) {
	three := 3
	tests := []struct {
		name string
		freq models.HabitFrequency
		want string
	}{
		{"daily", models.HabitFrequency{Type: models.FrequencyDaily}, "daily"},
		{"specific days", models.HabitFrequency{Type: models.FrequencySpecificDays, DaysOfWeek: []int{1, 3, 5}}, "on Mon,Wed,Fri"},
		{"weekly quota", models.HabitFrequency{Type: models.FrequencyTimesPerWeek, TimesPerPeriod: &three}, "3× per week"},
		{"monthly quota", models.HabitFrequency{Type: models.FrequencyTimesPerMonth, TimesPerPeriod: &three}, "3× per month"},
		{"unknown", models.HabitFrequency{Type: "HOURLY"}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFrequency(tt.freq); got != tt.want {
				t.Errorf("FormatFrequency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	target := 4.0
	value := 2.5
	minutes := 20

	tests := []struct {
		name  string
		habit models.Habit
		rec   models.HabitTracking
		want  string
	}{
		{"binary", models.Habit{Type: models.HabitTypeBinary}, models.HabitTracking{IsCompleted: true}, ""},
		{"quantity", models.Habit{Type: models.HabitTypeQuantity, TargetValue: &target}, models.HabitTracking{Value: &value}, "2.5/4"},
		{"quantity empty", models.Habit{Type: models.HabitTypeQuantity, TargetValue: &target}, models.HabitTracking{}, "0/4"},
		{"time", models.Habit{Type: models.HabitTypeTime, TargetValue: &target}, models.HabitTracking{Duration: &minutes}, "20m/4m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.habit, tt.rec); got != tt.want {
				t.Errorf("FormatAmount() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatView(t *testing.T) {
	target := 4.0
	value := 2.0
	v := engine.HabitProgress{
		Habit:    models.Habit{Title: "Water", Type: models.HabitTypeQuantity, TargetValue: &target, CurrentStreak: 5, Status: models.HabitStatusPaused},
		Tracking: models.HabitTracking{Value: &value},
		Progress: 0.5,
	}
	got := FormatView(v)
	for _, want := range []string{"Water", "[#####.....]", "2/4", "5", "PAUSED"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatView() = %q, missing %q", got, want)
		}
	}
}

func TestContextDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	c := &Context{
		Now: func() time.Time { return time.Date(2025, 6, 4, 2, 0, 0, 0, time.UTC) },
		loc: loc,
	}

	today, err := c.Date("")
	if err != nil {
		t.Fatal(err)
	}
	// 02:00 UTC is still the 3rd in New York
	if got := today.Format("2006-01-02 15:04 MST"); got != "2025-06-03 00:00 EDT" {
		t.Errorf("Date(\"\") = %s", got)
	}

	d, err := c.Date("2025-01-15")
	if err != nil {
		t.Fatal(err)
	}
	if d.Location() != loc || d.Hour() != 0 || d.Day() != 15 {
		t.Errorf("Date(2025-01-15) = %v", d)
	}

	if _, err := c.Date("15/01/2025"); err == nil {
		t.Error("expected error for malformed date")
	}
}
