package engine

import (
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

func TestIsDue_Daily(t *testing.T) {
	freq := models.HabitFrequency{Type: models.FrequencyDaily}
	for i := 0; i < 14; i++ {
		d := day(1).AddDate(0, 0, i)
		if !IsDue(freq, d) {
			t.Errorf("daily habit should be due on %s", d.Format("2006-01-02 Mon"))
		}
	}
}

func TestIsDue_SpecificDays(t *testing.T) {
	freq := models.HabitFrequency{Type: models.FrequencySpecificDays, DaysOfWeek: []int{1, 3, 5}}

	want := map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   false,
		time.Wednesday: true,
		time.Thursday:  false,
		time.Friday:    true,
		time.Saturday:  false,
		time.Sunday:    false,
	}

	// Several weeks, spanning a month and a year boundary
	starts := []time.Time{day(2), time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)}
	for _, start := range starts {
		for i := 0; i < 21; i++ {
			d := start.AddDate(0, 0, i)
			if got := IsDue(freq, d); got != want[d.Weekday()] {
				t.Errorf("IsDue(%s) = %v, want %v", d.Format("2006-01-02 Mon"), got, want[d.Weekday()])
			}
		}
	}
}

func TestIsDue_SpecificDaysEmptyIsNeverDue(t *testing.T) {
	freq := models.HabitFrequency{Type: models.FrequencySpecificDays}
	for i := 0; i < 7; i++ {
		if IsDue(freq, day(2).AddDate(0, 0, i)) {
			t.Fatalf("specific-days rule without days must never be due")
		}
	}
}

func TestIsDue_TimesPerPeriodIsDueEveryDay(t *testing.T) {
	for _, ft := range []models.FrequencyType{models.FrequencyTimesPerWeek, models.FrequencyTimesPerMonth} {
		freq := models.HabitFrequency{Type: ft, TimesPerPeriod: intPtr(2)}
		for i := 0; i < 31; i++ {
			if !IsDue(freq, day(1).AddDate(0, 0, i)) {
				t.Errorf("%s habit should be due every day", ft)
			}
		}
	}
}

func TestIsDue_UnknownTypeIsNotDue(t *testing.T) {
	if IsDue(models.HabitFrequency{Type: "HOURLY"}, day(2)) {
		t.Error("unknown frequency type should not be due")
	}
	if IsDue(models.HabitFrequency{}, day(2)) {
		t.Error("zero frequency should not be due")
	}
}

func TestIsDue_Deterministic(t *testing.T) {
	freqs := []models.HabitFrequency{
		{Type: models.FrequencyDaily},
		{Type: models.FrequencySpecificDays, DaysOfWeek: []int{2, 7}},
		{Type: models.FrequencyTimesPerWeek, TimesPerPeriod: intPtr(3)},
	}
	for _, f := range freqs {
		for i := 0; i < 10; i++ {
			d := day(1).AddDate(0, 0, i)
			if IsDue(f, d) != IsDue(f, d) {
				t.Fatalf("IsDue is not deterministic for %+v on %s", f, d)
			}
		}
	}
}
