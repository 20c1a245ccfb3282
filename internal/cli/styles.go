package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	PendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	StreakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

const progressBarWidth = 10

// ProgressBar renders a fraction in [0, 1] as a fixed-width bar.
func ProgressBar(p float64) string {
	filled := int(p*progressBarWidth + 0.5)
	filled = min(max(filled, 0), progressBarWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", progressBarWidth-filled) + "]"
}

// Checkbox renders the completion mark used by today and log output.
func Checkbox(done, due bool) string {
	switch {
	case done:
		return DoneStyle.Render("[x]")
	case due:
		return PendingStyle.Render("[ ]")
	default:
		return MutedStyle.Render("[-]")
	}
}

// FormatFrequency renders a schedule rule for display.
func FormatFrequency(f models.HabitFrequency) string {
	switch f.Type {
	case models.FrequencyDaily:
		return "daily"
	case models.FrequencySpecificDays:
		return "on " + utils.FormatWeekdays(f.DaysOfWeek)
	case models.FrequencyTimesPerWeek, models.FrequencyTimesPerMonth:
		n := 0
		if f.TimesPerPeriod != nil {
			n = *f.TimesPerPeriod
		}
		return fmt.Sprintf("%d× per %s", n, strings.ToLower(string(f.Period())))
	default:
		return "unknown"
	}
}

// FormatAmount renders the day's measured value against the habit's target.
func FormatAmount(h models.Habit, t models.HabitTracking) string {
	target := 0.0
	if h.TargetValue != nil {
		target = *h.TargetValue
	}
	switch h.Type {
	case models.HabitTypeQuantity:
		v := 0.0
		if t.Value != nil {
			v = *t.Value
		}
		return fmt.Sprintf("%g/%g", v, target)
	case models.HabitTypeTime:
		d := 0
		if t.Duration != nil {
			d = *t.Duration
		}
		return fmt.Sprintf("%dm/%gm", d, target)
	default:
		return ""
	}
}

// FormatView renders one line of the daily overview.
func FormatView(v engine.HabitProgress) string {
	var b strings.Builder
	b.WriteString(Checkbox(v.Tracking.IsCompleted, v.IsDue))
	b.WriteString(" ")
	b.WriteString(v.Habit.Title)

	if amount := FormatAmount(v.Habit, v.Tracking); amount != "" {
		b.WriteString(" ")
		b.WriteString(ProgressBar(v.Progress))
		b.WriteString(" ")
		b.WriteString(amount)
	}
	if v.PeriodTarget > 0 {
		b.WriteString(MutedStyle.Render(fmt.Sprintf(" (%d/%d this %s)",
			v.PeriodCompletions, v.PeriodTarget, strings.ToLower(string(v.Frequency.Period())))))
	}
	if v.Habit.CurrentStreak > 0 {
		b.WriteString(" ")
		b.WriteString(StreakStyle.Render(fmt.Sprintf("🔥%d", v.Habit.CurrentStreak)))
	}
	if v.Habit.Status != models.HabitStatusActive {
		b.WriteString(MutedStyle.Render(" [" + string(v.Habit.Status) + "]"))
	}
	return b.String()
}
