package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitkit/internal/cli"
	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit with its schedule and streaks."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	Freq    HabitFreqCmd    `cmd:"" help:"Change a habit's schedule."`
	Pause   HabitPauseCmd   `cmd:"" help:"Pause a habit."`
	Resume  HabitResumeCmd  `cmd:"" help:"Resume a paused or archived habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its history."`
}

// FrequencyFlags describe a schedule rule on the command line.
type FrequencyFlags struct {
	Freq  string `help:"Schedule: daily, days, weekly or monthly." enum:"daily,days,weekly,monthly" default:"daily"`
	Days  string `help:"Weekdays for --freq=days, e.g. mon,wed,fri or 1,3,5."`
	Times int    `help:"Completions per period for --freq=weekly or --freq=monthly."`
}

// Build turns the flags into a validated frequency for habitID.
func (f FrequencyFlags) Build(habitID string) (models.HabitFrequency, error) {
	freq := models.HabitFrequency{
		ID:      uuid.New().String(),
		HabitID: habitID,
	}

	switch f.Freq {
	case "daily", "":
		freq.Type = models.FrequencyDaily
	case "days":
		days, err := utils.ParseWeekdays(f.Days)
		if err != nil {
			return models.HabitFrequency{}, err
		}
		freq.Type = models.FrequencySpecificDays
		freq.DaysOfWeek = days
	case "weekly", "monthly":
		freq.Type = models.FrequencyTimesPerWeek
		if f.Freq == "monthly" {
			freq.Type = models.FrequencyTimesPerMonth
		}
		times := f.Times
		freq.TimesPerPeriod = &times
		period := freq.Period()
		freq.PeriodType = &period
	default:
		return models.HabitFrequency{}, fmt.Errorf("unknown frequency %q", f.Freq)
	}

	if f.Days != "" && freq.Type != models.FrequencySpecificDays {
		return models.HabitFrequency{}, errors.New("--days only applies to --freq=days")
	}
	if f.Times != 0 && freq.Period() == "" {
		return models.HabitFrequency{}, errors.New("--times only applies to --freq=weekly or --freq=monthly")
	}
	if err := freq.Validate(); err != nil {
		return models.HabitFrequency{}, err
	}
	return freq, nil
}

type HabitAddCmd struct {
	Title       string  `arg:"" help:"Habit title."`
	Type        string  `help:"How progress is measured: binary, quantity or time (minutes)." enum:"binary,quantity,time" default:"binary"`
	Target      float64 `help:"Daily target for quantity and time habits."`
	Description string  `help:"Optional description."`
	Category    string  `help:"Optional category ID."`

	FrequencyFlags `embed:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	// Check if habit with same title already exists
	_, err := ctx.Store.GetHabitByTitle(ctx.Ctx, c.Title)
	if err == nil {
		return fmt.Errorf("habit with title %q already exists", c.Title)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	now := time.Now()
	habit := models.Habit{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Type:        models.HabitType(strings.ToUpper(c.Type)),
		Status:      models.HabitStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if habit.Type.NeedsTarget() {
		target := c.Target
		habit.TargetValue = &target
	} else if c.Target != 0 {
		return errors.New("--target only applies to quantity and time habits")
	}
	if c.Category != "" {
		category := c.Category
		habit.CategoryID = &category
	}
	if err := habit.Validate(); err != nil {
		return err
	}

	freq, err := c.FrequencyFlags.Build(habit.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.CreateHabit(ctx.Ctx, habit, freq); err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", habit.Title, cli.FormatFrequency(freq))
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.Ctx, c.Archived)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		freq, err := ctx.Store.GetFrequencyForHabit(ctx.Ctx, habit.ID)
		if err != nil {
			return err
		}
		status := ""
		if habit.Status != models.HabitStatusActive {
			status = cli.MutedStyle.Render(" [" + string(habit.Status) + "]")
		}
		ctx.Printf("%s  %s  %s%s\n",
			habit.Title,
			cli.MutedStyle.Render(strings.ToLower(string(habit.Type))+", "+cli.FormatFrequency(freq)),
			cli.StreakStyle.Render(fmt.Sprintf("%d/%d", habit.CurrentStreak, habit.BestStreak)),
			status,
		)
	}

	return nil
}

type HabitShowCmd struct {
	Title string `arg:"" help:"Habit title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habit(c.Title)
	if err != nil {
		return err
	}
	date, err := ctx.Date(c.Date)
	if err != nil {
		return err
	}

	view, err := ctx.Aggregator().ForHabit(ctx.Ctx, habit.ID, date)
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render(habit.Title))
	if habit.Description != "" {
		ctx.Println(habit.Description)
	}
	ctx.Printf("Type:     %s\n", habit.Type)
	if habit.TargetValue != nil {
		ctx.Printf("Target:   %g\n", *habit.TargetValue)
	}
	ctx.Printf("Schedule: %s\n", cli.FormatFrequency(view.Frequency))
	ctx.Printf("Status:   %s\n", habit.Status)
	ctx.Printf("Streak:   %d (best %d)\n", habit.CurrentStreak, habit.BestStreak)
	ctx.Printf("\n%s\n", date.Format("Mon 2006-01-02"))
	ctx.Println(cli.FormatView(view))
	if view.Tracking.Notes != "" {
		ctx.Println(cli.MutedStyle.Render("  " + view.Tracking.Notes))
	}
	return nil
}

type HabitEditCmd struct {
	Title       string  `arg:"" help:"Habit title."`
	Rename      string  `help:"New title."`
	Description string  `help:"New description."`
	Target      float64 `help:"New daily target for quantity and time habits."`
	Category    string  `help:"New category ID."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habit(c.Title)
	if err != nil {
		return err
	}

	changed := false
	retarget := false
	rename := strings.TrimSpace(c.Rename)
	if rename != "" && rename != habit.Title {
		if _, err := ctx.Store.GetHabitByTitle(ctx.Ctx, rename); err == nil {
			return fmt.Errorf("habit with title %q already exists", rename)
		}
		habit.Title = rename
		changed = true
	}
	if c.Description != "" {
		habit.Description = c.Description
		changed = true
	}
	if c.Target != 0 {
		if !habit.Type.NeedsTarget() {
			return errors.New("--target only applies to quantity and time habits")
		}
		target := c.Target
		retarget = habit.TargetValue == nil || *habit.TargetValue != target
		habit.TargetValue = &target
		changed = true
	}
	if c.Category != "" {
		category := c.Category
		habit.CategoryID = &category
		changed = true
	}

	if !changed {
		ctx.Println("Nothing to change.")
		return nil
	}
	if err := habit.Validate(); err != nil {
		return err
	}

	habit.UpdatedAt = time.Now()
	if err := ctx.Store.UpdateHabit(ctx.Ctx, habit); err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s\n", habit.Title)

	if retarget {
		// Completion of past days follows the new target
		today, err := ctx.Date("")
		if err != nil {
			return err
		}
		res, n, err := ctx.Engine.ReapplyTarget(ctx.Ctx, habit.ID, today)
		if err != nil {
			return err
		}
		ctx.Printf("Re-evaluated %d day(s) against the new target (streak %d, best %d)\n", n, res.Current, res.Best)
	}
	return nil
}

type HabitFreqCmd struct {
	Title string `arg:"" help:"Habit title."`

	FrequencyFlags `embed:""`
}

func (c *HabitFreqCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habit(c.Title)
	if err != nil {
		return err
	}

	freq, err := c.FrequencyFlags.Build(habit.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.ReplaceFrequency(ctx.Ctx, freq); err != nil {
		return err
	}

	// Which days count toward the run changed with the schedule
	today, err := ctx.Date("")
	if err != nil {
		return err
	}
	res, err := ctx.Engine.RecomputeStreak(ctx.Ctx, habit.ID, today)
	if err != nil {
		return err
	}

	ctx.Printf("Schedule for %s is now %s (streak %d, best %d)\n",
		habit.Title, cli.FormatFrequency(freq), res.Current, res.Best)
	return nil
}

type HabitPauseCmd struct {
	Title string `arg:"" help:"Habit title."`
}

func (c *HabitPauseCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.Title, models.HabitStatusPaused)
}

type HabitResumeCmd struct {
	Title string `arg:"" help:"Habit title."`
}

func (c *HabitResumeCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.Title, models.HabitStatusActive)
}

type HabitArchiveCmd struct {
	Title string `arg:"" help:"Habit title."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.Title, models.HabitStatusArchived)
}

func setStatus(ctx *cli.Context, title string, status models.HabitStatus) error {
	habit, err := ctx.Habit(title)
	if err != nil {
		return err
	}
	if habit.Status == status {
		ctx.Printf("Habit %q is already %s\n", habit.Title, strings.ToLower(string(status)))
		return nil
	}

	habit.Status = status
	habit.UpdatedAt = time.Now()
	if err := ctx.Store.UpdateHabit(ctx.Ctx, habit); err != nil {
		return err
	}
	ctx.Printf("Habit %q is now %s\n", habit.Title, strings.ToLower(string(status)))
	return nil
}

type HabitDeleteCmd struct {
	Title string `arg:"" help:"Habit title."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habit(c.Title)
	if err != nil {
		return err
	}
	if !c.Yes {
		return fmt.Errorf("deleting %q removes its whole history; re-run with --yes to confirm", habit.Title)
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteHabit(ctx.Ctx, habit.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", habit.Title)
	return nil
}
