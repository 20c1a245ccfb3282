package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

type TodayCmd struct {
	Date     string `help:"Date in YYYY-MM-DD format (default: today)."`
	Archived bool   `help:"Include archived habits."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	date, err := ctx.Date(c.Date)
	if err != nil {
		return err
	}

	views, err := ctx.Aggregator().Overview(ctx.Ctx, date, c.Archived)
	if err != nil {
		return err
	}

	if len(views) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Printf("%s\n\n", cli.HeaderStyle.Render("Habits for "+date.Format("Mon 2006-01-02")))
	due, done := 0, 0
	for _, v := range views {
		ctx.Println(cli.FormatView(v))
		if v.IsDue {
			due++
			if v.Tracking.IsCompleted {
				done++
			}
		}
	}

	ctx.Printf("\nDone: %d/%d due\n", done, due)
	return nil
}

type LogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
	Date  string `help:"Last day shown (default: today)."`
}

const logNameWidth = 20

func (c *LogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		c.Days = constants.DefaultLogDays
	}
	end, err := ctx.Date(c.Date)
	if err != nil {
		return err
	}
	loc := ctx.Location()

	var selected []models.Habit
	if c.Habit != "" {
		habit, err := ctx.Habit(c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{habit}
	} else {
		selected, err = ctx.Store.ListHabits(ctx.Ctx, false)
		if err != nil {
			return err
		}
	}

	if len(selected) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	days := make([]int64, c.Days)
	day := end
	for i := c.Days - 1; i >= 0; i-- {
		days[i] = utils.DayMillis(day, loc)
		day = utils.PreviousDay(day, loc)
	}

	ctx.Printf("Habit log (last %d days):\n\n", c.Days)

	// Print header with dates
	var header strings.Builder
	header.WriteString(fmt.Sprintf("%-*s", logNameWidth, "Habit"))
	for _, d := range days {
		header.WriteString(" " + utils.FromDayMillis(d, loc).Format("01/02"))
	}
	ctx.Println(header.String())
	ctx.Println(strings.Repeat("-", logNameWidth+6*len(days)))

	for _, habit := range selected {
		freq, err := ctx.Store.GetFrequencyForHabit(ctx.Ctx, habit.ID)
		if err != nil {
			return err
		}
		records, err := ctx.Store.GetTrackingRange(ctx.Ctx, habit.ID, days[0], days[len(days)-1])
		if err != nil {
			return err
		}
		history := engine.IndexHistory(records)

		var row strings.Builder
		row.WriteString(fmt.Sprintf("%-*s", logNameWidth, truncate(habit.Title, logNameWidth)))
		for _, d := range days {
			row.WriteString("  ")
			row.WriteString(logMark(history[d], engine.IsDue(freq, utils.FromDayMillis(d, loc))))
			row.WriteString("   ")
		}
		ctx.Println(row.String())
	}

	return nil
}

// logMark is x for a completed day, . for a missed scheduled day and blank
// for a day off the schedule.
func logMark(rec models.HabitTracking, due bool) string {
	switch {
	case rec.IsCompleted:
		return cli.DoneStyle.Render("x")
	case due:
		return "."
	default:
		return " "
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
