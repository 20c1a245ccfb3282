package habits

import (
	"errors"
	"strconv"
	"time"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
)

type ToggleCmd struct {
	Title string `arg:"" help:"Habit title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	return track(ctx, c.Title, c.Date, func(habitID string, date time.Time) (models.HabitTracking, error) {
		return ctx.Engine.ToggleCompletion(ctx.Ctx, habitID, date)
	})
}

type IncCmd struct {
	Title string  `arg:"" help:"Habit title."`
	Date  string  `help:"Date in YYYY-MM-DD format (default: today)."`
	By    float64 `help:"Amount to add. Minutes for time habits." default:"1"`
}

func (c *IncCmd) Run(ctx *cli.Context) error {
	if c.By <= 0 {
		return errors.New("--by must be positive")
	}
	return track(ctx, c.Title, c.Date, func(habitID string, date time.Time) (models.HabitTracking, error) {
		return ctx.Engine.AdjustProgress(ctx.Ctx, habitID, date, c.By)
	})
}

type DecCmd struct {
	Title string  `arg:"" help:"Habit title."`
	Date  string  `help:"Date in YYYY-MM-DD format (default: today)."`
	By    float64 `help:"Amount to subtract. Minutes for time habits." default:"1"`
}

func (c *DecCmd) Run(ctx *cli.Context) error {
	if c.By <= 0 {
		return errors.New("--by must be positive")
	}
	return track(ctx, c.Title, c.Date, func(habitID string, date time.Time) (models.HabitTracking, error) {
		return ctx.Engine.AdjustProgress(ctx.Ctx, habitID, date, -c.By)
	})
}

type NoteCmd struct {
	Title string `arg:"" help:"Habit title."`
	Text  string `arg:"" help:"Note text. An empty string clears the note."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *NoteCmd) Run(ctx *cli.Context) error {
	return track(ctx, c.Title, c.Date, func(habitID string, date time.Time) (models.HabitTracking, error) {
		return ctx.Engine.SetNotes(ctx.Ctx, habitID, date, c.Text)
	})
}

// track resolves the habit and date, applies op and prints the day's view.
func track(ctx *cli.Context, title, dateFlag string, op func(habitID string, date time.Time) (models.HabitTracking, error)) error {
	habit, err := ctx.Habit(title)
	if err != nil {
		return err
	}
	date, err := ctx.Date(dateFlag)
	if err != nil {
		return err
	}

	if _, err := op(habit.ID, date); err != nil {
		return err
	}

	view, err := ctx.Aggregator().ForHabit(ctx.Ctx, habit.ID, date)
	if err != nil {
		return err
	}
	ctx.Printf("%s  %s\n", cli.MutedStyle.Render(date.Format("2006-01-02")), cli.FormatView(view))
	return nil
}

type StreakCmd struct {
	Title string `arg:"" help:"Habit title."`
	Date  string `help:"Count the run ending at this date (default: today)."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habit(c.Title)
	if err != nil {
		return err
	}
	date, err := ctx.Date(c.Date)
	if err != nil {
		return err
	}

	res, err := ctx.Engine.RecomputeStreak(ctx.Ctx, habit.ID, date)
	if err != nil {
		return err
	}
	ctx.Printf("%s: current %s, best %s\n",
		habit.Title,
		cli.StreakStyle.Render(strconv.Itoa(res.Current)),
		cli.StreakStyle.Render(strconv.Itoa(res.Best)),
	)
	return nil
}
