package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) GetFrequencyForHabit(ctx context.Context, habitID string) (models.HabitFrequency, error) {
	var f models.HabitFrequency
	var days string
	var times sql.NullInt64
	var period sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, habit_id, type, days_of_week, times_per_period, period_type
		FROM habit_frequencies WHERE habit_id = ?`, habitID,
	).Scan(&f.ID, &f.HabitID, &f.Type, &days, &times, &period)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitFrequency{}, apperrors.NotFoundf("frequency for habit %s", habitID)
	}
	if err != nil {
		return models.HabitFrequency{}, err
	}

	if f.DaysOfWeek, err = utils.DecodeDays(days); err != nil {
		return models.HabitFrequency{}, fmt.Errorf("%w: frequency for habit %s: %v", apperrors.ErrInvalidState, habitID, err)
	}
	if times.Valid {
		n := int(times.Int64)
		f.TimesPerPeriod = &n
	}
	if period.Valid {
		p := models.PeriodType(period.String)
		f.PeriodType = &p
	}
	return f, nil
}

// ReplaceFrequency swaps the habit's schedule rule for freq.
func (s *Store) ReplaceFrequency(ctx context.Context, freq models.HabitFrequency) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT count(*) FROM habits WHERE id = ?`, freq.HabitID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return apperrors.NotFoundf("habit %s", freq.HabitID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_frequencies WHERE habit_id = ?`, freq.HabitID); err != nil {
		return fmt.Errorf("failed to delete frequency: %w", err)
	}
	if err := insertFrequency(ctx, tx, freq); err != nil {
		return err
	}
	return tx.Commit()
}

func insertFrequency(ctx context.Context, db execer, f models.HabitFrequency) error {
	days, err := utils.EncodeDays(f.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
	}
	var period *string
	if p := f.Period(); p != "" {
		ps := string(p)
		period = &ps
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO habit_frequencies (id, habit_id, type, days_of_week, times_per_period, period_type)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.HabitID, f.Type, days, f.TimesPerPeriod, period,
	)
	if err != nil {
		return fmt.Errorf("failed to insert frequency: %w", err)
	}
	return nil
}

// NormalizeDaysOfWeek rewrites legacy comma-separated day lists as JSON arrays.
func (s *Store) NormalizeDaysOfWeek(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, days_of_week FROM habit_frequencies`)
	if err != nil {
		return 0, err
	}

	pending := make(map[string]string)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return 0, err
		}
		if utils.IsCanonicalDays(raw) {
			continue
		}
		days, err := utils.DecodeDays(raw)
		if err != nil {
			logger.Warn("Skipping unreadable days of week", "frequency", id, "value", raw, "error", err)
			continue
		}
		encoded, err := utils.EncodeDays(days)
		if err != nil {
			logger.Warn("Skipping out-of-range days of week", "frequency", id, "value", raw, "error", err)
			continue
		}
		pending[id] = encoded
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	if len(pending) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for id, encoded := range pending {
		if _, err := tx.ExecContext(ctx, `UPDATE habit_frequencies SET days_of_week = ? WHERE id = ?`, encoded, id); err != nil {
			return 0, fmt.Errorf("failed to normalize frequency %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	logger.Info("Normalized days of week", "rows", len(pending))
	return len(pending), nil
}
