package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	pq "github.com/lib/pq"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

func (s *Store) GetFrequencyForHabit(ctx context.Context, habitID string) (models.HabitFrequency, error) {
	var f models.HabitFrequency
	var days pq.Int64Array
	var times sql.NullInt64
	var period sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, habit_id, type, days_of_week, times_per_period, period_type
		FROM habit_frequencies WHERE habit_id = $1`, habitID,
	).Scan(&f.ID, &f.HabitID, &f.Type, &days, &times, &period)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitFrequency{}, apperrors.NotFoundf("frequency for habit %s", habitID)
	}
	if err != nil {
		return models.HabitFrequency{}, err
	}

	if f.DaysOfWeek, err = utils.NormalizeDays(fromInt64s(days)); err != nil {
		return models.HabitFrequency{}, fmt.Errorf("%w: frequency for habit %s: %v", apperrors.ErrInvalidState, habitID, err)
	}
	if len(f.DaysOfWeek) == 0 {
		f.DaysOfWeek = nil
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

func (s *Store) ReplaceFrequency(ctx context.Context, freq models.HabitFrequency) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM habits WHERE id = $1)`, freq.HabitID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFoundf("habit %s", freq.HabitID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_frequencies WHERE habit_id = $1`, freq.HabitID); err != nil {
		return fmt.Errorf("failed to delete frequency: %w", err)
	}
	if err := insertFrequency(ctx, tx, freq); err != nil {
		return err
	}
	return tx.Commit()
}

func insertFrequency(ctx context.Context, tx *sql.Tx, f models.HabitFrequency) error {
	days, err := utils.NormalizeDays(f.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
	}
	var period *string
	if p := f.Period(); p != "" {
		ps := string(p)
		period = &ps
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO habit_frequencies (id, habit_id, type, days_of_week, times_per_period, period_type)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.HabitID, f.Type, pq.Array(toInt64s(days)), f.TimesPerPeriod, period,
	)
	if err != nil {
		return fmt.Errorf("failed to insert frequency: %w", err)
	}
	return nil
}

// NormalizeDaysOfWeek sorts and de-duplicates stored day arrays.
func (s *Store) NormalizeDaysOfWeek(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, days_of_week FROM habit_frequencies`)
	if err != nil {
		return 0, err
	}

	pending := make(map[string][]int)
	for rows.Next() {
		var id string
		var days pq.Int64Array
		if err := rows.Scan(&id, &days); err != nil {
			rows.Close()
			return 0, err
		}
		ints := fromInt64s(days)
		norm, err := utils.NormalizeDays(ints)
		if err != nil {
			logger.Warn("Skipping out-of-range days of week", "frequency", id, "error", err)
			continue
		}
		if !slices.Equal(ints, norm) {
			pending[id] = norm
		}
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

	for id, days := range pending {
		if _, err := tx.ExecContext(ctx, `UPDATE habit_frequencies SET days_of_week = $1 WHERE id = $2`, pq.Array(toInt64s(days)), id); err != nil {
			return 0, fmt.Errorf("failed to normalize frequency %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	logger.Info("Normalized days of week", "rows", len(pending))
	return len(pending), nil
}

func toInt64s(days []int) []int64 {
	out := make([]int64, len(days))
	for i, d := range days {
		out[i] = int64(d)
	}
	return out
}

func fromInt64s(days pq.Int64Array) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}
