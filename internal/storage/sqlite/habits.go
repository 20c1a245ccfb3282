package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/models"
)

const habitColumns = `id, title, description, type, target_value, current_streak, best_streak,
	status, category_id, created_at, updated_at`

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var target sql.NullFloat64
	var category sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.Type, &target, &h.CurrentStreak, &h.BestStreak,
		&h.Status, &category, &createdAt, &updatedAt)
	if err != nil {
		return models.Habit{}, err
	}

	if target.Valid {
		h.TargetValue = &target.Float64
	}
	if category.Valid {
		h.CategoryID = &category.String
	}
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFoundf("habit %s", id)
	}
	return h, err
}

func (s *Store) GetHabitByTitle(ctx context.Context, title string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE title = ?`, title)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFoundf("habit %q", title)
	}
	return h, err
}

func (s *Store) ListHabits(ctx context.Context, includeArchived bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if !includeArchived {
		query += ` WHERE status != 'ARCHIVED'`
	}
	query += ` ORDER BY created_at, title`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// CreateHabit inserts the habit and its frequency together.
func (s *Store) CreateHabit(ctx context.Context, habit models.Habit, freq models.HabitFrequency) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Title, habit.Description, habit.Type, habit.TargetValue,
		habit.CurrentStreak, habit.BestStreak, habit.Status, habit.CategoryID,
		formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	freq.HabitID = habit.ID
	if err := insertFrequency(ctx, tx, freq); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateHabit writes the editable fields of habit. The streak counters are
// owned by UpdateStreakFields and left untouched.
func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits
		SET title = ?, description = ?, type = ?, target_value = ?,
			status = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		habit.Title, habit.Description, habit.Type, habit.TargetValue,
		habit.Status, habit.CategoryID, formatTime(habit.UpdatedAt), habit.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(res, "habit %s", habit.ID)
}

func (s *Store) UpdateStreakFields(ctx context.Context, habitID string, current, best int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE habits SET current_streak = ?, best_streak = ? WHERE id = ?`,
		current, best, habitID,
	)
	if err != nil {
		return err
	}
	return expectRow(res, "habit %s", habitID)
}

func (s *Store) DeleteHabit(ctx context.Context, habitID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades only fire with foreign_keys enabled.
	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_tracking WHERE habit_id = ?`, habitID); err != nil {
		return fmt.Errorf("failed to delete tracking: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_frequencies WHERE habit_id = ?`, habitID); err != nil {
		return fmt.Errorf("failed to delete frequency: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, habitID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := expectRow(res, "habit %s", habitID); err != nil {
		return err
	}
	return tx.Commit()
}

func expectRow(res sql.Result, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFoundf(format, args...)
	}
	return nil
}
