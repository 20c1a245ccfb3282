package postgres

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

	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.Type, &target, &h.CurrentStreak, &h.BestStreak,
		&h.Status, &category, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return models.Habit{}, err
	}
	if target.Valid {
		h.TargetValue = &target.Float64
	}
	if category.Valid {
		h.CategoryID = &category.String
	}
	return h, nil
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFoundf("habit %s", id)
	}
	return h, err
}

func (s *Store) GetHabitByTitle(ctx context.Context, title string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE title = $1`, title))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFoundf("habit %q", title)
	}
	return h, err
}

func (s *Store) ListHabits(ctx context.Context, includeArchived bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if !includeArchived {
		query += ` WHERE status <> 'ARCHIVED'`
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

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit, freq models.HabitFrequency) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		habit.ID, habit.Title, habit.Description, habit.Type, habit.TargetValue,
		habit.CurrentStreak, habit.BestStreak, habit.Status, habit.CategoryID,
		habit.CreatedAt, habit.UpdatedAt,
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
		SET title = $1, description = $2, type = $3, target_value = $4,
			status = $5, category_id = $6, updated_at = $7
		WHERE id = $8`,
		habit.Title, habit.Description, habit.Type, habit.TargetValue,
		habit.Status, habit.CategoryID, habit.UpdatedAt, habit.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(res, "habit %s", habit.ID)
}

func (s *Store) UpdateStreakFields(ctx context.Context, habitID string, current, best int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE habits SET current_streak = $1, best_streak = $2 WHERE id = $3`,
		current, best, habitID,
	)
	if err != nil {
		return err
	}
	return expectRow(res, "habit %s", habitID)
}

// DeleteHabit relies on ON DELETE CASCADE for the frequency and tracking rows.
func (s *Store) DeleteHabit(ctx context.Context, habitID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, habitID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return expectRow(res, "habit %s", habitID)
}
