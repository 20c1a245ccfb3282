package sqlite

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/models"
)

const trackingColumns = `id, habit_id, date, is_completed, value, duration, notes, created_at, updated_at`

func scanTracking(row scanner) (models.HabitTracking, error) {
	var t models.HabitTracking
	var value sql.NullFloat64
	var duration sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.HabitID, &t.Date, &t.IsCompleted, &value, &duration, &t.Notes, &createdAt, &updatedAt)
	if err != nil {
		return models.HabitTracking{}, err
	}
	if value.Valid {
		t.Value = &value.Float64
	}
	if duration.Valid {
		d := int(duration.Int64)
		t.Duration = &d
	}
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.HabitTracking{}, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.HabitTracking{}, err
	}
	return t, nil
}

func (s *Store) GetTrackingForDate(ctx context.Context, habitID string, date int64) (models.HabitTracking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+trackingColumns+` FROM habit_tracking WHERE habit_id = ? AND date = ?`,
		habitID, date,
	)
	t, err := scanTracking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitTracking{}, apperrors.NotFoundf("tracking for habit %s on %d", habitID, date)
	}
	return t, err
}

func (s *Store) GetTrackingRange(ctx context.Context, habitID string, from, to int64) ([]models.HabitTracking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+trackingColumns+` FROM habit_tracking
		WHERE habit_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		habitID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.HabitTracking
	for rows.Next() {
		t, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

// UpsertTracking writes the record for (habit, date), keeping the ID and
// creation time of a row that already exists for that day.
func (s *Store) UpsertTracking(ctx context.Context, t models.HabitTracking) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_tracking (`+trackingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			is_completed = excluded.is_completed,
			value = excluded.value,
			duration = excluded.duration,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		t.ID, t.HabitID, t.Date, t.IsCompleted, t.Value, t.Duration, t.Notes,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	return err
}

func (s *Store) DeleteTracking(ctx context.Context, habitID string, date int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM habit_tracking WHERE habit_id = ? AND date = ?`, habitID, date)
	return err
}
