package postgres

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

	err := row.Scan(&t.ID, &t.HabitID, &t.Date, &t.IsCompleted, &value, &duration, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
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
	return t, nil
}

func (s *Store) GetTrackingForDate(ctx context.Context, habitID string, date int64) (models.HabitTracking, error) {
	t, err := scanTracking(s.db.QueryRowContext(ctx,
		`SELECT `+trackingColumns+` FROM habit_tracking WHERE habit_id = $1 AND date = $2`,
		habitID, date,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitTracking{}, apperrors.NotFoundf("tracking for habit %s on %d", habitID, date)
	}
	return t, err
}

func (s *Store) GetTrackingRange(ctx context.Context, habitID string, from, to int64) ([]models.HabitTracking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+trackingColumns+` FROM habit_tracking
		WHERE habit_id = $1 AND date BETWEEN $2 AND $3
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

func (s *Store) UpsertTracking(ctx context.Context, t models.HabitTracking) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_tracking (`+trackingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (habit_id, date) DO UPDATE SET
			is_completed = EXCLUDED.is_completed,
			value = EXCLUDED.value,
			duration = EXCLUDED.duration,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		t.ID, t.HabitID, t.Date, t.IsCompleted, t.Value, t.Duration, t.Notes, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *Store) DeleteTracking(ctx context.Context, habitID string, date int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM habit_tracking WHERE habit_id = $1 AND date = $2`, habitID, date)
	return err
}
