package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/models"
)

type ScheduleRepository interface {
	Create(ctx context.Context, s *models.Schedule) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Schedule, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.Schedule, error)
	UpdateRun(ctx context.Context, id int64, lastRun, nextRun time.Time) error
	SetActive(ctx context.Context, id, userID int64, active bool) (bool, error)
	Remove(ctx context.Context, id, userID int64) (bool, error)
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `id, user_id, source_url, topic, run_interval, post_style, hashtags,
	custom_template, is_active, last_run, next_run, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var s models.Schedule
	var lastRun sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.SourceURL, &s.Topic, &s.Interval, &s.PostStyle, &s.Hashtags,
		&s.CustomTemplate, &s.IsActive, &lastRun, &s.NextRun, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastRun.Valid {
		t := lastRun.Time
		s.LastRun = &t
	}
	return &s, nil
}

func (r *scheduleRepository) Create(ctx context.Context, s *models.Schedule) (int64, error) {
	query := `
		INSERT INTO schedules (user_id, source_url, topic, run_interval, post_style, hashtags, custom_template, is_active, next_run)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		RETURNING id
	`

	var nextRun any
	if !s.NextRun.IsZero() {
		nextRun = s.NextRun
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, s.UserID, s.SourceURL, s.Topic, string(s.Interval), string(s.PostStyle),
		s.Hashtags, s.CustomTemplate, s.IsActive, nextRun).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return s, nil
}

func (r *scheduleRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListDue returns active schedules whose next_run is at or before now.
func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE is_active = TRUE AND next_run <= $1`
	return r.list(ctx, query, now)
}

func (r *scheduleRepository) list(ctx context.Context, query string, args ...any) ([]*models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) UpdateRun(ctx context.Context, id int64, lastRun, nextRun time.Time) error {
	query := `
		UPDATE schedules
		SET last_run = $2,
			next_run = $3,
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, lastRun, nextRun)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// SetActive sets is_active for a schedule owned by userID. It reports whether
// the schedule exists.
func (r *scheduleRepository) SetActive(ctx context.Context, id, userID int64, active bool) (bool, error) {
	query := `
		UPDATE schedules
		SET is_active = $3,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, userID, active)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

// Remove deletes a schedule owned by userID; its contents go with it.
func (r *scheduleRepository) Remove(ctx context.Context, id, userID int64) (bool, error) {
	query := `DELETE FROM schedules WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}
