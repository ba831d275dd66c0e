package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/models"
)

type ContentRepository interface {
	Create(ctx context.Context, c *models.Content) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Content, error)
	ListByScheduleID(ctx context.Context, scheduleID int64, limit int) ([]*models.Content, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Content, error)
	Stats(ctx context.Context, scheduleID int64) (count int64, latest *time.Time, err error)
	MarkPosted(ctx context.Context, id int64, externalPostID string, postedAt time.Time) (bool, error)
}

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

const contentColumns = `c.id, c.schedule_id, c.original_url, c.title, c.raw_content, c.summary, c.generated_post_text,
	c.extraction_fallback, c.snapshot_key, c.posted, c.external_post_id, c.posted_at, c.created_at`

func scanContent(row rowScanner) (*models.Content, error) {
	var c models.Content
	var postedAt sql.NullTime
	err := row.Scan(&c.ID, &c.ScheduleID, &c.OriginalURL, &c.Title, &c.RawContent, &c.Summary, &c.PostText,
		&c.Fallback, &c.SnapshotKey, &c.Posted, &c.ExternalPostID, &postedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if postedAt.Valid {
		t := postedAt.Time
		c.PostedAt = &t
	}
	return &c, nil
}

func (r *contentRepository) Create(ctx context.Context, c *models.Content) (int64, error) {
	query := `
		INSERT INTO contents (schedule_id, original_url, title, raw_content, summary, generated_post_text,
			extraction_fallback, snapshot_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, c.ScheduleID, c.OriginalURL, c.Title, c.RawContent, c.Summary,
		c.PostText, c.Fallback, c.SnapshotKey, c.CreatedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *contentRepository) GetByID(ctx context.Context, id int64) (*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents c WHERE c.id = $1`
	c, err := scanContent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return c, nil
}

func (r *contentRepository) ListByScheduleID(ctx context.Context, scheduleID int64, limit int) ([]*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents c WHERE c.schedule_id = $1 ORDER BY c.created_at DESC LIMIT $2`
	return r.list(ctx, query, scheduleID, normalizeLimit(limit))
}

func (r *contentRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Content, error) {
	query := `SELECT ` + contentColumns + `
		FROM contents c
		JOIN schedules s ON s.id = c.schedule_id
		WHERE s.user_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2`
	return r.list(ctx, query, userID, normalizeLimit(limit))
}

func (r *contentRepository) list(ctx context.Context, query string, args ...any) ([]*models.Content, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var contents []*models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		contents = append(contents, c)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return contents, nil
}

func (r *contentRepository) Stats(ctx context.Context, scheduleID int64) (int64, *time.Time, error) {
	query := `SELECT COUNT(*), MAX(created_at) FROM contents WHERE schedule_id = $1`

	var count int64
	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, scheduleID).Scan(&count, &latest); err != nil {
		slog.Info(err.Error())
		return 0, nil, err
	}
	if !latest.Valid {
		return count, nil, nil
	}
	t := latest.Time
	return count, &t, nil
}

// MarkPosted records the external post id. The posted flag only moves from
// false to true; the returned bool is false when the content was already posted
// or does not exist.
func (r *contentRepository) MarkPosted(ctx context.Context, id int64, externalPostID string, postedAt time.Time) (bool, error) {
	query := `
		UPDATE contents
		SET posted = TRUE,
			external_post_id = $2,
			posted_at = $3
		WHERE id = $1 AND posted = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, id, externalPostID, postedAt)
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

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}
