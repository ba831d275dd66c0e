package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/scrapeflow/internal/models"
)

type PublishAttemptRepository interface {
	Create(ctx context.Context, pa *models.PublishAttempt) (int64, error)
	ListByContentID(ctx context.Context, contentID int64) ([]*models.PublishAttempt, error)
}

type publishAttemptRepository struct {
	db *sql.DB
}

func NewPublishAttemptRepository(db *sql.DB) PublishAttemptRepository {
	return &publishAttemptRepository{db: db}
}

func (r *publishAttemptRepository) Create(ctx context.Context, pa *models.PublishAttempt) (int64, error) {
	query := `
		INSERT INTO publish_attempts (content_id, account_id, attempt, error_message)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, pa.ContentID, pa.AccountID, pa.Attempt, pa.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *publishAttemptRepository) ListByContentID(ctx context.Context, contentID int64) ([]*models.PublishAttempt, error) {
	query := `SELECT id, content_id, account_id, attempt, error_message, created_at
		FROM publish_attempts WHERE content_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, contentID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var attempts []*models.PublishAttempt
	for rows.Next() {
		var pa models.PublishAttempt
		if err := rows.Scan(&pa.ID, &pa.ContentID, &pa.AccountID, &pa.Attempt, &pa.ErrorMessage, &pa.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		attempts = append(attempts, &pa)
	}
	return attempts, rows.Err()
}
