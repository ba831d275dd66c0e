package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/service"
)

var (
	errContentNotFound = errors.New("content not found")
	// errPostNotRecorded means the post exists on LinkedIn but the content row
	// could not be marked posted. Redelivery would publish it twice.
	errPostNotRecorded = errors.New("published post was not recorded")
)

// HandlePublishTask makes one publish attempt per delivery. Transient publish
// failures and store errors are returned so asynq redelivers the task after
// the policy delay. Permanent failures, missing content and posts that exist
// remotely but could not be recorded are archived without retry.
func (q *Queue) HandlePublishTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishContentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	retried, _ := asynq.GetRetryCount(ctx)
	_, err := q.PublishContent(ctx, payload.ContentID, retried+1, false)
	if err == nil {
		return nil
	}

	if errors.Is(err, errContentNotFound) || errors.Is(err, errPostNotRecorded) || service.IsPermanent(err) {
		slog.Info("publish failed permanently", "content_id", payload.ContentID, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	slog.Info("publish failed, will retry", "content_id", payload.ContentID, "retried", retried, "error", err)
	return err
}

// PublishContent posts a saved Content record. With retry set, transient
// failures are retried in-process; otherwise a single attempt numbered
// attempt is made. Content that is already posted is left untouched.
func (q *Queue) PublishContent(ctx context.Context, contentID int64, attempt int, retry bool) (string, error) {
	content, err := q.cr.GetByID(ctx, contentID)
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", errContentNotFound
	}
	if content.Posted {
		return content.ExternalPostID, nil
	}

	schedule, err := q.sr.GetByID(ctx, content.ScheduleID)
	if err != nil {
		return "", err
	}
	if schedule == nil {
		return "", errContentNotFound
	}

	account, err := q.sa.GetByUserID(ctx, schedule.UserID, models.PlatformLinkedIn)
	if err != nil {
		return "", err
	}

	text := service.ComposePost(content.PostText, schedule.Hashtags)

	var externalID string
	if retry {
		externalID, err = q.ps.Publish(ctx, account, text, func(n int, err error) {
			q.recordAttempt(ctx, content.ID, account, attempt+n, err)
		})
	} else {
		externalID, err = q.ps.Attempt(ctx, account, text)
		q.recordAttempt(ctx, content.ID, account, attempt, err)
	}
	if err != nil {
		return "", err
	}

	marked, err := q.markPosted(ctx, content.ID, externalID)
	if err != nil {
		slog.Info("content published but not marked posted", "content_id", content.ID, "external_id", externalID, "error", err)
		q.recordAttempt(ctx, content.ID, account, attempt, fmt.Errorf("posted as %s but not recorded: %v", externalID, err))
		return externalID, fmt.Errorf("%w: %v", errPostNotRecorded, err)
	}
	if !marked {
		slog.Info("content was already marked posted", "content_id", content.ID)
	}

	slog.Info("content published", "content_id", content.ID, "external_id", externalID)
	return externalID, nil
}

// markPosted retries MarkPosted in-process. The remote post already exists, so
// the task must not be redelivered.
func (q *Queue) markPosted(ctx context.Context, contentID int64, externalID string) (bool, error) {
	var err error
	for i := 0; i < q.markRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(q.markDelay << (i - 1)):
			}
		}
		var marked bool
		marked, err = q.cr.MarkPosted(ctx, contentID, externalID, q.now())
		if err == nil {
			return marked, nil
		}
		slog.Info("failed to mark content posted", "content_id", contentID, "try", i+1, "error", err)
	}
	return false, err
}

func (q *Queue) recordAttempt(ctx context.Context, contentID int64, account *models.SocialAccount, attempt int, err error) {
	pa := &models.PublishAttempt{
		ContentID: contentID,
		Attempt:   attempt,
	}
	if account != nil {
		pa.AccountID = account.ID
	}
	if err != nil {
		pa.ErrorMessage = err.Error()
	}
	if _, err := q.pa.Create(ctx, pa); err != nil {
		slog.Info("failed to record publish attempt", "content_id", contentID, "error", err)
	}
}
