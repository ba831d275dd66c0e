package queue

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/scrapeflow/internal/service"
)

type enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func EnqueuePublish(client enqueuer, payload PublishContentPayload, policy service.RetryPolicy, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishContent, taskPayload)

	_, err = client.Enqueue(task,
		asynq.ProcessIn(delay),
		asynq.MaxRetry(policy.MaxRetries),
		asynq.TaskID(publishTaskID(payload.ContentID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		slog.Info("publish task already queued", "content_id", payload.ContentID)
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("publish task queued", "content_id", payload.ContentID)
	return nil
}

func publishTaskID(contentID int64) string {
	return "publish-content-" + strconv.FormatInt(contentID, 10)
}

// RetryDelayFunc spaces asynq redeliveries of publish tasks by the policy and
// falls back to asynq's default for other task types.
func RetryDelayFunc(policy service.RetryPolicy) asynq.RetryDelayFunc {
	return func(n int, err error, task *asynq.Task) time.Duration {
		if task.Type() == TaskTypePublishContent {
			return policy.Delay(n)
		}
		return asynq.DefaultRetryDelayFunc(n, err, task)
	}
}
