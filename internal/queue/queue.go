package queue

import (
	"time"

	"github.com/maheshrc27/scrapeflow/internal/repository"
	"github.com/maheshrc27/scrapeflow/internal/service"
)

type Queue struct {
	cr  repository.ContentRepository
	sr  repository.ScheduleRepository
	sa  repository.SocialAccountRepository
	pa  repository.PublishAttemptRepository
	ps  service.PublishService
	now func() time.Time

	markRetries int
	markDelay   time.Duration
}

func NewQueue(
	cr repository.ContentRepository,
	sr repository.ScheduleRepository,
	sa repository.SocialAccountRepository,
	pa repository.PublishAttemptRepository,
	ps service.PublishService) *Queue {
	return &Queue{
		cr:  cr,
		sr:  sr,
		sa:  sa,
		pa:  pa,
		ps:  ps,
		now: time.Now,

		markRetries: 3,
		markDelay:   500 * time.Millisecond,
	}
}

const TaskTypePublishContent = "content:publish"

type PublishContentPayload struct {
	ContentID int64 `json:"content_id"`
}
