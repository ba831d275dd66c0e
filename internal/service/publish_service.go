package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/pkg/utils"
)

// RetryPolicy bounds transient publish retries. Retry n (starting at 0)
// waits BaseDelay * 2^n.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func (p RetryPolicy) Delay(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	return p.BaseDelay << uint(retry)
}

type PublishService interface {
	// Attempt makes exactly one publish attempt for the account.
	Attempt(ctx context.Context, account *models.SocialAccount, text string) (string, error)
	// Publish attempts once and then retries transient failures up to the
	// policy ceiling. onAttempt, when set, observes every attempt's outcome.
	Publish(ctx context.Context, account *models.SocialAccount, text string, onAttempt func(attempt int, err error)) (string, error)
	Policy() RetryPolicy
}

type publishService struct {
	li        LinkedInService
	secretKey string
	policy    RetryPolicy
	wait      func(ctx context.Context, d time.Duration) error
}

func NewPublishService(li LinkedInService, secretKey string, policy RetryPolicy) PublishService {
	return &publishService{
		li:        li,
		secretKey: secretKey,
		policy:    policy,
		wait:      sleepContext,
	}
}

func (s *publishService) Policy() RetryPolicy {
	return s.policy
}

func (s *publishService) Attempt(ctx context.Context, account *models.SocialAccount, text string) (string, error) {
	if !account.CanPublish() {
		return "", ErrMissingCredentials
	}

	accessToken, err := utils.Decrypt(account.AccessToken, utils.DeriveKey(s.secretKey))
	if err != nil {
		return "", ErrMissingCredentials
	}

	return s.li.PublishOnce(ctx, accessToken, account.AccountID, text)
}

func (s *publishService) Publish(ctx context.Context, account *models.SocialAccount, text string, onAttempt func(attempt int, err error)) (string, error) {
	for attempt := 0; ; attempt++ {
		id, err := s.Attempt(ctx, account, text)
		if onAttempt != nil {
			onAttempt(attempt, err)
		}
		if err == nil {
			return id, nil
		}
		if !IsTransient(err) || attempt >= s.policy.MaxRetries {
			return "", err
		}

		delay := s.policy.Delay(attempt)
		slog.Info("retrying publish", "account_id", account.ID, "attempt", attempt+1, "delay", delay, "error", err)
		if werr := s.wait(ctx, delay); werr != nil {
			return "", err
		}
	}
}

// ComposePost appends the rendered hashtags to text after a blank line.
func ComposePost(text, hashtags string) string {
	tags := FormatHashtags(hashtags)
	if tags == "" {
		return text
	}
	return text + "\n\n" + tags
}

// FormatHashtags renders a comma-separated tag list as "#a #b". Whitespace
// inside a tag and leading '#' characters are dropped.
func FormatHashtags(hashtags string) string {
	var out []string
	for _, raw := range strings.Split(hashtags, ",") {
		tag := strings.Join(strings.Fields(raw), "")
		tag = strings.TrimLeft(tag, "#")
		if tag == "" {
			continue
		}
		out = append(out, "#"+tag)
	}
	return strings.Join(out, " ")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
