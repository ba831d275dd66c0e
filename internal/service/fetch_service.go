package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	fetchUserAgent   = "Mozilla/5.0 (compatible; ScrapeFlow/1.0)"
	maxFetchBodySize = 5 << 20
)

type FetchService interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type fetchService struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetchService returns a fetcher with a hard per-request timeout. A
// ratePerSecond <= 0 disables rate limiting.
func NewFetchService(timeout time.Duration, ratePerSecond float64) FetchService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return &fetchService{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

func (s *fetchService) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBodySize))
	if err != nil {
		slog.Info(err.Error())
		return nil, &FetchError{URL: url, Err: err}
	}
	return body, nil
}
