package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/transfer"
)

func TestCreateScheduleDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sr := newMemScheduleRepo()
	svc := &scheduleService{sr: sr, cr: &memContentRepo{}, now: func() time.Time { return now }}

	s, err := svc.Create(context.Background(), 5, &transfer.CreateScheduleRequest{
		SourceURL: "https://blog.test/feed",
		Topic:     " AI ",
		Interval:  "12h",
		Hashtags:  "AI, Tech",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == 0 || s.UserID != 5 || s.Topic != "AI" || s.Interval != models.Interval12H {
		t.Fatalf("unexpected schedule %+v", s)
	}
	if s.PostStyle != models.PostStyleInsights || !s.IsActive || !s.NextRun.Equal(now) {
		t.Fatalf("defaults not applied: %+v", s)
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	svc := NewScheduleService(newMemScheduleRepo(), &memContentRepo{})
	cases := []struct {
		field string
		req   transfer.CreateScheduleRequest
	}{
		{"source_url", transfer.CreateScheduleRequest{SourceURL: "ftp://x", Topic: "t"}},
		{"source_url", transfer.CreateScheduleRequest{SourceURL: "not a url", Topic: "t"}},
		{"topic", transfer.CreateScheduleRequest{SourceURL: "https://x.test", Topic: "  "}},
		{"interval", transfer.CreateScheduleRequest{SourceURL: "https://x.test", Topic: "t", Interval: "5H"}},
		{"post_style", transfer.CreateScheduleRequest{SourceURL: "https://x.test", Topic: "t", PostStyle: "RANT"}},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), 1, &tc.req)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tc.field {
			t.Fatalf("%+v: expected validation error on %s, got %v", tc.req, tc.field, err)
		}
	}
}

func TestScheduleMutationsAreOwnerScoped(t *testing.T) {
	sr := newMemScheduleRepo(&models.Schedule{ID: 1, UserID: 1, IsActive: true})
	svc := NewScheduleService(sr, &memContentRepo{})

	if err := svc.SetActive(context.Background(), 2, 1, false); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("foreign SetActive: %v", err)
	}
	if err := svc.SetActive(context.Background(), 1, 1, false); err != nil || sr.items[1].IsActive {
		t.Fatalf("SetActive: %v", err)
	}
	if err := svc.SetActive(context.Background(), 1, 1, false); err != nil || sr.items[1].IsActive {
		t.Fatalf("SetActive must be idempotent: %v", err)
	}
	if err := svc.Remove(context.Background(), 2, 1); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("foreign Remove: %v", err)
	}
	if err := svc.Remove(context.Background(), 1, 1); err != nil || len(sr.items) != 0 {
		t.Fatalf("Remove: %v", err)
	}
}

func TestScheduleStatus(t *testing.T) {
	lastRun := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		contents []*models.Content
		lastRun  *time.Time
		want     string
	}{
		{"never run", nil, nil, StatusPending},
		{"no content since run", []*models.Content{{ScheduleID: 1, CreatedAt: lastRun.Add(-time.Hour)}}, &lastRun, StatusFailing},
		{"no content at all", nil, &lastRun, StatusFailing},
		{"fresh content", []*models.Content{{ScheduleID: 1, CreatedAt: lastRun.Add(time.Second)}}, &lastRun, StatusHealthy},
	}
	for _, tc := range cases {
		sr := newMemScheduleRepo(&models.Schedule{ID: 1, UserID: 1, IsActive: true, LastRun: tc.lastRun})
		svc := NewScheduleService(sr, &memContentRepo{items: tc.contents})

		st, err := svc.Status(context.Background(), 1, 1)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got := StatusLabel(st); got != tc.want {
			t.Fatalf("%s: status = %s, want %s", tc.name, got, tc.want)
		}
		if st.ContentCount != int64(len(tc.contents)) {
			t.Fatalf("%s: count = %d", tc.name, st.ContentCount)
		}
	}

	svc := NewScheduleService(newMemScheduleRepo(&models.Schedule{ID: 1, UserID: 1}), &memContentRepo{})
	if _, err := svc.Status(context.Background(), 9, 1); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("foreign status: %v", err)
	}
}
