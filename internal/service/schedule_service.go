package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/repository"
	"github.com/maheshrc27/scrapeflow/internal/transfer"
)

var ErrScheduleNotFound = errors.New("schedule not found")

// ValidationError is returned for rejected client input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

const (
	StatusInactive = "inactive"
	StatusPending  = "pending"
	StatusHealthy  = "healthy"
	StatusFailing  = "failing"
)

type ScheduleService interface {
	Create(ctx context.Context, userID int64, req *transfer.CreateScheduleRequest) (*models.Schedule, error)
	List(ctx context.Context, userID int64) ([]*models.Schedule, error)
	Status(ctx context.Context, userID, scheduleID int64) (*models.ScheduleStatus, error)
	SetActive(ctx context.Context, userID, scheduleID int64, active bool) error
	Remove(ctx context.Context, userID, scheduleID int64) error
}

type scheduleService struct {
	sr  repository.ScheduleRepository
	cr  repository.ContentRepository
	now func() time.Time
}

func NewScheduleService(sr repository.ScheduleRepository, cr repository.ContentRepository) ScheduleService {
	return &scheduleService{sr: sr, cr: cr, now: time.Now}
}

func (s *scheduleService) Create(ctx context.Context, userID int64, req *transfer.CreateScheduleRequest) (*models.Schedule, error) {
	sourceURL := strings.TrimSpace(req.SourceURL)
	u, err := url.Parse(sourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &ValidationError{Field: "source_url", Reason: "must be an absolute http(s) URL"}
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, &ValidationError{Field: "topic", Reason: "is required"}
	}

	interval := models.Interval24H
	if req.Interval != "" {
		interval = models.Interval(strings.ToUpper(strings.TrimSpace(req.Interval)))
		if !interval.Valid() {
			return nil, &ValidationError{Field: "interval", Reason: "must be one of 6H, 12H, 24H, 48H, 72H, 168H"}
		}
	}

	style := models.PostStyleInsights
	if req.PostStyle != "" {
		style = models.PostStyle(strings.ToUpper(strings.TrimSpace(req.PostStyle)))
		if !style.Valid() {
			return nil, &ValidationError{Field: "post_style", Reason: "must be one of NEWS, INSIGHTS, SUMMARY, QUOTES"}
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	schedule := &models.Schedule{
		UserID:         userID,
		SourceURL:      sourceURL,
		Topic:          topic,
		Interval:       interval,
		PostStyle:      style,
		Hashtags:       strings.TrimSpace(req.Hashtags),
		CustomTemplate: req.CustomTemplate,
		IsActive:       active,
		NextRun:        s.now(),
	}

	id, err := s.sr.Create(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("error creating schedule")
	}
	schedule.ID = id

	return schedule, nil
}

func (s *scheduleService) List(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	schedules, err := s.sr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting schedules")
	}
	return schedules, nil
}

// Status reports a schedule as failing when it has run at least once but
// produced no content since that run.
func (s *scheduleService) Status(ctx context.Context, userID, scheduleID int64) (*models.ScheduleStatus, error) {
	schedule, err := s.owned(ctx, userID, scheduleID)
	if err != nil {
		return nil, err
	}

	count, latest, err := s.cr.Stats(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("error getting schedule stats")
	}

	status := &models.ScheduleStatus{
		Schedule:      schedule,
		LastContentAt: latest,
		ContentCount:  count,
	}
	if schedule.LastRun != nil && (latest == nil || latest.Before(*schedule.LastRun)) {
		status.Failing = true
	}
	return status, nil
}

func (s *scheduleService) SetActive(ctx context.Context, userID, scheduleID int64, active bool) error {
	ok, err := s.sr.SetActive(ctx, scheduleID, userID, active)
	if err != nil {
		return fmt.Errorf("error updating schedule")
	}
	if !ok {
		return ErrScheduleNotFound
	}
	return nil
}

func (s *scheduleService) Remove(ctx context.Context, userID, scheduleID int64) error {
	ok, err := s.sr.Remove(ctx, scheduleID, userID)
	if err != nil {
		return fmt.Errorf("error removing schedule")
	}
	if !ok {
		return ErrScheduleNotFound
	}
	return nil
}

func (s *scheduleService) owned(ctx context.Context, userID, scheduleID int64) (*models.Schedule, error) {
	schedule, err := s.sr.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("error getting schedule")
	}
	if schedule == nil || schedule.UserID != userID {
		return nil, ErrScheduleNotFound
	}
	return schedule, nil
}

// StatusLabel summarises a status for API responses.
func StatusLabel(st *models.ScheduleStatus) string {
	switch {
	case !st.Schedule.IsActive:
		return StatusInactive
	case st.Schedule.LastRun == nil:
		return StatusPending
	case st.Failing:
		return StatusFailing
	default:
		return StatusHealthy
	}
}
