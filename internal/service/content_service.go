package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/repository"
)

var ErrContentNotFound = errors.New("content not found")

type ContentService interface {
	ListBySchedule(ctx context.Context, userID, scheduleID int64, limit int) ([]*models.Content, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]*models.Content, error)
	Attempts(ctx context.Context, userID, contentID int64) ([]*models.PublishAttempt, error)
}

type contentService struct {
	sr repository.ScheduleRepository
	cr repository.ContentRepository
	pa repository.PublishAttemptRepository
}

func NewContentService(sr repository.ScheduleRepository, cr repository.ContentRepository, pa repository.PublishAttemptRepository) ContentService {
	return &contentService{sr: sr, cr: cr, pa: pa}
}

func (s *contentService) ListBySchedule(ctx context.Context, userID, scheduleID int64, limit int) ([]*models.Content, error) {
	schedule, err := s.sr.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("error getting schedule")
	}
	if schedule == nil || schedule.UserID != userID {
		return nil, ErrScheduleNotFound
	}

	contents, err := s.cr.ListByScheduleID(ctx, scheduleID, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting contents")
	}
	return contents, nil
}

func (s *contentService) ListRecent(ctx context.Context, userID int64, limit int) ([]*models.Content, error) {
	contents, err := s.cr.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting contents")
	}
	return contents, nil
}

func (s *contentService) Attempts(ctx context.Context, userID, contentID int64) ([]*models.PublishAttempt, error) {
	content, err := s.cr.GetByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("error getting content")
	}
	if content == nil {
		return nil, ErrContentNotFound
	}

	schedule, err := s.sr.GetByID(ctx, content.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("error getting schedule")
	}
	if schedule == nil || schedule.UserID != userID {
		return nil, ErrContentNotFound
	}

	attempts, err := s.pa.ListByContentID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("error getting publish attempts")
	}
	return attempts, nil
}
