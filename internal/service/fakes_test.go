package service

import (
	"context"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/models"
)

type memScheduleRepo struct {
	items  map[int64]*models.Schedule
	nextID int64
}

func newMemScheduleRepo(items ...*models.Schedule) *memScheduleRepo {
	r := &memScheduleRepo{items: map[int64]*models.Schedule{}}
	for _, s := range items {
		r.items[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *memScheduleRepo) Create(ctx context.Context, s *models.Schedule) (int64, error) {
	r.nextID++
	cp := *s
	cp.ID = r.nextID
	r.items[cp.ID] = &cp
	return cp.ID, nil
}

func (r *memScheduleRepo) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	return r.items[id], nil
}

func (r *memScheduleRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	var out []*models.Schedule
	for _, s := range r.items {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Schedule, error) {
	var out []*models.Schedule
	for _, s := range r.items {
		if s.IsDue(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memScheduleRepo) UpdateRun(ctx context.Context, id int64, lastRun, nextRun time.Time) error {
	if s, ok := r.items[id]; ok {
		s.LastRun = &lastRun
		s.NextRun = nextRun
	}
	return nil
}

func (r *memScheduleRepo) SetActive(ctx context.Context, id, userID int64, active bool) (bool, error) {
	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	s.IsActive = active
	return true, nil
}

func (r *memScheduleRepo) Remove(ctx context.Context, id, userID int64) (bool, error) {
	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type memContentRepo struct {
	items []*models.Content
}

func (r *memContentRepo) Create(ctx context.Context, c *models.Content) (int64, error) {
	cp := *c
	cp.ID = int64(len(r.items) + 1)
	r.items = append(r.items, &cp)
	return cp.ID, nil
}

func (r *memContentRepo) GetByID(ctx context.Context, id int64) (*models.Content, error) {
	for _, c := range r.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memContentRepo) ListByScheduleID(ctx context.Context, scheduleID int64, limit int) ([]*models.Content, error) {
	var out []*models.Content
	for _, c := range r.items {
		if c.ScheduleID == scheduleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memContentRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Content, error) {
	return r.items, nil
}

func (r *memContentRepo) Stats(ctx context.Context, scheduleID int64) (int64, *time.Time, error) {
	var count int64
	var latest *time.Time
	for _, c := range r.items {
		if c.ScheduleID != scheduleID {
			continue
		}
		count++
		if latest == nil || c.CreatedAt.After(*latest) {
			t := c.CreatedAt
			latest = &t
		}
	}
	return count, latest, nil
}

func (r *memContentRepo) MarkPosted(ctx context.Context, id int64, externalPostID string, postedAt time.Time) (bool, error) {
	for _, c := range r.items {
		if c.ID == id && !c.Posted {
			c.Posted = true
			c.ExternalPostID = externalPostID
			c.PostedAt = &postedAt
			return true, nil
		}
	}
	return false, nil
}

type memSocialAccountRepo struct {
	items map[int64]*models.SocialAccount
}

func (r *memSocialAccountRepo) Upsert(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	if r.items == nil {
		r.items = map[int64]*models.SocialAccount{}
	}
	cp := *sa
	cp.ID = sa.UserID
	r.items[sa.UserID] = &cp
	return cp.ID, nil
}

func (r *memSocialAccountRepo) GetByUserID(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error) {
	return r.items[userID], nil
}

func (r *memSocialAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	if a, ok := r.items[userID]; ok {
		return []*models.SocialAccount{a}, nil
	}
	return nil, nil
}

func (r *memSocialAccountRepo) Remove(ctx context.Context, userID int64, platform string) (bool, error) {
	if _, ok := r.items[userID]; !ok {
		return false, nil
	}
	delete(r.items, userID)
	return true, nil
}

type memUserRepo struct {
	byEmail map[string]*models.User
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	u, ok := r.byEmail[email]
	return u, ok, nil
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) (int64, error) {
	if r.byEmail == nil {
		r.byEmail = map[string]*models.User{}
	}
	cp := *user
	cp.ID = int64(len(r.byEmail) + 1)
	r.byEmail[cp.Email] = &cp
	return cp.ID, nil
}
