package models

import "time"

type Interval string

const (
	Interval6H   Interval = "6H"
	Interval12H  Interval = "12H"
	Interval24H  Interval = "24H"
	Interval48H  Interval = "48H"
	Interval72H  Interval = "72H"
	Interval168H Interval = "168H"
)

// DefaultIntervalDuration applies to interval values missing from intervalDurations.
const DefaultIntervalDuration = 24 * time.Hour

var intervalDurations = map[Interval]time.Duration{
	Interval6H:   6 * time.Hour,
	Interval12H:  12 * time.Hour,
	Interval24H:  24 * time.Hour,
	Interval48H:  48 * time.Hour,
	Interval72H:  72 * time.Hour,
	Interval168H: 168 * time.Hour,
}

// Duration is total: unknown intervals map to DefaultIntervalDuration.
func (i Interval) Duration() time.Duration {
	if d, ok := intervalDurations[i]; ok {
		return d
	}
	return DefaultIntervalDuration
}

func (i Interval) Valid() bool {
	_, ok := intervalDurations[i]
	return ok
}

type PostStyle string

const (
	PostStyleNews     PostStyle = "NEWS"
	PostStyleInsights PostStyle = "INSIGHTS"
	PostStyleSummary  PostStyle = "SUMMARY"
	PostStyleQuotes   PostStyle = "QUOTES"
)

func (p PostStyle) Valid() bool {
	switch p {
	case PostStyleNews, PostStyleInsights, PostStyleSummary, PostStyleQuotes:
		return true
	}
	return false
}

type Schedule struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	SourceURL      string     `db:"source_url" json:"source_url"`
	Topic          string     `db:"topic" json:"topic"`
	Interval       Interval   `db:"run_interval" json:"interval"`
	PostStyle      PostStyle  `db:"post_style" json:"post_style"`
	Hashtags       string     `db:"hashtags" json:"hashtags"`
	CustomTemplate string     `db:"custom_template" json:"custom_template"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	LastRun        *time.Time `db:"last_run" json:"last_run"`
	NextRun        time.Time  `db:"next_run" json:"next_run"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Advance consumes the current time slot: last_run becomes now and next_run
// moves one interval past it.
func (s *Schedule) Advance(now time.Time) {
	last := now
	s.LastRun = &last
	s.NextRun = now.Add(s.Interval.Duration())
}

// IsDue reports whether the schedule should run at now.
func (s *Schedule) IsDue(now time.Time) bool {
	return s.IsActive && !s.NextRun.After(now)
}
