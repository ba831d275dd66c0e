package models

import "time"

type Content struct {
	ID             int64      `db:"id" json:"id"`
	ScheduleID     int64      `db:"schedule_id" json:"schedule_id"`
	OriginalURL    string     `db:"original_url" json:"original_url"`
	Title          string     `db:"title" json:"title"`
	RawContent     string     `db:"raw_content" json:"raw_content"`
	Summary        string     `db:"summary" json:"summary"`
	PostText       string     `db:"generated_post_text" json:"generated_post_text"`
	Fallback       bool       `db:"extraction_fallback" json:"extraction_fallback"`
	SnapshotKey    string     `db:"snapshot_key" json:"snapshot_key,omitempty"`
	Posted         bool       `db:"posted" json:"posted"`
	ExternalPostID string     `db:"external_post_id" json:"external_post_id"`
	PostedAt       *time.Time `db:"posted_at" json:"posted_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type ScheduleStatus struct {
	Schedule      *Schedule  `json:"schedule"`
	LastContentAt *time.Time `json:"last_content_at"`
	ContentCount  int64      `json:"content_count"`
	Failing       bool       `json:"failing"`
}
