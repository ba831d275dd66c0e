package transfer

import "time"

type CreateScheduleRequest struct {
	SourceURL      string `json:"source_url"`
	Topic          string `json:"topic"`
	Interval       string `json:"interval"`
	PostStyle      string `json:"post_style"`
	Hashtags       string `json:"hashtags"`
	CustomTemplate string `json:"custom_template"`
	IsActive       *bool  `json:"is_active"`
}

type SetActiveRequest struct {
	Active *bool `json:"active"`
}

type ScheduleStatusResponse struct {
	ID            int64      `json:"id"`
	IsActive      bool       `json:"is_active"`
	LastRun       *time.Time `json:"last_run"`
	NextRun       time.Time  `json:"next_run"`
	LastContentAt *time.Time `json:"last_content_at"`
	ContentCount  int64      `json:"content_count"`
	Status        string     `json:"status"`
}
