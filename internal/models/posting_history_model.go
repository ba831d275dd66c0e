package models

import "time"

// PublishAttempt records one delivery attempt of a Content record to LinkedIn.
type PublishAttempt struct {
	ID           int64     `db:"id" json:"id"`
	ContentID    int64     `db:"content_id" json:"content_id"`
	AccountID    int64     `db:"account_id" json:"account_id"`
	Attempt      int       `db:"attempt" json:"attempt"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
