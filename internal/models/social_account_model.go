package models

import (
	"strings"
	"time"
)

const PlatformLinkedIn = "linkedin"

// SocialAccount holds the publishing credentials of a user. AccessToken is
// stored encrypted.
type SocialAccount struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	Platform       string    `db:"platform" json:"platform"`
	AccountID      string    `db:"account_id" json:"account_id"`
	AccountName    string    `db:"account_name" json:"account_name"`
	AccessToken    string    `db:"access_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// CanPublish is false when either the token or the external user id is missing.
func (a *SocialAccount) CanPublish() bool {
	if a == nil {
		return false
	}
	return strings.TrimSpace(a.AccessToken) != "" && strings.TrimSpace(a.AccountID) != ""
}
