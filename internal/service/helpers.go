package service

import (
	"time"
)

// LinkedIn access tokens live for 60 days.
const defaultLinkedInTokenTTL = 60 * 24 * 60 * 60

func GetExpiresAt(expiresIn int) time.Time {
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
