package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/transfer"
)

func TestLoginCallbackCreatesUserAndStoresCredentials(t *testing.T) {
	li := &exchangeLinkedIn{identity: &transfer.LinkedInIdentity{
		Sub:         "member-1",
		Name:        "Ada",
		Email:       "Ada@Example.com",
		AccessToken: "li-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	users := &memUserRepo{}
	accounts := &memSocialAccountRepo{}
	svc := NewAuthService(li, NewUserService(users), NewPlatformService("secret", li, accounts))

	userID, err := svc.LoginCallback(context.Background(), "good")
	if err != nil {
		t.Fatalf("LoginCallback: %v", err)
	}
	if users.byEmail["ada@example.com"] == nil || users.byEmail["ada@example.com"].ID != userID {
		t.Fatalf("user not created: %+v", users.byEmail)
	}
	if accounts.items[userID] == nil || accounts.items[userID].AccountID != "member-1" {
		t.Fatalf("credentials not stored: %+v", accounts.items)
	}

	again, err := svc.LoginCallback(context.Background(), "good")
	if err != nil || again != userID || len(users.byEmail) != 1 {
		t.Fatalf("second login should reuse the user: id=%d err=%v", again, err)
	}
}

func TestLoginCallbackRejectsMissingInput(t *testing.T) {
	li := &exchangeLinkedIn{identity: &transfer.LinkedInIdentity{Sub: "m", AccessToken: "t"}}
	svc := NewAuthService(li, NewUserService(&memUserRepo{}), NewPlatformService("secret", li, &memSocialAccountRepo{}))

	if _, err := svc.LoginCallback(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty code")
	}
	if _, err := svc.LoginCallback(context.Background(), "good"); err == nil {
		t.Fatalf("expected error when email is missing")
	}
}
