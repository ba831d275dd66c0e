package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/transfer"
	"github.com/maheshrc27/scrapeflow/pkg/utils"
)

type exchangeLinkedIn struct {
	fakeLinkedIn
	identity *transfer.LinkedInIdentity
}

func (e *exchangeLinkedIn) Exchange(ctx context.Context, code string) (*transfer.LinkedInIdentity, error) {
	if code != "good" {
		return nil, errors.New("bad code")
	}
	return e.identity, nil
}

func TestConnectStoresEncryptedToken(t *testing.T) {
	li := &exchangeLinkedIn{identity: &transfer.LinkedInIdentity{
		Sub:         "member-1",
		Name:        "Ada",
		AccessToken: "li-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	repo := &memSocialAccountRepo{}
	svc := NewPlatformService("secret", li, repo)

	account, err := svc.Connect(context.Background(), 3, "good")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	stored := repo.items[3]
	if stored == nil || stored.AccountID != "member-1" || stored.Platform != models.PlatformLinkedIn {
		t.Fatalf("unexpected stored account %+v", stored)
	}
	if stored.AccessToken == "li-token" {
		t.Fatalf("token stored in clear")
	}
	plain, err := utils.Decrypt(stored.AccessToken, utils.DeriveKey("secret"))
	if err != nil || plain != "li-token" {
		t.Fatalf("stored token decrypts to %q, %v", plain, err)
	}
	if account.ID == 0 {
		t.Fatalf("id not set")
	}

	if _, err := svc.Connect(context.Background(), 3, "bad"); err == nil {
		t.Fatalf("expected exchange failure")
	}
}

func TestDisconnect(t *testing.T) {
	repo := &memSocialAccountRepo{items: map[int64]*models.SocialAccount{3: {UserID: 3}}}
	svc := NewPlatformService("secret", &fakeLinkedIn{}, repo)

	if err := svc.Disconnect(context.Background(), 3, models.PlatformLinkedIn); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if err := svc.Disconnect(context.Background(), 3, models.PlatformLinkedIn); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("second Disconnect: %v", err)
	}
}
