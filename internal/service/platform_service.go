package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/repository"
	"github.com/maheshrc27/scrapeflow/internal/transfer"
	"github.com/maheshrc27/scrapeflow/pkg/utils"
)

var ErrAccountNotFound = errors.New("social account not found")

type PlatformService interface {
	GetAuthURL(platform, state string) string
	// Connect completes the OAuth flow and stores the encrypted credentials.
	Connect(ctx context.Context, userID int64, code string) (*models.SocialAccount, error)
	StoreIdentity(ctx context.Context, userID int64, identity *transfer.LinkedInIdentity) (*models.SocialAccount, error)
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Disconnect(ctx context.Context, userID int64, platform string) error
}

type platformService struct {
	secretKey string
	li        LinkedInService
	sa        repository.SocialAccountRepository
}

func NewPlatformService(secretKey string, li LinkedInService, sa repository.SocialAccountRepository) PlatformService {
	return &platformService{
		secretKey: secretKey,
		li:        li,
		sa:        sa,
	}
}

func (s *platformService) GetAuthURL(platform, state string) string {
	switch platform {
	case models.PlatformLinkedIn:
		return s.li.AuthURL(state)
	default:
		return ""
	}
}

func (s *platformService) Connect(ctx context.Context, userID int64, code string) (*models.SocialAccount, error) {
	if userID == 0 {
		err := errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	identity, err := s.li.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.StoreIdentity(ctx, userID, identity)
}

func (s *platformService) StoreIdentity(ctx context.Context, userID int64, identity *transfer.LinkedInIdentity) (*models.SocialAccount, error) {
	encrypted, err := utils.Encrypt([]byte(identity.AccessToken), utils.DeriveKey(s.secretKey))
	if err != nil {
		return nil, fmt.Errorf("error encrypting access token")
	}

	name := identity.Name
	if name == "" {
		name = identity.Email
	}

	account := &models.SocialAccount{
		UserID:         userID,
		Platform:       models.PlatformLinkedIn,
		AccountID:      identity.Sub,
		AccountName:    name,
		AccessToken:    encrypted,
		TokenExpiresAt: identity.ExpiresAt,
	}
	if account.TokenExpiresAt.IsZero() {
		account.TokenExpiresAt = GetExpiresAt(defaultLinkedInTokenTTL)
	}

	id, err := s.sa.Upsert(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error saving social account")
	}
	account.ID = id

	return account, nil
}

func (s *platformService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	if userID == 0 {
		err := errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	accounts, err := s.sa.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting social accounts")
	}

	return accounts, nil
}

func (s *platformService) Disconnect(ctx context.Context, userID int64, platform string) error {
	ok, err := s.sa.Remove(ctx, userID, platform)
	if err != nil {
		return fmt.Errorf("error removing account info")
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}
