package service

import (
	"context"
	"errors"
	"log/slog"
)

type AuthService interface {
	LoginURL(state string) string
	// LoginCallback signs the member in, creating the user on first login,
	// and keeps the granted token as their publishing credentials.
	LoginCallback(ctx context.Context, code string) (int64, error)
}

type authService struct {
	li LinkedInService
	u  UserService
	ps PlatformService
}

// NewAuthService expects li to be configured with the login redirect URI.
func NewAuthService(li LinkedInService, u UserService, ps PlatformService) AuthService {
	return &authService{
		li: li,
		u:  u,
		ps: ps,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.li.AuthURL(state)
}

func (s *authService) LoginCallback(ctx context.Context, code string) (int64, error) {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return 0, err
	}

	identity, err := s.li.Exchange(ctx, code)
	if err != nil {
		return 0, err
	}

	if identity.Email == "" {
		err = errors.New("linkedin did not share an email address")
		slog.Info(err.Error())
		return 0, err
	}

	user, err := s.u.EnsureUser(ctx, identity.Email, identity.Name)
	if err != nil {
		return 0, err
	}

	if _, err := s.ps.StoreIdentity(ctx, user.ID, identity); err != nil {
		slog.Info("failed to store linkedin credentials on login", "user_id", user.ID, "error", err)
	}

	return user.ID, nil
}
