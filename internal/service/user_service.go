package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/repository"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	// EnsureUser returns the user with email, creating it when absent.
	EnsureUser(ctx context.Context, email, name string) (*models.User, error)
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Error getting user info")
	}

	if !isExist {
		err = errors.New("User not found")
		slog.Info(err.Error())
		return nil, fmt.Errorf("User doesn't exist")
	}

	return user, nil
}

func (s *userService) EnsureUser(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	user, isExist, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("Error getting user info")
	}
	if isExist {
		return user, nil
	}

	user = &models.User{Email: email, Name: name}
	id, err := s.u.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("Error creating user")
	}
	user.ID = id
	return user, nil
}
