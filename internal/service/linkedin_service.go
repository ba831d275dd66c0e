package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	config "github.com/maheshrc27/scrapeflow/configs"
	"github.com/maheshrc27/scrapeflow/internal/transfer"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

var linkedInScopes = []string{"openid", "profile", "email", "w_member_social"}

type LinkedInService interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*transfer.LinkedInIdentity, error)
	// PublishOnce makes a single post creation attempt and returns the
	// external post id.
	PublishOnce(ctx context.Context, accessToken, personID, text string) (string, error)
}

type linkedInService struct {
	oauth  *oauth2.Config
	apiURL string
	client *http.Client
}

func NewLinkedInService(cfg config.LinkedIn, timeout time.Duration) LinkedInService {
	return newLinkedInService(cfg, linkedin.Endpoint, timeout)
}

func newLinkedInService(cfg config.LinkedIn, endpoint oauth2.Endpoint, timeout time.Duration) *linkedInService {
	return &linkedInService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       linkedInScopes,
			Endpoint:     endpoint,
		},
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (s *linkedInService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

func (s *linkedInService) Exchange(ctx context.Context, code string) (*transfer.LinkedInIdentity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, errors.New("linkedin response has no id_token")
	}

	// The id_token arrives directly from the token endpoint over TLS, so its
	// signature is not checked here.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode id_token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("id_token has no subject")
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return &transfer.LinkedInIdentity{
		Sub:         sub,
		Name:        name,
		Email:       email,
		AccessToken: token.AccessToken,
		ExpiresAt:   token.Expiry,
	}, nil
}

func (s *linkedInService) PublishOnce(ctx context.Context, accessToken, personID, text string) (string, error) {
	if strings.TrimSpace(accessToken) == "" || strings.TrimSpace(personID) == "" {
		return "", ErrMissingCredentials
	}

	post := transfer.LinkedInUGCPost{
		Author:         "urn:li:person:" + personID,
		LifecycleState: "PUBLISHED",
		SpecificContent: transfer.LinkedInSpecificContent{
			ShareContent: transfer.LinkedInShareContent{
				ShareCommentary:    transfer.LinkedInShareCommentary{Text: text},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: transfer.LinkedInVisibility{MemberNetworkVisibility: "PUBLIC"},
	}

	body, err := json.Marshal(post)
	if err != nil {
		return "", &PublishError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/v2/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return "", &PublishError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", &PublishError{Transient: true, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &PublishError{StatusCode: resp.StatusCode, Transient: true, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr transfer.LinkedInErrorResponse
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return "", &PublishError{
			StatusCode: resp.StatusCode,
			Transient:  transientStatus(resp.StatusCode),
			Err:        errors.New(msg),
		}
	}

	var created transfer.LinkedInUGCPostResponse
	_ = json.Unmarshal(respBody, &created)
	if created.ID == "" {
		created.ID = resp.Header.Get("X-RestLi-Id")
	}
	if created.ID == "" {
		return "", &PublishError{StatusCode: resp.StatusCode, Err: errors.New("response carried no post id")}
	}

	return created.ID, nil
}
