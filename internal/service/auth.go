// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/model"
)

// Authentication failures reported by AuthService.Authenticate.
var (
	ErrInvalidToken = auth.ErrInvalidToken
	ErrInactiveUser = errors.New("invalid or inactive user")
)

// messageInvalidCredentials is returned for every failed login so that the
// response does not reveal which part was wrong.
const messageInvalidCredentials = "Invalid credentials"

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      model.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Client describes the caller of a login, for the audit log.
type Client struct {
	IP        string
	UserAgent string
}

// AuthService verifies credentials and access tokens.
type AuthService struct {
	users  UserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login checks username and password and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string, client Client) (LoginResult, error) {
	u, found, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}
	if !found || !u.IsActive {
		auth.EqualizeTiming(password)
		s.logFailure(username, client, "unknown or inactive user")
		return LoginResult{}, &model.AuthenticationError{Message: messageInvalidCredentials}
	}

	ok, err := auth.CheckPassword(password, u.Password)
	if err != nil {
		s.logger.Error("stored password hash is unreadable", "user_id", u.ID, "error", err)
		return LoginResult{}, &model.AuthenticationError{Message: messageInvalidCredentials}
	}
	if !ok {
		s.logFailure(username, client, "wrong password")
		return LoginResult{}, &model.AuthenticationError{Message: messageInvalidCredentials}
	}

	if auth.NeedsRehash(u.Password) {
		s.rehash(ctx, u.ID, password)
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		return LoginResult{}, err
	}
	ts := s.now()
	u.LastLogin = &ts

	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return LoginResult{}, err
	}

	ua := useragent.Parse(client.UserAgent)
	s.logger.Info("user logged in",
		"user_id", u.ID,
		"username", u.Username,
		"ip", client.IP,
		"browser", orUnknown(ua.Name),
		"os", orUnknown(ua.OS),
		"device", deviceType(ua),
	)

	return LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) logFailure(username string, client Client, reason string) {
	s.logger.Warn("login failed", "username", username, "ip", client.IP, "reason", reason)
}

// rehash upgrades a hash made with outdated parameters. Failures are
// logged only; the login itself already succeeded.
func (s *AuthService) rehash(ctx context.Context, id, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		_, _, err = s.users.Update(ctx, id, model.UserPatch{Password: model.Some(hash)})
	}
	if err != nil {
		s.logger.Warn("password rehash failed", "user_id", id, "error", err)
	}
}

// Authenticate resolves a bearer token to an active user. It returns
// ErrInvalidToken for bad tokens and ErrInactiveUser when the account is
// gone or disabled.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return model.User{}, err
	}
	u, found, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		return model.User{}, err
	}
	if !found || !u.IsActive {
		return model.User{}, ErrInactiveUser
	}
	return u, nil
}

// ChangePassword replaces the password of the user with id after verifying
// the current one.
func (s *AuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	verr := &model.ValidationError{}
	validPassword(verr, "newPassword", next)
	if err := verr.OrNil(); err != nil {
		return err
	}

	u, found, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return &model.NotFoundError{Entity: "User", ID: id}
	}

	ok, err := auth.CheckPassword(current, u.Password)
	if err != nil || !ok {
		return &model.AuthenticationError{Message: "Current password is incorrect"}
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if _, _, err := s.users.Update(ctx, id, model.UserPatch{Password: model.Some(hash)}); err != nil {
		return err
	}
	s.logger.Info("password changed", "user_id", id)
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Bot:
		return "bot"
	default:
		return "desktop"
	}
}
