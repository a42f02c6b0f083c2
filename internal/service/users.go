// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/mail"
	"unicode/utf8"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/model"
)

// Account field limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
)

// UserRepository is the storage used by UserService and AuthService.
type UserRepository interface {
	repository[model.User, model.UserPatch]
	FindByUsername(ctx context.Context, username string) (model.User, bool, error)
	FindConflict(ctx context.Context, username, email, excludeID string) (string, error)
	TouchLastLogin(ctx context.Context, id string) error
	CountActiveAdmins(ctx context.Context) (int, error)
}

// UserService manages accounts on behalf of admins.
type UserService struct {
	repo UserRepository
	hash func(string) (string, error)
}

// NewUserService creates a UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, hash: auth.HashPassword}
}

// List returns one page of users matching f.
func (s *UserService) List(ctx context.Context, f model.Filter, page, limit int) (Page[model.User], error) {
	return listPage[model.User, model.UserPatch](ctx, s.repo, f, page, limit)
}

// Get returns the user with id.
func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	return findOrNotFound[model.User, model.UserPatch](ctx, s.repo, "User", id)
}

func validUsername(verr *model.ValidationError, username string) {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		verr.Add("username", "must be between 3 and 50 characters")
	}
}

func validEmail(verr *model.ValidationError, email string) {
	if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "must be a valid email address")
	}
}

func validPassword(verr *model.ValidationError, field, password string) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		verr.Add(field, "must be at least 6 characters")
	}
}

func validRole(verr *model.ValidationError, r model.Role) {
	if !r.Valid() {
		verr.Add("role", "must be one of admin, editor, viewer")
	}
}

func (s *UserService) checkConflict(ctx context.Context, username, email, excludeID string) error {
	field, err := s.repo.FindConflict(ctx, username, email, excludeID)
	if err != nil {
		return err
	}
	switch field {
	case "username":
		return &model.ConflictError{Field: field, Message: "Username already exists"}
	case "email":
		return &model.ConflictError{Field: field, Message: "Email already exists"}
	}
	return nil
}

// Create validates u, hashes its plain-text password and stores it.
func (s *UserService) Create(ctx context.Context, u model.User) (model.User, error) {
	verr := &model.ValidationError{}
	validUsername(verr, u.Username)
	validEmail(verr, u.Email)
	validPassword(verr, "password", u.Password)
	validRole(verr, u.Role)
	if err := verr.OrNil(); err != nil {
		return model.User{}, err
	}

	if err := s.checkConflict(ctx, u.Username, u.Email, ""); err != nil {
		return model.User{}, err
	}

	hash, err := s.hash(u.Password)
	if err != nil {
		return model.User{}, err
	}
	u.Password = hash
	u.LastLogin = nil
	return s.repo.Create(ctx, u)
}

// Update applies patch to the user with id. A set password is hashed
// before it is stored.
func (s *UserService) Update(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	verr := &model.ValidationError{}
	if v, ok := patch.Username.Get(); ok {
		validUsername(verr, v)
	}
	if v, ok := patch.Email.Get(); ok {
		validEmail(verr, v)
	}
	if v, ok := patch.Password.Get(); ok {
		validPassword(verr, "password", v)
	}
	if v, ok := patch.Role.Get(); ok {
		validRole(verr, v)
	}
	if err := verr.OrNil(); err != nil {
		return model.User{}, err
	}

	target, err := s.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if patch.Role.IsSet() || patch.IsActive.IsSet() {
		admins, err := s.repo.CountActiveAdmins(ctx)
		if err != nil {
			return model.User{}, err
		}
		if ok, reason := auth.UpdateDecision(target, patch, admins); !ok {
			return model.User{}, &model.AuthorizationError{Message: reason}
		}
	}
	if err := s.checkConflict(ctx, patch.Username.OrElse(""), patch.Email.OrElse(""), id); err != nil {
		return model.User{}, err
	}

	if v, ok := patch.Password.Get(); ok {
		hash, err := s.hash(v)
		if err != nil {
			return model.User{}, err
		}
		patch.Password = model.Some(hash)
	}

	return updateOrNotFound[model.User, model.UserPatch](ctx, s.repo, "User", id, patch)
}

// Delete removes the user with id on behalf of actor.
func (s *UserService) Delete(ctx context.Context, actor model.User, id string) error {
	target, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	admins, err := s.repo.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if ok, reason := auth.DeleteDecision(actor, target, admins); !ok {
		return &model.AuthorizationError{Message: reason}
	}
	return deleteOrNotFound[model.User, model.UserPatch](ctx, s.repo, "User", id)
}
