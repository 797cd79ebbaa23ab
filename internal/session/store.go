// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/sweetshop-go/internal/model"
)

// ErrNotAuthenticated is returned when an operation needs a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the subset of the backend client the Store needs.
type AuthAPI interface {
	Login(ctx context.Context, creds model.LoginCredentials) (*model.AuthResponse, error)
	Register(ctx context.Context, data model.RegisterData) (*model.User, error)
	CurrentUser(ctx context.Context) (*model.User, error)
}

// State is a snapshot of the authentication state.
type State struct {
	User          *model.User
	Token         string
	Authenticated bool
	Loading       bool
}

// Store holds who is signed in for one browser session and mirrors it
// into Storage. A session is either fully authenticated (token and user)
// or fully anonymous.
type Store struct {
	storage Storage
	api     AuthAPI
	logger  *slog.Logger

	mu            sync.RWMutex
	user          *model.User
	token         string
	authenticated bool
	loading       bool
	loaded        sync.Once
}

// NewStore returns a Store in the loading state.
func NewStore(storage Storage, api AuthAPI, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: storage,
		api:     api,
		logger:  logger,
		loading: true,
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		User:          s.user,
		Token:         s.token,
		Authenticated: s.authenticated,
		Loading:       s.loading,
	}
}

// User returns the signed-in user or nil.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether both token and user are held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// IsAdmin reports whether the signed-in user has the admin flag.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated && s.user != nil && s.user.IsAdmin
}

// Login exchanges credentials for a token, stores it, then fetches and
// stores the user record. Any failure clears both keys so no half-written
// or leftover session survives.
func (s *Store) Login(ctx context.Context, creds model.LoginCredentials) error {
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		s.clearKeys(ctx)
		s.reset()
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.storage.Set(ctx, KeyToken, resp.AccessToken); err != nil {
		s.clearKeys(ctx)
		s.reset()
		return fmt.Errorf("storing token: %w", err)
	}

	user, err := s.api.CurrentUser(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.clearKeys(ctx)
		s.reset()
		return err
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		s.clearKeys(ctx)
		s.reset()
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := s.storage.Set(ctx, KeyUser, string(encoded)); err != nil {
		s.clearKeys(ctx)
		s.reset()
		return fmt.Errorf("storing user: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.token = resp.AccessToken
	s.authenticated = true
	s.mu.Unlock()

	s.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return nil
}

// Register creates the account and then logs in with the same
// credentials. No session state is set if either step fails.
func (s *Store) Register(ctx context.Context, data model.RegisterData) error {
	if _, err := s.api.Register(ctx, data); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Login(ctx, model.LoginCredentials{Email: data.Email, Password: data.Password})
}

// Logout clears both storage keys and resets to anonymous. It never fails;
// storage errors are only logged.
func (s *Store) Logout(ctx context.Context) {
	s.clearKeys(ctx)
	s.reset()
}

// CheckAuth restores the session from storage without contacting the
// backend. Missing keys or an unreadable user record leave the Store
// anonymous. Loading is cleared exactly once.
func (s *Store) CheckAuth(ctx context.Context) {
	defer s.loaded.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	})

	token, user, ok := s.restore(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.user, s.token, s.authenticated = nil, "", false
		return
	}
	s.user, s.token, s.authenticated = user, token, true
}

func (s *Store) restore(ctx context.Context) (string, *model.User, bool) {
	token, ok, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		s.logger.Warn("failed to read session token", "error", err)
		return "", nil, false
	}
	if !ok || token == "" {
		return "", nil, false
	}

	raw, ok, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		s.logger.Warn("failed to read session user", "error", err)
		return "", nil, false
	}
	if !ok || raw == "" {
		return "", nil, false
	}

	var user *model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user == nil {
		return "", nil, false
	}
	return token, user, true
}

func (s *Store) clearKeys(ctx context.Context) {
	if err := s.storage.Clear(context.WithoutCancel(ctx), KeyToken, KeyUser); err != nil {
		s.logger.Warn("failed to clear session storage", "error", err)
	}
}

func (s *Store) reset() {
	s.mu.Lock()
	s.user, s.token, s.authenticated = nil, "", false
	s.mu.Unlock()
}
