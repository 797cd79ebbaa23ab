// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session loading, route
// guarding, and request protection.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/sweetshop-go/internal/model"
	"github.com/olegiv/sweetshop-go/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyStore holds the request's *session.Store.
const ContextKeyStore ContextKey = "session_store"

// LoginPath is where anonymous visitors are sent.
const LoginPath = "/login"

// LoadSession builds a session.Store over the browser's scs session,
// restores it with CheckAuth and puts it in the request context. It must
// run inside sm.LoadAndSave.
func LoadSession(sm *scs.SessionManager, api session.AuthAPI, logger *slog.Logger) func(http.Handler) http.Handler {
	storage := session.NewManagerStorage(sm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := session.NewStore(storage, api, logger)
			st.CheckAuth(r.Context())

			ctx := context.WithValue(r.Context(), ContextKeyStore, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithStore returns a copy of ctx carrying st.
func WithStore(ctx context.Context, st *session.Store) context.Context {
	return context.WithValue(ctx, ContextKeyStore, st)
}

// GetStore returns the request's session store, or nil outside LoadSession.
func GetStore(r *http.Request) *session.Store {
	st, _ := r.Context().Value(ContextKeyStore).(*session.Store)
	return st
}

// GetUser returns the signed-in user, or nil.
func GetUser(r *http.Request) *model.User {
	if st := GetStore(r); st != nil {
		return st.User()
	}
	return nil
}

// GetUserID returns the signed-in user's id, or 0.
func GetUserID(r *http.Request) int64 {
	if u := GetUser(r); u != nil {
		return u.ID
	}
	return 0
}

// IsAdmin reports whether the signed-in user is an administrator.
func IsAdmin(r *http.Request) bool {
	st := GetStore(r)
	return st != nil && st.IsAdmin()
}

// RequireAuth redirects anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := GetStore(r)
		if st == nil || !st.IsAuthenticated() {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated sends signed-in users away from the login and
// register pages.
func RedirectIfAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if st := GetStore(r); st != nil && st.IsAuthenticated() {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin answers 403 for signed-in users without the admin flag.
// Anonymous visitors are redirected to login.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		if !user.IsAdmin {
			slog.Warn("access denied",
				"category", model.EventCategoryAuth,
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", user.ID,
				"ip", GetClientIP(r),
			)
			http.Error(w, "Forbidden: administrator access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
