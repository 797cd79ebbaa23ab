// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	var s MemoryStorage

	if _, ok, _ := s.Get(ctx, KeyToken); ok {
		t.Fatal("expected empty storage")
	}

	_ = s.Set(ctx, KeyToken, "abc")
	_ = s.Set(ctx, KeyUser, "{}")

	if v, ok, _ := s.Get(ctx, KeyToken); !ok || v != "abc" {
		t.Errorf("Get(token) = %q, %v", v, ok)
	}

	_ = s.Clear(ctx, KeyToken, KeyUser)

	if _, ok, _ := s.Get(ctx, KeyToken); ok {
		t.Error("token still present after Clear")
	}
	if _, ok, _ := s.Get(ctx, KeyUser); ok {
		t.Error("user still present after Clear")
	}
}

func TestManagerStorage(t *testing.T) {
	sm := New(setupTestDB(t), true)
	storage := NewManagerStorage(sm)

	var got struct {
		before, after bool
		value         string
		token         string
	}

	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		_, got.before, _ = storage.Get(ctx, KeyToken)
		_ = storage.Set(ctx, KeyToken, "bearer-1")
		got.value, _, _ = storage.Get(ctx, KeyToken)
		got.token = TokenSource(storage).Token(ctx)
		_ = storage.Clear(ctx, KeyToken)
		_, got.after, _ = storage.Get(ctx, KeyToken)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got.before {
		t.Error("expected no token before Set")
	}
	if got.value != "bearer-1" {
		t.Errorf("value = %q, want bearer-1", got.value)
	}
	if got.token != "bearer-1" {
		t.Errorf("TokenSource = %q, want bearer-1", got.token)
	}
	if got.after {
		t.Error("expected token removed after Clear")
	}
}

func TestTokenSource_Missing(t *testing.T) {
	if tok := TokenSource(NewMemoryStorage()).Token(context.Background()); tok != "" {
		t.Errorf("Token() = %q, want empty", tok)
	}
}
