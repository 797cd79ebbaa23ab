// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("SWEETSHOP_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: SWEETSHOP_TEST_REDIS_URL not set")
	}
	return url
}

func TestNewRedisStore_EmptyURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "", ""); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "not a url", ""); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestRedisStore_Lifecycle(t *testing.T) {
	url := skipIfNoRedis(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, url, "sweetshop:test:")
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	token := "lifecycle-token"
	_ = store.Delete(token)

	if _, found, err := store.Find(token); err != nil || found {
		t.Fatalf("Find before commit: found=%v err=%v", found, err)
	}

	if err := store.Commit(token, []byte("payload"), time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	b, found, err := store.Find(token)
	if err != nil || !found {
		t.Fatalf("Find after commit: found=%v err=%v", found, err)
	}
	if string(b) != "payload" {
		t.Errorf("Find = %q, want %q", b, "payload")
	}

	if err := store.Delete(token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := store.Find(token); found {
		t.Error("expected token to be gone after Delete")
	}
}

func TestRedisStore_ExpiredCommitDeletes(t *testing.T) {
	url := skipIfNoRedis(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, url, "sweetshop:test:")
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	token := "expired-token"
	if err := store.Commit(token, []byte("x"), time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := store.Commit(token, []byte("x"), time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Commit expired: %v", err)
	}
	if _, found, _ := store.Find(token); found {
		t.Error("expected expired commit to remove the session")
	}
}
