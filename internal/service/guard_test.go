// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"testing"
)

func TestGuard_RejectsDuplicateInFlight(t *testing.T) {
	g := NewGuard()
	calls := 0

	err := g.Do("s1|purchase|3", func() error {
		calls++
		if !g.InFlight("s1|purchase|3") {
			t.Error("expected key to be in flight")
		}
		inner := g.Do("s1|purchase|3", func() error {
			calls++
			return nil
		})
		if !errors.Is(inner, ErrSubmissionInFlight) {
			t.Errorf("nested Do error = %v, want ErrSubmissionInFlight", inner)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if g.InFlight("s1|purchase|3") {
		t.Error("key still held after Do returned")
	}
}

func TestGuard_IndependentKeys(t *testing.T) {
	var g Guard
	ran := false

	_ = g.Do("a", func() error {
		return g.Do("b", func() error {
			ran = true
			return nil
		})
	})

	if !ran {
		t.Error("different keys must not block each other")
	}
}

func TestGuard_ReleasesOnError(t *testing.T) {
	g := NewGuard()
	wantErr := errors.New("boom")

	if err := g.Do("k", func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("Do() error = %v, want %v", err, wantErr)
	}
	if err := g.Do("k", func() error { return nil }); err != nil {
		t.Errorf("second Do() error = %v, want nil", err)
	}
}
