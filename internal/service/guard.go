// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"sync"
)

// ErrSubmissionInFlight is returned when the same submission is already
// being processed.
var ErrSubmissionInFlight = errors.New("submission already in progress")

// Guard rejects a submission while an identical one is still running.
// The zero value is ready to use.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewGuard creates a new Guard.
func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]struct{})}
}

// Do runs fn unless key is already in flight, in which case it returns
// ErrSubmissionInFlight without calling fn.
func (g *Guard) Do(key string, fn func() error) error {
	if !g.acquire(key) {
		return ErrSubmissionInFlight
	}
	defer g.release(key)
	return fn()
}

// InFlight reports whether key is currently held.
func (g *Guard) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[key]
	return ok
}

func (g *Guard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight == nil {
		g.inflight = make(map[string]struct{})
	}
	if _, busy := g.inflight[key]; busy {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

func (g *Guard) release(key string) {
	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
}
