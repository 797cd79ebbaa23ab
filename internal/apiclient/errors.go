// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any backend response with status 401.
// Callers decide what to do with it; the client never navigates or clears
// state on its own.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx backend response.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the raw "detail" member of the JSON error body, nil when
	// the body has none (or it is JSON null).
	Detail json.RawMessage
	Body   []byte
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// Is lets errors.Is match ErrUnauthorized.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// HasDetail reports whether the response carried a usable detail.
// Empty strings, false and zero count as absent.
func (e *Error) HasDetail() bool {
	d := bytes.TrimSpace(e.Detail)
	if len(d) == 0 {
		return false
	}
	switch string(d) {
	case "null", "false", `""`:
		return false
	}
	var n json.Number
	if err := json.Unmarshal(d, &n); err == nil {
		if f, err := n.Float64(); err == nil && f == 0 {
			return false
		}
	}
	return true
}

// DetailString returns the detail when it is a JSON string.
func (e *Error) DetailString() (string, bool) {
	if !e.HasDetail() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err != nil {
		return "", false
	}
	return s, true
}

// newError builds an Error from a response body.
func newError(method, path string, status int, body []byte) *Error {
	e := &Error{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if d := bytes.TrimSpace(envelope.Detail); len(d) > 0 && !bytes.Equal(d, []byte("null")) {
			e.Detail = d
		}
	}
	return e
}

// IsUnauthorized is shorthand for errors.Is(err, ErrUnauthorized).
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
