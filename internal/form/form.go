// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form parses and validates submitted HTML forms. Validation is a
// guard in front of the backend, which stays authoritative.
package form

import (
	"html"
	"math"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Form field names.
const (
	FieldName     = "name"
	FieldCategory = "category"
	FieldPrice    = "price"
	FieldQuantity = "quantity"
	FieldMinPrice = "min_price"
	FieldMaxPrice = "max_price"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldFullName = "full_name"
)

// MinPasswordLength is the shortest password the login and register
// forms accept.
const MinPasswordLength = 6

// Errors maps a field name to its single error message.
type Errors map[string]string

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Get returns the error for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Valid reports whether no errors were recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// stripTags removes every tag from free-text input.
var stripTags = bluemonday.StrictPolicy()

// text trims a value and strips any markup from it.
func text(values url.Values, field string) string {
	v := strings.TrimSpace(values.Get(field))
	if v == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(v)))
}

// parseFloat accepts only finite numbers.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// validEmail accepts a bare address such as "user@example.com".
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
