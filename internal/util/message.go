// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"

	"github.com/olegiv/sweetshop-go/internal/apiclient"
)

// Fallback messages for ErrorMessage.
const (
	MsgGenericError    = "An error occurred"
	MsgUnexpectedError = "An unexpected error occurred"
)

// ErrorMessage extracts the user-facing message from an error.
// A backend "detail" string wins; a non-string detail becomes a generic
// message; otherwise the error's own text is used.
func ErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpectedError
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.HasDetail() {
		if detail, ok := apiErr.DetailString(); ok {
			return detail
		}
		return MsgGenericError
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnexpectedError
}
