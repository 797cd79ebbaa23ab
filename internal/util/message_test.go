// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/olegiv/sweetshop-go/internal/apiclient"
)

// emptyError is an error whose message is blank.
type emptyError struct{}

func (emptyError) Error() string { return "" }

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "string detail",
			err:  &apiclient.Error{StatusCode: 400, Detail: json.RawMessage(`"Sweet not found"`)},
			want: "Sweet not found",
		},
		{
			name: "object detail",
			err:  &apiclient.Error{StatusCode: 422, Detail: json.RawMessage(`{"field":"price"}`)},
			want: MsgGenericError,
		},
		{
			name: "wrapped string detail",
			err:  fmt.Errorf("purchasing: %w", &apiclient.Error{StatusCode: 400, Detail: json.RawMessage(`"Insufficient quantity in stock"`)}),
			want: "Insufficient quantity in stock",
		},
		{
			name: "response without detail",
			err:  &apiclient.Error{StatusCode: 500},
			want: "request failed with status code 500",
		},
		{
			name: "empty string detail",
			err:  &apiclient.Error{StatusCode: 400, Detail: json.RawMessage(`""`)},
			want: "request failed with status code 400",
		},
		{
			name: "false detail",
			err:  &apiclient.Error{StatusCode: 400, Detail: json.RawMessage(`false`)},
			want: "request failed with status code 400",
		},
		{
			name: "zero detail",
			err:  &apiclient.Error{StatusCode: 409, Detail: json.RawMessage(`0`)},
			want: "request failed with status code 409",
		},
		{
			name: "true detail",
			err:  &apiclient.Error{StatusCode: 400, Detail: json.RawMessage(`true`)},
			want: MsgGenericError,
		},
		{
			name: "plain error message",
			err:  errors.New("Network Error"),
			want: "Network Error",
		},
		{
			name: "blank message",
			err:  emptyError{},
			want: MsgUnexpectedError,
		},
		{
			name: "nil",
			err:  nil,
			want: MsgUnexpectedError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
