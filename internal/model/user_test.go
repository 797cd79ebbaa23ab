// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{"full name", &User{Email: "a@example.com", FullName: "Ann"}, "Ann"},
		{"email fallback", &User{Email: "a@example.com"}, "a@example.com"},
		{"nil user", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserJSONFieldNames(t *testing.T) {
	var u User
	raw := `{"id":7,"email":"admin@example.com","full_name":"Admin","is_admin":true}`
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if u.ID != 7 || u.Email != "admin@example.com" || u.FullName != "Admin" || !u.IsAdmin {
		t.Errorf("decoded user = %+v", u)
	}
}
