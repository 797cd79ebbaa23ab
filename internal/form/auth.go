// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/olegiv/sweetshop-go/internal/model"
)

// Validation messages for the auth forms.
const (
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Invalid email address"
	MsgPasswordRequired = "Password is required"
	MsgFullNameRequired = "Full name is required"
)

// MsgPasswordShort is shown when a password is below MinPasswordLength.
var MsgPasswordShort = fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)

// ParseLogin validates the sign-in form.
func ParseLogin(values url.Values) (model.LoginCredentials, Errors) {
	errs := Errors{}
	creds := model.LoginCredentials{
		Email:    parseEmail(values, errs),
		Password: parsePassword(values, errs),
	}
	return creds, errs
}

// ParseRegister validates the sign-up form.
func ParseRegister(values url.Values) (model.RegisterData, Errors) {
	errs := Errors{}
	data := model.RegisterData{
		Email:    parseEmail(values, errs),
		FullName: text(values, FieldFullName),
	}
	if data.FullName == "" {
		errs.Add(FieldFullName, MsgFullNameRequired)
	}
	data.Password = parsePassword(values, errs)
	return data, errs
}

func parseEmail(values url.Values, errs Errors) string {
	email := strings.TrimSpace(values.Get(FieldEmail))
	switch {
	case email == "":
		errs.Add(FieldEmail, MsgEmailRequired)
	case !validEmail(email):
		errs.Add(FieldEmail, MsgEmailInvalid)
	}
	return email
}

// Passwords are taken verbatim; only emptiness and length are checked.
func parsePassword(values url.Values, errs Errors) string {
	pw := values.Get(FieldPassword)
	switch {
	case pw == "":
		errs.Add(FieldPassword, MsgPasswordRequired)
	case len([]rune(pw)) < MinPasswordLength:
		errs.Add(FieldPassword, MsgPasswordShort)
	}
	return pw
}
