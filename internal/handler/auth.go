// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/sweetshop-go/internal/form"
	"github.com/olegiv/sweetshop-go/internal/middleware"
	"github.com/olegiv/sweetshop-go/internal/model"
	"github.com/olegiv/sweetshop-go/internal/render"
	"github.com/olegiv/sweetshop-go/internal/service"
	"github.com/olegiv/sweetshop-go/internal/util"
)

// AuthPage holds data for the login and register forms.
type AuthPage struct {
	Values url.Values
	Errors form.Errors
}

// AuthHandler handles sign in, sign up and sign out.
type AuthHandler struct {
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	eventService    *service.EventService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, events *service.EventService) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		eventService:    events,
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, url.Values{}, form.Errors{}, "")
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	values := url.Values{form.FieldEmail: {r.PostForm.Get(form.FieldEmail)}}
	creds, errs := form.ParseLogin(r.PostForm)
	if !errs.Valid() {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, values, errs, "")
		return
	}

	ip := middleware.GetClientIP(r)
	if locked, remaining := h.loginProtection.IsAccountLocked(creds.Email); locked {
		slog.Warn("login attempt on locked account", "email", creds.Email, "ip", ip, "remaining", remaining)
		h.renderLogin(w, r, http.StatusTooManyRequests, values, errs, MsgAccountLocked)
		return
	}

	st := middleware.GetStore(r)
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session token", "error", err)
		return
	}

	if err := st.Login(r.Context(), creds); err != nil {
		nowLocked, lockDuration := h.loginProtection.RecordFailedAttempt(creds.Email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Failed login attempt", ip, clientMetadata(r, map[string]any{
			"email":  creds.Email,
			"locked": nowLocked,
		}))
		if nowLocked {
			slog.Warn("account locked after failed attempts", "email", creds.Email, "ip", ip, "duration", lockDuration)
			h.renderLogin(w, r, http.StatusTooManyRequests, values, form.Errors{}, MsgAccountLocked)
			return
		}
		h.renderLogin(w, r, apiErrorStatus(err), values, form.Errors{}, util.ErrorMessage(err))
		return
	}

	h.loginProtection.RecordSuccessfulLogin(creds.Email)
	user := st.User()
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", ip, clientMetadata(r, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	}))
	flashSuccess(w, r, h.renderer, RouteRoot, MsgLoginSuccess)
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, http.StatusOK, url.Values{}, form.Errors{}, "")
}

// Register creates the account and signs the visitor in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	values := url.Values{
		form.FieldEmail:    {r.PostForm.Get(form.FieldEmail)},
		form.FieldFullName: {r.PostForm.Get(form.FieldFullName)},
	}
	data, errs := form.ParseRegister(r.PostForm)
	if !errs.Valid() {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, values, errs, "")
		return
	}

	st := middleware.GetStore(r)
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session token", "error", err)
		return
	}

	ip := middleware.GetClientIP(r)
	if err := st.Register(r.Context(), data); err != nil {
		slog.Warn("registration failed", "email", data.Email, "ip", ip, "error", err)
		h.renderRegister(w, r, apiErrorStatus(err), values, form.Errors{}, util.ErrorMessage(err))
		return
	}

	user := st.User()
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User registered", ip, clientMetadata(r, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	}))
	flashSuccess(w, r, h.renderer, RouteRoot, MsgRegisterSuccess)
}

// Logout clears the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st := middleware.GetStore(r)
	var userID int64
	if st != nil {
		if u := st.User(); u != nil {
			userID = u.ID
		}
		st.Logout(r.Context())
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token on logout", "error", err)
	}

	if userID != 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", middleware.GetClientIP(r), map[string]any{
			"user_id": userID,
		})
	}
	flashAndRedirect(w, r, h.renderer, RouteLogin, MsgLoggedOut, render.FlashInfo)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, values url.Values, errs form.Errors, flash string) {
	renderPage(w, r, h.renderer, status, "auth/login", authData("Sign In", values, errs, flash))
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, values url.Values, errs form.Errors, flash string) {
	renderPage(w, r, h.renderer, status, "auth/register", authData("Sign Up", values, errs, flash))
}

// clientMetadata adds the caller's browser summary to event metadata.
func clientMetadata(r *http.Request, metadata map[string]any) map[string]any {
	return service.ParseUserAgent(r.UserAgent()).AddTo(metadata)
}

func authData(title string, values url.Values, errs form.Errors, flash string) render.TemplateData {
	data := render.TemplateData{
		Title: title,
		Data:  AuthPage{Values: values, Errors: errs},
	}
	if flash != "" {
		data.Flash = flash
		data.FlashType = render.FlashError
	}
	return data
}
