// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers for the shop's pages.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sweetshop-go/internal/apiclient"
	"github.com/olegiv/sweetshop-go/internal/middleware"
	"github.com/olegiv/sweetshop-go/internal/model"
	"github.com/olegiv/sweetshop-go/internal/render"
	"github.com/olegiv/sweetshop-go/internal/util"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, MsgInvalidForm)
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// renderPage renders a page and answers 500 if the template fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render template", "template", name, "error", err)
	}
}

// handleAPIError is the one place a failed backend call is turned into a
// response. An unauthorized answer ends the browser session and sends the
// visitor to the login page. A cancelled request gets no response. Any
// other failure is logged and handed to fallback with a user-facing
// message.
func handleAPIError(w http.ResponseWriter, r *http.Request, op string, err error, fallback func(msg string)) {
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		slog.Warn("backend rejected session credentials",
			"category", model.EventCategoryAuth,
			"op", op,
			"path", r.URL.Path,
			"ip", middleware.GetClientIP(r),
		)
		if st := middleware.GetStore(r); st != nil {
			st.Logout(context.WithoutCancel(r.Context()))
		}
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.Debug("backend call abandoned", "op", op, "error", err)
		return
	}

	level := slog.LevelError
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	slog.Log(r.Context(), level, "backend call failed",
		"category", model.EventCategoryBackend,
		"op", op,
		"error", err,
		"path", r.URL.Path,
		"ip", middleware.GetClientIP(r),
	)
	fallback(util.ErrorMessage(err))
}

// apiErrorStatus is the status used when a form is re-rendered after a
// failed backend call.
func apiErrorStatus(err error) int {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

// parseIDParam reads the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
