// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/sweetshop-go/internal/model"
	"github.com/olegiv/sweetshop-go/internal/render"
	"github.com/olegiv/sweetshop-go/internal/service"
)

// eventsPageLimit is how many recent events the activity page shows.
const eventsPageLimit = 100

// EventsPage holds data for the activity page.
type EventsPage struct {
	Events []model.Event
	Total  int
}

// EventsHandler serves the administrator activity page.
type EventsHandler struct {
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(renderer *render.Renderer, events *service.EventService) *EventsHandler {
	return &EventsHandler{renderer: renderer, eventService: events}
}

// List renders the most recent events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.Recent(r.Context(), eventsPageLimit)
	if err != nil {
		slog.Error("failed to list events", "error", err)
		flashError(w, r, h.renderer, RouteRoot, MsgAdminEventsLoadFail)
		return
	}
	total, err := h.eventService.Count(r.Context())
	if err != nil {
		slog.Error("failed to count events", "error", err)
		flashError(w, r, h.renderer, RouteRoot, MsgAdminEventsLoadFail)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/events", render.TemplateData{
		Title: "Activity",
		Data:  EventsPage{Events: events, Total: int(total)},
	})
}
