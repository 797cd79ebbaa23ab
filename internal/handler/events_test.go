// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/olegiv/sweetshop-go/internal/testutil"
)

func TestEventsPage(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddSweet("Toffee", "Candy", 1, 20)

	customer := app.customer(t)
	assertRedirect(t, customer.post("/sweets/1/purchase", url.Values{"quantity": {"3"}}), RouteRoot)

	admin := app.admin(t)
	res := admin.get(RouteAdminEvents)
	assertStatus(t, res, http.StatusOK)
	assertContains(t, res.body,
		"Activity",
		"Showing 3 of 3 events",
		"User logged in",
		"Sweet purchased",
		testutil.UserEmail,
	)
}

func TestEventsPage_Empty(t *testing.T) {
	app := newTestApp(t)
	admin := app.admin(t)

	// The admin's own login is the only event.
	res := admin.get(RouteAdminEvents)
	assertStatus(t, res, http.StatusOK)
	assertContains(t, res.body, "Showing 1 of 1 event<")
}
