// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sweetshop-go/internal/apiclient"
	"github.com/olegiv/sweetshop-go/internal/middleware"
	"github.com/olegiv/sweetshop-go/internal/render"
	"github.com/olegiv/sweetshop-go/internal/service"
	"github.com/olegiv/sweetshop-go/internal/session"
	"github.com/olegiv/sweetshop-go/internal/testutil"
	"github.com/olegiv/sweetshop-go/internal/version"
	"github.com/olegiv/sweetshop-go/web"
)

// testApp wires the handlers the way the server does, against an
// in-memory backend.
type testApp struct {
	backend *testutil.Backend
	server  *httptest.Server
	events  *service.EventService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppMode(t, false)
}

// newDevTestApp renders pages the way development mode does.
func newDevTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppMode(t, true)
}

func newTestAppMode(t *testing.T, isDev bool) *testApp {
	t.Helper()

	backend := testutil.NewBackend(t)
	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()

	sm := scs.New()
	client := apiclient.New(backend.URL,
		apiclient.WithTokenSource(session.TokenSource(session.NewManagerStorage(sm))),
		apiclient.WithLogger(logger),
	)

	renderer, err := render.New(render.Config{TemplatesFS: web.TemplatesFS(), SessionManager: sm, IsDev: isDev})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	t.Cleanup(lp.Close)

	events := service.NewEventService(db)
	authHandler := NewAuthHandler(renderer, sm, lp, events)
	catalogHandler := NewCatalogHandler(renderer, sm, service.NewCatalogService(client, logger), service.NewGuard(), events)
	eventsHandler := NewEventsHandler(renderer, events)
	healthHandler := NewHealthHandler(db, client, version.Info{Version: "v0.0.0-test"}, true)

	r := chi.NewRouter()
	r.Get(RouteHealth, healthHandler.Health)
	r.Get(RouteHealth+"/live", healthHandler.Liveness)
	r.Get(RouteHealth+"/ready", healthHandler.Readiness)

	r.Group(func(r chi.Router) {
		r.Use(sm.LoadAndSave)
		r.Use(middleware.LoadSession(sm, client, logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfAuthenticated(RouteRoot))
			r.Get(RouteLogin, authHandler.LoginForm)
			r.Post(RouteLogin, authHandler.Login)
			r.Get(RouteRegister, authHandler.RegisterForm)
			r.Post(RouteRegister, authHandler.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post(RouteLogout, authHandler.Logout)
			r.Get(RouteRoot, catalogHandler.Index)
			r.Get(RouteSweetsID+RouteSuffixPurchase, catalogHandler.PurchaseForm)
			r.Post(RouteSweetsID+RouteSuffixPurchase, catalogHandler.Purchase)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get(RouteSweets+RouteSuffixNew, catalogHandler.New)
				r.Post(RouteSweets, catalogHandler.Create)
				r.Get(RouteSweetsID+RouteSuffixEdit, catalogHandler.Edit)
				r.Post(RouteSweetsID, catalogHandler.Update)
				r.Get(RouteSweetsID+RouteSuffixDelete, catalogHandler.DeleteConfirm)
				r.Post(RouteSweetsID+RouteSuffixDelete, catalogHandler.Delete)
				r.Get(RouteSweetsID+RouteSuffixRestock, catalogHandler.RestockForm)
				r.Post(RouteSweetsID+RouteSuffixRestock, catalogHandler.Restock)
				r.Get(RouteAdminEvents, eventsHandler.List)
			})
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testApp{backend: backend, server: server, events: events}
}

// browser keeps one cookie jar and does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (a *testApp) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &browser{
		t:    t,
		base: a.server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	status   int
	location string
	body     string
}

func (b *browser) get(path string) response {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	return readResponse(b.t, resp)
}

func (b *browser) post(path string, form url.Values) response {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	return readResponse(b.t, resp)
}

func readResponse(t *testing.T, resp *http.Response) response {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return response{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

// login signs the browser in and fails the test otherwise.
func (b *browser) login(email, password string) {
	b.t.Helper()
	res := b.post(RouteLogin, url.Values{"email": {email}, "password": {password}})
	if res.status != http.StatusSeeOther || res.location != RouteRoot {
		b.t.Fatalf("login as %s: status %d location %q", email, res.status, res.location)
	}
}

func (a *testApp) admin(t *testing.T) *browser {
	b := a.browser(t)
	b.login(testutil.AdminEmail, testutil.AdminPassword)
	return b
}

func (a *testApp) customer(t *testing.T) *browser {
	b := a.browser(t)
	b.login(testutil.UserEmail, testutil.UserPassword)
	return b
}

func assertStatus(t *testing.T, res response, want int) {
	t.Helper()
	if res.status != want {
		t.Fatalf("status = %d, want %d; body:\n%s", res.status, want, res.body)
	}
}

func assertRedirect(t *testing.T, res response, want string) {
	t.Helper()
	if res.status != http.StatusSeeOther || res.location != want {
		t.Fatalf("got status %d location %q, want 303 to %q", res.status, res.location, want)
	}
}

func assertContains(t *testing.T, body string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if !strings.Contains(body, s) {
			t.Errorf("body does not contain %q", s)
		}
	}
}

func assertNotContains(t *testing.T, body string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if strings.Contains(body, s) {
			t.Errorf("body unexpectedly contains %q", s)
		}
	}
}
