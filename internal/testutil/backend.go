// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sweetshop-go/internal/model"
)

// Demo accounts created by NewBackend.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
	UserEmail     = "user@example.com"
	UserPassword  = "user123"
)

// Backend is an in-memory Sweet Shop REST backend for handler tests.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	users    []backendUser
	sweets   []model.Sweet
	nextID   int64
	calls    map[string]int
	failures map[string]failure
}

type backendUser struct {
	model.User
	password string
}

type failure struct {
	status int
	body   string
}

// NewBackend starts a backend with an admin, a customer and no sweets.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		nextID:   1,
		calls:    make(map[string]int),
		failures: make(map[string]failure),
	}
	b.users = []backendUser{
		{User: model.User{ID: 1, Email: AdminEmail, FullName: "Admin User", IsAdmin: true}, password: AdminPassword},
		{User: model.User{ID: 2, Email: UserEmail, FullName: "Sweet Tooth"}, password: UserPassword},
	}

	r := chi.NewRouter()
	r.Use(b.track)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", b.register)
		r.Post("/auth/login", b.login)
		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)
			r.Get("/auth/me", b.me)
			r.Get("/sweets", b.list)
			r.Get("/sweets/search", b.search)
			r.Post("/sweets", b.create)
			r.Put("/sweets/{id}", b.update)
			r.Delete("/sweets/{id}", b.remove)
			r.Post("/sweets/{id}/purchase", b.purchase)
			r.Post("/sweets/{id}/restock", b.restock)
		})
	})

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Close)
	return b
}

// AddSweet stores a sweet and returns it with its id.
func (b *Backend) AddSweet(name, category string, price float64, quantity int) model.Sweet {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := model.Sweet{ID: b.nextID, Name: name, Category: category, Price: price, Quantity: quantity}
	b.nextID++
	b.sweets = append(b.sweets, s)
	return s
}

// Sweet returns the stored sweet with id.
func (b *Backend) Sweet(id int64) (model.Sweet, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return model.Sweet{}, false
	}
	return b.sweets[i], true
}

// Sweets returns a copy of the catalog.
func (b *Backend) Sweets() []model.Sweet {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Sweet{}, b.sweets...)
}

// Calls reports how often "METHOD /path" was requested, e.g. "GET /api/v1/sweets".
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Fail makes every request to route answer status with a JSON body.
func (b *Backend) Fail(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, body: body}
}

// Token returns the bearer token the backend issues for email.
func Token(email string) string {
	return "token-" + email
}

func (b *Backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls[route]++
		f, failing := b.failures[route]
		b.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxUser struct{}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if ok {
			b.mu.Lock()
			for _, u := range b.users {
				if Token(u.Email) == token {
					b.mu.Unlock()
					next.ServeHTTP(w, r.WithContext(withUser(r, u.User)))
					return
				}
			}
			b.mu.Unlock()
		}
		detail(w, http.StatusUnauthorized, "Could not validate credentials")
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in model.RegisterData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == in.Email {
			detail(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	u := backendUser{User: model.User{ID: int64(len(b.users) + 1), Email: in.Email, FullName: in.FullName}, password: in.Password}
	b.users = append(b.users, u)
	writeJSON(w, http.StatusCreated, u.User)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in model.LoginCredentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == in.Email && u.password == in.Password {
			writeJSON(w, http.StatusOK, model.AuthResponse{AccessToken: Token(u.Email), TokenType: "bearer"})
			return
		}
	}
	detail(w, http.StatusUnauthorized, "Incorrect email or password")
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r))
}

func (b *Backend) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Sweets())
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.ToLower(q.Get("name"))
	category := strings.ToLower(q.Get("category"))
	minPrice, hasMin := queryFloat(q.Get("min_price"))
	maxPrice, hasMax := queryFloat(q.Get("max_price"))

	out := []model.Sweet{}
	for _, s := range b.Sweets() {
		switch {
		case name != "" && !strings.Contains(strings.ToLower(s.Name), name):
		case category != "" && !strings.Contains(strings.ToLower(s.Category), category):
		case hasMin && s.Price < minPrice:
		case hasMax && s.Price > maxPrice:
		default:
			out = append(out, s)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	var in model.CreateSweetData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid body")
		return
	}
	writeJSON(w, http.StatusCreated, b.AddSweet(in.Name, in.Category, in.Price, in.Quantity))
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	var in model.UpdateSweetData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		detail(w, http.StatusUnprocessableEntity, "Invalid body")
		return
	}
	b.withSweet(w, r, func(s *model.Sweet) (int, string) {
		if in.Name != nil {
			s.Name = *in.Name
		}
		if in.Category != nil {
			s.Category = *in.Category
		}
		if in.Price != nil {
			s.Price = *in.Price
		}
		if in.Quantity != nil {
			s.Quantity = *in.Quantity
		}
		return 0, ""
	})
}

func (b *Backend) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		detail(w, http.StatusNotFound, "Sweet not found")
		return
	}
	b.sweets = slices.Delete(b.sweets, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) purchase(w http.ResponseWriter, r *http.Request) {
	var in model.QuantityData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Quantity <= 0 {
		detail(w, http.StatusUnprocessableEntity, "Invalid quantity")
		return
	}
	b.withSweet(w, r, func(s *model.Sweet) (int, string) {
		if s.Quantity < in.Quantity {
			return http.StatusBadRequest, "Insufficient quantity in stock"
		}
		s.Quantity -= in.Quantity
		return 0, ""
	})
}

func (b *Backend) restock(w http.ResponseWriter, r *http.Request) {
	var in model.QuantityData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Quantity <= 0 {
		detail(w, http.StatusUnprocessableEntity, "Invalid quantity")
		return
	}
	b.withSweet(w, r, func(s *model.Sweet) (int, string) {
		s.Quantity += in.Quantity
		return 0, ""
	})
}

// withSweet applies fn to the sweet named by the {id} param and answers
// with the updated item, or with fn's error status and detail.
func (b *Backend) withSweet(w http.ResponseWriter, r *http.Request, fn func(*model.Sweet) (int, string)) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		detail(w, http.StatusNotFound, "Sweet not found")
		return
	}
	s := b.sweets[i]
	if status, msg := fn(&s); status != 0 {
		detail(w, status, msg)
		return
	}
	b.sweets[i] = s
	writeJSON(w, http.StatusOK, s)
}

func (b *Backend) indexOf(id int64) int {
	return slices.IndexFunc(b.sweets, func(s model.Sweet) bool { return s.ID == id })
}

func queryFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withUser(r *http.Request, u model.User) context.Context {
	return context.WithValue(r.Context(), ctxUser{}, u)
}

func userFrom(r *http.Request) model.User {
	u, _ := r.Context().Value(ctxUser{}).(model.User)
	return u
}
