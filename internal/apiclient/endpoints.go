// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/olegiv/sweetshop-go/internal/model"
)

// Endpoint paths relative to APIPrefix.
const (
	PathRegister    = "/auth/register"
	PathLogin       = "/auth/login"
	PathCurrentUser = "/auth/me"
	PathSweets      = "/sweets"
	PathSearch      = "/sweets/search"
)

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, data model.RegisterData) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, PathRegister, data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds model.LoginCredentials) (*model.AuthResponse, error) {
	var auth model.AuthResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, creds, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// CurrentUser returns the user the current token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, PathCurrentUser, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListSweets returns the whole catalog.
func (c *Client) ListSweets(ctx context.Context) ([]model.Sweet, error) {
	sweets := []model.Sweet{}
	if err := c.do(ctx, http.MethodGet, PathSweets, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// SearchSweets returns the catalog items matching filters.
func (c *Client) SearchSweets(ctx context.Context, filters model.SearchFilters) ([]model.Sweet, error) {
	path := PathSearch
	if q := SearchQuery(filters); q != "" {
		path += "?" + q
	}
	sweets := []model.Sweet{}
	if err := c.do(ctx, http.MethodGet, path, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// CreateSweet adds an item to the catalog.
func (c *Client) CreateSweet(ctx context.Context, data model.CreateSweetData) (*model.Sweet, error) {
	var sweet model.Sweet
	if err := c.do(ctx, http.MethodPost, PathSweets, data, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// UpdateSweet patches the fields set in data.
func (c *Client) UpdateSweet(ctx context.Context, id int64, data model.UpdateSweetData) (*model.Sweet, error) {
	var sweet model.Sweet
	if err := c.do(ctx, http.MethodPut, sweetPath(id), data, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// DeleteSweet removes an item.
func (c *Client) DeleteSweet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, sweetPath(id), nil, nil)
}

// PurchaseSweet decrements stock server-side and returns the updated item.
func (c *Client) PurchaseSweet(ctx context.Context, id int64, data model.QuantityData) (*model.Sweet, error) {
	var sweet model.Sweet
	if err := c.do(ctx, http.MethodPost, sweetPath(id)+"/purchase", data, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// RestockSweet increments stock server-side and returns the updated item.
func (c *Client) RestockSweet(ctx context.Context, id int64, data model.QuantityData) (*model.Sweet, error) {
	var sweet model.Sweet
	if err := c.do(ctx, http.MethodPost, sweetPath(id)+"/restock", data, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func sweetPath(id int64) string {
	return PathSweets + "/" + strconv.FormatInt(id, 10)
}

// SearchQuery encodes the present filters in the fixed order
// name, category, min_price, max_price. url.Values is not used because
// its Encode sorts keys.
func SearchQuery(f model.SearchFilters) string {
	var parts []string
	add := func(key, value string) {
		parts = append(parts, key+"="+url.QueryEscape(value))
	}

	if f.Name != "" {
		add("name", f.Name)
	}
	if f.Category != "" {
		add("category", f.Category)
	}
	if f.MinPrice != nil {
		add("min_price", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		add("max_price", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	return strings.Join(parts, "&")
}

// HealthPath is the backend liveness endpoint. It sits outside APIPrefix.
const HealthPath = "/health"

// Health checks that the backend answers its liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		return fmt.Errorf("creating health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", c.nextRequestID(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", HealthPath, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode != http.StatusOK {
		return newError(http.MethodGet, HealthPath, resp.StatusCode, nil)
	}
	return nil
}
