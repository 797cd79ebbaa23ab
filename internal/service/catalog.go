// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the catalog operations, the double-submit guard
// and the audit event log used by the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/olegiv/sweetshop-go/internal/apiclient"
	"github.com/olegiv/sweetshop-go/internal/model"
)

// ErrSweetNotFound is returned when an id is not in the current listing.
var ErrSweetNotFound = errors.New("sweet not found")

// CatalogAPI is the backend surface the catalog needs.
type CatalogAPI interface {
	ListSweets(ctx context.Context) ([]model.Sweet, error)
	SearchSweets(ctx context.Context, filters model.SearchFilters) ([]model.Sweet, error)
	CreateSweet(ctx context.Context, data model.CreateSweetData) (*model.Sweet, error)
	UpdateSweet(ctx context.Context, id int64, data model.UpdateSweetData) (*model.Sweet, error)
	DeleteSweet(ctx context.Context, id int64) error
	PurchaseSweet(ctx context.Context, id int64, data model.QuantityData) (*model.Sweet, error)
	RestockSweet(ctx context.Context, id int64, data model.QuantityData) (*model.Sweet, error)
}

// CatalogService reads and mutates the catalog through the backend.
// Nothing is cached: every read goes to the backend, but identical reads
// in flight for the same scope share one call. A read that starts after a
// mutation never joins one that started before it.
type CatalogService struct {
	api        CatalogAPI
	logger     *slog.Logger
	reads      singleflight.Group
	generation atomic.Uint64
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(api CatalogAPI, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{api: api, logger: logger}
}

// List fetches the full catalog. scope identifies the browser session so
// reads are only shared between requests carrying the same credentials.
func (s *CatalogService) List(ctx context.Context, scope string) ([]model.Sweet, error) {
	return s.shared(ctx, s.readKey(scope, "list"), func(ctx context.Context) ([]model.Sweet, error) {
		return s.api.ListSweets(ctx)
	})
}

// Search fetches the items matching filters. Empty filters list everything.
func (s *CatalogService) Search(ctx context.Context, scope string, filters model.SearchFilters) ([]model.Sweet, error) {
	if filters.IsEmpty() {
		return s.List(ctx, scope)
	}
	return s.shared(ctx, s.readKey(scope, "search?"+apiclient.SearchQuery(filters)), func(ctx context.Context) ([]model.Sweet, error) {
		return s.api.SearchSweets(ctx, filters)
	})
}

// Find returns one item from a fresh listing.
func (s *CatalogService) Find(ctx context.Context, scope string, id int64) (model.Sweet, error) {
	sweets, err := s.List(ctx, scope)
	if err != nil {
		return model.Sweet{}, err
	}
	for _, sw := range sweets {
		if sw.ID == id {
			return sw, nil
		}
	}
	return model.Sweet{}, fmt.Errorf("sweet %d: %w", id, ErrSweetNotFound)
}

// readKey ties a shared read to the current mutation generation.
func (s *CatalogService) readKey(scope, read string) string {
	return scope + "|" + strconv.FormatUint(s.generation.Load(), 10) + "|" + read
}

// invalidate moves later reads onto fresh backend calls.
func (s *CatalogService) invalidate() {
	s.generation.Add(1)
}

// shared runs fetch once per key among concurrent callers. The backend
// call outlives a cancelled caller so other waiters still get a result;
// each caller receives its own copy of the slice.
func (s *CatalogService) shared(ctx context.Context, key string, fetch func(context.Context) ([]model.Sweet, error)) ([]model.Sweet, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.reads.DoChan(key, func() (any, error) {
		return fetch(detached)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		sweets, _ := res.Val.([]model.Sweet)
		if sweets == nil {
			return []model.Sweet{}, nil
		}
		return slices.Clone(sweets), nil
	}
}

// Create adds a new item.
func (s *CatalogService) Create(ctx context.Context, data model.CreateSweetData) (*model.Sweet, error) {
	defer s.invalidate()

	sw, err := s.api.CreateSweet(ctx, data)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sweet created", "sweet_id", sw.ID, "name", sw.Name)
	return sw, nil
}

// Update replaces the editable fields of an item.
func (s *CatalogService) Update(ctx context.Context, id int64, data model.CreateSweetData) (*model.Sweet, error) {
	defer s.invalidate()

	sw, err := s.api.UpdateSweet(ctx, id, model.UpdateFrom(data))
	if err != nil {
		return nil, err
	}
	s.logger.Info("sweet updated", "sweet_id", id)
	return sw, nil
}

// Delete removes an item.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	defer s.invalidate()

	if err := s.api.DeleteSweet(ctx, id); err != nil {
		return err
	}
	s.logger.Info("sweet deleted", "sweet_id", id)
	return nil
}

// Purchase buys quantity units. The backend decides the resulting stock.
func (s *CatalogService) Purchase(ctx context.Context, id int64, quantity int) (*model.Sweet, error) {
	defer s.invalidate()

	sw, err := s.api.PurchaseSweet(ctx, id, model.QuantityData{Quantity: quantity})
	if err != nil {
		return nil, err
	}
	s.logger.Info("sweet purchased", "sweet_id", id, "quantity", quantity)
	return sw, nil
}

// Restock adds quantity units. The backend decides the resulting stock.
func (s *CatalogService) Restock(ctx context.Context, id int64, quantity int) (*model.Sweet, error) {
	defer s.invalidate()

	sw, err := s.api.RestockSweet(ctx, id, model.QuantityData{Quantity: quantity})
	if err != nil {
		return nil, err
	}
	s.logger.Info("sweet restocked", "sweet_id", id, "quantity", quantity)
	return sw, nil
}
