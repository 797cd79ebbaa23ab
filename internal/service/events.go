// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/sweetshop-go/internal/model"
	"github.com/olegiv/sweetshop-go/internal/store"
)

// EventService records audit events (sign-ins, catalog changes) in the
// event log, regardless of the log level.
type EventService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
		now:     time.Now,
	}
}

// LogEvent creates a new event log entry. A failed write is logged and
// returned; callers usually ignore it.
func (s *EventService) LogEvent(ctx context.Context, level, category, message, ipAddress string, metadata map[string]any) error {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(context.WithoutCancel(ctx), store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		IPAddress: ipAddress,
		CreatedAt: s.now(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "message", message)
		return err
	}
	return nil
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, ipAddress, metadata)
}

// LogCatalogEvent logs a catalog change.
func (s *EventService) LogCatalogEvent(ctx context.Context, level, message, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryCatalog, message, ipAddress, metadata)
}

// Recent returns up to limit events, newest first.
func (s *EventService) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queries.ListEvents(ctx, limit)
}

// Count returns the number of stored events.
func (s *EventService) Count(ctx context.Context) (int64, error) {
	return s.queries.CountEvents(ctx)
}
