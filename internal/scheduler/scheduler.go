// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/sweetshop-go/internal/store"
)

// DefaultPruneSchedule runs the event pruning job once an hour.
const DefaultPruneSchedule = "@hourly"

// Scheduler prunes old event log rows on a cron schedule.
type Scheduler struct {
	db        *sql.DB
	cron      *cron.Cron
	logger    *slog.Logger
	retention time.Duration
	schedule  string
	now       func() time.Time
}

// New creates a new scheduler instance. A retention of zero disables pruning.
func New(db *sql.DB, logger *slog.Logger, retention time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:        db,
		cron:      cron.New(),
		logger:    logger,
		retention: retention,
		schedule:  DefaultPruneSchedule,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.retention > 0 {
		_, err := s.cron.AddFunc(s.schedule, func() {
			if _, err := s.PruneEvents(context.Background()); err != nil {
				s.logger.Error("failed to prune events", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents deletes events older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.retention)
	n, err := store.New(s.db).DeleteOldEvents(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned old events", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
	}
	return n, nil
}
