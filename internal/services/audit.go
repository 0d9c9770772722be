// Package services holds background jobs that run alongside the HTTP
// surface.
package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/pkg/logger"
)

// AuditRetention purges audit rows past the retention window, once at
// startup and then nightly.
type AuditRetention struct {
	store     *store.Facade
	days      int
	scheduler *cron.Cron
}

func NewAuditRetention(f *store.Facade, retentionDays int) *AuditRetention {
	return &AuditRetention{store: f, days: retentionDays}
}

// Start runs a purge immediately and schedules a nightly one at 03:30.
// Retention of zero or less disables purging entirely.
func (s *AuditRetention) Start() {
	if s.days <= 0 {
		logger.Info().Msg("audit retention disabled")
		return
	}
	go s.Purge()

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc("30 3 * * *", s.Purge); err != nil {
		logger.Error().Err(err).Msg("failed to schedule audit retention job")
		return
	}
	s.scheduler.Start()
	logger.Info().Int("retention_days", s.days).Msg("audit retention scheduler started")
}

func (s *AuditRetention) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Purge removes audit rows older than the retention window.
func (s *AuditRetention) Purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.days)
	deleted, err := s.store.PurgeAuditLogs(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("audit retention purge failed")
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Int("retention_days", s.days).Msg("purged old audit logs")
	}
}
