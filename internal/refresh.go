package internal

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RefreshCatalog reloads the catalog on every tick of the catalog_refresh
// schedule until ctx is done. It returns at once when no schedule is
// configured. Failed reloads are logged and keep the previous catalog.
func (s *Site) RefreshCatalog(ctx context.Context) error {
	if s.cfg.CatalogRefresh == "" {
		return nil
	}
	schedule, err := cron.ParseStandard(s.cfg.CatalogRefresh)
	if err != nil {
		return err
	}

	s.log.DebugContext(ctx, "catalog refresh scheduled", slog.String("schedule", s.cfg.CatalogRefresh))
	for {
		timer := time.NewTimer(time.Until(schedule.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if err := s.ReloadCatalog(ctx); err != nil {
			s.log.ErrorContext(ctx, "catalog refresh failed", slog.Any("error", err))
		}
	}
}
