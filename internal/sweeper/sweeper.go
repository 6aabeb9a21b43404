// Package sweeper runs the scheduled expiry sweep that deletes runs past
// their TTL, paid or not.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/storage"
	"github.com/robfig/cron/v3"
)

// sweepTimeout bounds each sweep's database work.
const sweepTimeout = 30 * time.Second

// Sweeper periodically deletes expired runs on a cron schedule.
type Sweeper struct {
	cron   *cron.Cron
	store  *storage.RunStore
	logger logger.Logger
}

// New creates a Sweeper with the given cron spec (e.g. "@hourly").
func New(store *storage.RunStore, schedule string, log logger.Logger) (*Sweeper, error) {
	s := &Sweeper{
		cron:   cron.New(),
		store:  store,
		logger: log,
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running sweeps in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	deleted, err := s.store.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("Scheduled expiry sweep failed", logger.Error(err))
		return
	}

	if deleted > 0 {
		s.logger.Info("Scheduled expiry sweep completed", logger.Int64("deleted", deleted))
	}
}
