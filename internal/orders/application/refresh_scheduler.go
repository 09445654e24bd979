package application

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshScheduler runs DatasetStore.Refresh on a cron schedule.
type RefreshScheduler struct {
	cron  *cron.Cron
	store *DatasetStore
	log   *zap.Logger
}

// NewRefreshScheduler registers the refresh job. spec is any robfig/cron expression,
// including descriptors such as "@every 30s".
func NewRefreshScheduler(store *DatasetStore, spec string, log *zap.Logger) (*RefreshScheduler, error) {
	s := &RefreshScheduler{
		cron:  cron.New(),
		store: store,
		log:   log,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *RefreshScheduler) tick() {
	reloaded, err := s.store.Refresh(context.Background())
	if err != nil {
		// already logged by the store
		return
	}
	if reloaded {
		s.log.Info("Dataset refreshed by schedule")
	}
}

func (s *RefreshScheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and returns a context done once a running refresh finishes.
func (s *RefreshScheduler) Stop() context.Context {
	return s.cron.Stop()
}
