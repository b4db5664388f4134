package service

import (
	"context"
	"time"

	"myregistry/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Evictor runs one eviction pass. Implemented by Registry.
type Evictor interface {
	Evict(ctx context.Context) int
}

// Sweeper periodically triggers eviction on its own goroutine.
type Sweeper struct {
	evictor  Evictor
	interval time.Duration
	logger   log.Logger
}

// NewSweeper creates a sweeper ticking every interval.
func NewSweeper(evictor Evictor, interval time.Duration, logger log.Logger) *Sweeper {
	if interval <= 0 {
		panic("service.sweeper.go: interval must be positive")
	}
	return &Sweeper{
		evictor:  helpers.NilPanic(evictor, "service.sweeper.go: evictor is required"),
		interval: interval,
		logger:   log.WithPrefix(helpers.NilPanic(logger, "service.sweeper.go: logger is required"), "component", "Sweeper"),
	}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	level.Info(s.logger).Log("msg", "eviction sweeper started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			level.Info(s.logger).Log("msg", "eviction sweeper stopped")
			return
		case <-ticker.C:
			s.evictor.Evict(ctx)
		}
	}
}
