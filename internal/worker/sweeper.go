package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweep removes stale rows and reports how many it removed.
type Sweep func(ctx context.Context) (int, error)

// Sweeper runs independent periodic cleanup sweeps. It owns no state of
// its own: each sweep takes its dependencies through the closure, so a
// single run is unit-testable by calling the sweep synchronously.
type Sweeper struct {
	interval time.Duration
	logger   *zap.Logger
	sweeps   map[string]Sweep
}

// NewSweeper builds a sweeper running each registered sweep on the given
// interval.
func NewSweeper(interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		interval: interval,
		logger:   logger,
		sweeps:   make(map[string]Sweep),
	}
}

// Register adds a named sweep.
func (s *Sweeper) Register(name string, sweep Sweep) {
	s.sweeps[name] = sweep
}

// Start launches one goroutine per sweep. Each runs until the context is
// cancelled. A failing sweep logs and retries on the next tick; it never
// stops the loop.
func (s *Sweeper) Start(ctx context.Context) {
	for name, sweep := range s.sweeps {
		go s.run(ctx, name, sweep)
	}
}

func (s *Sweeper) run(ctx context.Context, name string, sweep Sweep) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sweep(ctx)
			if err != nil {
				s.logger.Warn("sweep failed", zap.String("sweep", name), zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("sweep removed rows", zap.String("sweep", name), zap.Int("removed", removed))
			}
		}
	}
}
