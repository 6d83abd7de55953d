package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically evicts idle sessions. The registry itself never
// self-schedules; main wires a sweeper next to the HTTP server.
type Sweeper struct {
	registry *Registry
	maxIdle  time.Duration
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSweeper creates a sweeper for the registry.
func NewSweeper(registry *Registry, maxIdle, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		registry: registry,
		maxIdle:  maxIdle,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop in a goroutine until Stop is called.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("Session sweeper started", "max_idle", s.maxIdle, "interval", s.interval)
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Session sweeper stopped")
				return
			case <-ticker.C:
				if removed := s.registry.SweepIdle(s.maxIdle); removed > 0 {
					s.logger.Info("Swept idle sessions", "removed", removed)
				}
			}
		}
	}()
}

// Stop shuts the sweeper down and waits for the loop to exit.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}
