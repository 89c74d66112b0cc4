package world

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
)

// Scheduler drives the engine from a real-time ticker
type Scheduler struct {
	engine   *Engine
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewScheduler creates a stopped scheduler
func NewScheduler(engine *Engine, interval time.Duration) *Scheduler {
	return &Scheduler{engine: engine, interval: interval}
}

// Start launches the tick loop. The loop stops when ctx is cancelled or Stop
// is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", s.interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(loopCtx, s.done)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	logger := logging.LoggerFromContext(ctx)
	logger.Log(logging.LevelInfo, "Tick scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log(logging.LevelInfo, "Tick scheduler stopped", map[string]interface{}{
				"tick": s.engine.CurrentTick(),
			})
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.engine.Tick(ctx)
		}
	}
}

// Stop halts the loop and waits for the in-flight tick to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
