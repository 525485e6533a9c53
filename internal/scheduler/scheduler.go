// Package scheduler provides the in-process timer that drives the word
// pipeline. It is a plain ticker loop: fire once on start, then on every
// interval, until the context is cancelled or Stop is called.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/asukai/go-word-backend/internal/pipeline"
)

// Scheduler fires pipeline triggers on a fixed interval.
type Scheduler struct {
	interval time.Duration
	schedule string

	mu   sync.Mutex
	stop chan struct{}
}

// New builds a scheduler. The schedule label is carried on every Trigger
// for diagnostics only.
func New(interval time.Duration, schedule string) *Scheduler {
	return &Scheduler{interval: interval, schedule: schedule}
}

// Start begins the ticker loop in a goroutine. The job runs once
// immediately, then on each tick. Calling Start on a running scheduler is
// a no-op.
func (s *Scheduler) Start(ctx context.Context, job func(pipeline.Trigger)) {
	if job == nil || s.interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		job(pipeline.Trigger{Schedule: s.schedule, FiredAt: time.Now()})
		for {
			select {
			case t := <-ticker.C:
				job(pipeline.Trigger{Schedule: s.schedule, FiredAt: t})
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the ticker loop. Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}
