// Package ratelimit provides a throttled job queue for outbound provider
// calls. Jobs are dispatched FIFO by a single worker; once the per-window
// budget is spent, excess jobs wait for the window to roll over rather than
// being dropped.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const queueSize = 100

type job struct {
	ctx      context.Context
	fn       func() error
	resultCh chan error
}

// Limiter serializes calls to at most maxCalls per rolling window.
type Limiter struct {
	maxCalls int
	window   time.Duration

	jobs     chan job
	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
}

func New(maxCalls int, window time.Duration) *Limiter {
	l := &Limiter{
		maxCalls: maxCalls,
		window:   window,
		jobs:     make(chan job, queueSize),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.worker()
	return l
}

// Do enqueues fn and blocks until it has run or ctx is cancelled while the
// job is still queued. Queued order is dispatch order.
func (l *Limiter) Do(ctx context.Context, fn func() error) error {
	resultCh := make(chan error, 1)
	select {
	case l.jobs <- job{ctx: ctx, fn: fn, resultCh: resultCh}:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopChan:
		return context.Canceled
	}
	select {
	case err := <-resultCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopChan:
		return context.Canceled
	}
}

// Close stops the worker. Jobs still queued are abandoned.
func (l *Limiter) Close() {
	l.once.Do(func() {
		close(l.stopChan)
		<-l.done
	})
}

func (l *Limiter) worker() {
	defer close(l.done)

	windowStart := time.Time{}
	calls := 0

	for {
		select {
		case <-l.stopChan:
			return
		case j := <-l.jobs:
			now := time.Now()
			if windowStart.IsZero() || now.Sub(windowStart) >= l.window {
				windowStart = now
				calls = 0
			}
			if calls >= l.maxCalls {
				wait := l.window - now.Sub(windowStart)
				select {
				case <-time.After(wait):
				case <-l.stopChan:
					j.resultCh <- context.Canceled
					return
				}
				windowStart = time.Now()
				calls = 0
			}
			if err := j.ctx.Err(); err != nil {
				j.resultCh <- err
				continue
			}
			calls++
			j.resultCh <- j.fn()
		}
	}
}
