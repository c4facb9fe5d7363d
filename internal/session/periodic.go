package session

import (
	"context"
	"time"
)

// periodic runs fn every interval until stopped.
type periodic struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startPeriodic(interval time.Duration, fn func()) *periodic {
	ctx, cancel := context.WithCancel(context.Background())
	p := &periodic{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return p
}

// stop cancels the task without waiting; it is safe to call while fn is
// blocked on a lock held by the caller.
func (p *periodic) stop() { p.cancel() }

// wait blocks until the task goroutine has exited.
func (p *periodic) wait() { <-p.done }
