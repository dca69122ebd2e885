// Package refresh keeps remote lists fresh by polling on a fixed interval.
package refresh

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	applog "ccp/internal/log"
)

// FetchFunc loads the current value from the remote service.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Poller holds the last fetched value of one remote list. Ticks and manual
// refreshes that overlap an in-flight fetch join it instead of issuing a
// second request.
type Poller[T any] struct {
	name     string
	fetch    FetchFunc[T]
	interval time.Duration
	group    singleflight.Group

	mu        sync.RWMutex
	value     T
	loaded    bool
	updatedAt time.Time
	lastErr   error
	fetches   int
}

func New[T any](name string, interval time.Duration, fetch FetchFunc[T]) *Poller[T] {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller[T]{name: name, fetch: fetch, interval: interval}
}

// Run fetches once immediately, then on every tick until ctx is done.
func (p *Poller[T]) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	// A slow fetch must not block the loop; the next tick joins it if it
	// is still running.
	go func() { _, _ = p.Refresh(ctx) }()
}

// Refresh fetches now, or waits for the fetch already in flight. On failure
// the previous value is kept and the error is returned and recorded.
func (p *Poller[T]) Refresh(ctx context.Context) (T, error) {
	ch := p.group.DoChan(p.name, func() (any, error) {
		p.mu.Lock()
		p.fetches++
		p.mu.Unlock()

		v, err := p.fetch(context.WithoutCancel(ctx))
		p.mu.Lock()
		defer p.mu.Unlock()
		p.lastErr = err
		if err != nil {
			applog.Job("refresh."+p.name, err, nil)
			return p.value, err
		}
		p.value, p.loaded, p.updatedAt = v, true, time.Now()
		return v, nil
	})
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		v, _ := res.Val.(T)
		return v, res.Err
	}
}

// Latest returns the last good value without fetching. ok is false until
// the first successful fetch.
func (p *Poller[T]) Latest() (v T, updatedAt time.Time, ok bool, lastErr error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value, p.updatedAt, p.loaded, p.lastErr
}

// Get returns the cached value, fetching first when nothing was loaded yet.
func (p *Poller[T]) Get(ctx context.Context) (T, error) {
	if v, _, ok, _ := p.Latest(); ok {
		return v, nil
	}
	return p.Refresh(ctx)
}

// Fetches counts the remote calls actually issued.
func (p *Poller[T]) Fetches() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetches
}
