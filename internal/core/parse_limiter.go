package core

// parse_limiter.go bounds the number of documents scanned at once.
//
// The limiter is a semaphore: when every slot is taken, callers wait up to
// maxWait before failing with ErrTooManyParses. WaitForDrain supports
// graceful shutdown by blocking until running parses finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyParses is returned when all parse slots stay occupied for the
// whole wait time. Clients should retry after a short delay.
var ErrTooManyParses = errors.New("too many parses in progress, please try again later")

const (
	// DefaultMaxConcurrentParses is used when the limiter is built with zero.
	DefaultMaxConcurrentParses = 4

	// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
	DefaultMaxWaitTime = 10 * time.Second
)

// ParseLimiter restricts how many parses run in parallel.
type ParseLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
	drain  chan struct{} // closed and replaced when active drops to zero
}

// NewParseLimiter creates a limiter that allows at most maxConcurrent
// parses. Requests that cannot get a slot within maxWait receive
// ErrTooManyParses.
func NewParseLimiter(maxConcurrent int, maxWait time.Duration) *ParseLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentParses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &ParseLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
		drain:     make(chan struct{}),
	}
}

// Acquire waits for a parse slot. The caller must call Release exactly once
// after a nil return.
func (l *ParseLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-timer.C:
		return ErrTooManyParses

	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *ParseLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *ParseLimiter) Release() {
	l.mu.Lock()
	l.active--
	if l.active == 0 {
		close(l.drain)
		l.drain = make(chan struct{})
	}
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of running parses.
func (l *ParseLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *ParseLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of free slots.
func (l *ParseLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no parse is running or ctx is done.
func (l *ParseLimiter) WaitForDrain(ctx context.Context) error {
	for {
		l.mu.RLock()
		active, drained := l.active, l.drain
		l.mu.RUnlock()

		if active == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-drained:
		}
	}
}

// LimiterStatus is a snapshot of the limiter for monitoring.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ParseLimiter) Status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
