package web

// upload_limiter.go bounds how many CSV bodies are parsed at once. Parsing
// holds the whole table in memory, so parallel uploads are capped; a request
// that cannot get a slot within maxWait fails with ErrTooManyUploads.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyUploads is returned when all upload slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

const (
	defaultMaxConcurrentUploads = 4
	defaultMaxUploadWait        = 10 * time.Second
)

type uploadLimiter struct {
	sem     *semaphore.Weighted
	max     int64
	maxWait time.Duration
	active  atomic.Int64
}

func newUploadLimiter(maxConcurrent int, maxWait time.Duration) *uploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = defaultMaxUploadWait
	}
	return &uploadLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     int64(maxConcurrent),
		maxWait: maxWait,
	}
}

// acquire waits for a slot. The caller must call release on success.
func (l *uploadLimiter) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		// Distinguish caller cancellation from our own timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyUploads
	}
	l.active.Add(1)
	return nil
}

func (l *uploadLimiter) release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// uploadLimiterStatus is a snapshot for the health endpoint.
type uploadLimiterStatus struct {
	Active        int64 `json:"active"`
	MaxConcurrent int64 `json:"maxConcurrent"`
}

func (l *uploadLimiter) status() uploadLimiterStatus {
	return uploadLimiterStatus{Active: l.active.Load(), MaxConcurrent: l.max}
}

// waitIdle blocks until no upload holds a slot or ctx is done. New uploads
// are held off while it waits.
func (l *uploadLimiter) waitIdle(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, l.max); err != nil {
		return err
	}
	l.sem.Release(l.max)
	return nil
}
