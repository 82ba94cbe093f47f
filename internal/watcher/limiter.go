package watcher

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RescanLimiter caps how often file changes may trigger a full rescan.
// A burst of edits still rescans promptly; a sustained stream does not
// pin the CPU re-parsing the tree.
type RescanLimiter struct {
	inner *rate.Limiter
}

// NewRescanLimiter allows r rescans per second with burst b.
func NewRescanLimiter(r float64, b int) *RescanLimiter {
	return &RescanLimiter{inner: rate.NewLimiter(rate.Limit(r), b)}
}

func (l *RescanLimiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}

func (l *RescanLimiter) Wait(ctx context.Context) error {
	return l.inner.WaitN(ctx, 1)
}
