package fetch

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// margin added to the computed wait so the oldest timestamp has left the
// window when the limit is re-checked.
const acquireMargin = 100 * time.Millisecond

// Limiter enforces a sliding-window request budget per destination key.
// State is shared by every caller holding the same instance; it is not
// persisted across restarts.
type Limiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	hits   map[string][]time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
	}
}

// Acquire blocks until a request slot is available for the key or the
// context is done. Timestamps older than the window are pruned on every
// check, and the limit is re-checked after each wait rather than decided
// once.
func (l *Limiter) Acquire(ctx context.Context, key string) error {
	for {
		l.mu.Lock()
		now := time.Now()
		cutoff := now.Add(-l.window)

		hits := l.hits[key]
		pruned := hits[:0]
		for _, t := range hits {
			if t.After(cutoff) {
				pruned = append(pruned, t)
			}
		}

		if len(pruned) < l.limit {
			l.hits[key] = append(pruned, now)
			l.mu.Unlock()
			return nil
		}

		wait := pruned[0].Add(l.window).Sub(now) + acquireMargin
		l.hits[key] = pruned
		l.mu.Unlock()

		slog.Debug("Rate limit reached, waiting", "destination", key, "wait", wait.String())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// DestinationKey reduces a URL to the per-destination rate limit key.
func DestinationKey(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
