package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"
)

// LookupLimiter caps how often one client may hit endpoints that call the
// backend (target validation fires on every edit of the account field).
// It keeps a sliding window of request times per client IP.
type LookupLimiter struct {
	limit       int
	window      time.Duration
	now         func() time.Time
	mu          sync.Mutex
	hits        map[string][]time.Time
	cleanupDone chan struct{}
	closeOnce   sync.Once
}

// NewLookupLimiter allows limit requests per window per client IP.
// Close must be called to stop the cleanup goroutine.
func NewLookupLimiter(limit int, window time.Duration) (*LookupLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("rate window must be positive, got %s", window)
	}

	ll := &LookupLimiter{
		limit:       limit,
		window:      window,
		now:         time.Now,
		hits:        make(map[string][]time.Time),
		cleanupDone: make(chan struct{}),
	}
	go ll.cleanupLoop()

	slog.Info("lookup limiter initialized", "limit", limit, "window", window.String())
	return ll, nil
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (ll *LookupLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ExtractIP(r)
		allowed, retryAfter := ll.allow(ip)
		if !allowed {
			slog.Debug("lookup rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Too many requests, please slow down", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow records a hit for ip. When over the limit it returns false and the
// number of seconds until the oldest hit leaves the window.
func (ll *LookupLimiter) allow(ip string) (bool, int) {
	now := ll.now()

	ll.mu.Lock()
	defer ll.mu.Unlock()

	recent := inWindow(ll.hits[ip], now.Add(-ll.window))
	if len(recent) >= ll.limit {
		wait := ll.window - now.Sub(recent[0])
		return false, max(int(wait.Seconds()), 1)
	}
	ll.hits[ip] = append(recent, now)
	return true, 0
}

func (ll *LookupLimiter) cleanupLoop() {
	ticker := time.NewTicker(ll.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ll.cleanup()
		case <-ll.cleanupDone:
			return
		}
	}
}

func (ll *LookupLimiter) cleanup() {
	cutoff := ll.now().Add(-ll.window)

	ll.mu.Lock()
	defer ll.mu.Unlock()

	for ip, hits := range ll.hits {
		if recent := inWindow(hits, cutoff); len(recent) > 0 {
			ll.hits[ip] = recent
		} else {
			delete(ll.hits, ip)
		}
	}
}

func inWindow(hits []time.Time, cutoff time.Time) []time.Time {
	return lo.Filter(hits, func(ts time.Time, _ int) bool {
		return ts.After(cutoff)
	})
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (ll *LookupLimiter) Close() {
	ll.closeOnce.Do(func() {
		close(ll.cleanupDone)
	})
}
