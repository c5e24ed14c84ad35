package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// Filter clicks are the API's only write path, and every accepted one
// rewrites selection state shared by all dashboard viewers. Chart
// reads stay unlimited; they are served from the bundle cache.
const (
	clickWindow     = time.Minute
	clicksPerWindow = 30
)

// clickLimiter caps filter-state writes per client IP over a fixed
// window. Windows start at a client's first click and expire whole,
// so a burst never carries over into the next minute.
type clickLimiter struct {
	mu        sync.Mutex
	perClient map[string]*clickTally
	stop      chan struct{}
	stopOnce  sync.Once
}

type clickTally struct {
	windowStart time.Time
	clicks      int
}

func newClickLimiter() *clickLimiter {
	l := &clickLimiter{
		perClient: make(map[string]*clickTally),
		stop:      make(chan struct{}),
	}
	go l.evictLoop()
	return l
}

// evictLoop drops clients whose window lapsed a while ago. Without it
// every one-off visitor would stay in the map forever.
func (l *clickLimiter) evictLoop() {
	ticker := time.NewTicker(2 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle(time.Now())
		case <-l.stop:
			return
		}
	}
}

func (l *clickLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-5 * clickWindow)
	for ip, tally := range l.perClient {
		if tally.windowStart.Before(cutoff) {
			delete(l.perClient, ip)
		}
	}
}

// shutdown stops the eviction goroutine.
func (l *clickLimiter) shutdown() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// allow records one click from the client and reports whether it fits
// in the current window. Rejections are counted on metrics.
func (l *clickLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	tally, ok := l.perClient[clientIP]
	if !ok || now.Sub(tally.windowStart) >= clickWindow {
		l.perClient[clientIP] = &clickTally{windowStart: now, clicks: 1}
		return true
	}

	tally.clicks++
	if tally.clicks > clicksPerWindow {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
