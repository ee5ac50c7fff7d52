package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	unauthenticated uint64
	forbidden       uint64
	totalDurationMs uint64
	notifyFailures  uint64

	mu      sync.Mutex
	byRoute map[string]uint64
}

func New() *Collector {
	return &Collector{byRoute: map[string]uint64{}}
}

// Record counts one finished request. route is the matched route pattern,
// empty when the router did not match.
func (c *Collector) Record(route string, status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	switch {
	case status >= 500:
		atomic.AddUint64(&c.errorRequests, 1)
	case status == 429:
		atomic.AddUint64(&c.rateLimited, 1)
	case status == 401:
		atomic.AddUint64(&c.unauthenticated, 1)
	case status == 403:
		atomic.AddUint64(&c.forbidden, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))

	if route == "" {
		route = "unmatched"
	}
	c.mu.Lock()
	c.byRoute[route]++
	c.mu.Unlock()
}

// NotificationFailed counts a dropped notification write.
func (c *Collector) NotificationFailed() {
	atomic.AddUint64(&c.notifyFailures, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	routes := make(map[string]uint64, len(c.byRoute))
	for route, count := range c.byRoute {
		routes[route] = count
	}
	c.mu.Unlock()

	return map[string]any{
		"requestsTotal":             total,
		"errorsTotal":               atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":          atomic.LoadUint64(&c.rateLimited),
		"unauthenticatedTotal":      atomic.LoadUint64(&c.unauthenticated),
		"forbiddenTotal":            atomic.LoadUint64(&c.forbidden),
		"notificationFailuresTotal": atomic.LoadUint64(&c.notifyFailures),
		"avgDurationMs":             avg,
		"totalDurationMs":           totalMs,
		"routes":                    routes,
	}
}
