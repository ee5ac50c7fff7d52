package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorCountsByStatus(t *testing.T) {
	c := New()
	c.Record("/api/v1/goals", 200, 10*time.Millisecond)
	c.Record("/api/v1/goals", 403, 2*time.Millisecond)
	c.Record("/api/v1/goals/{id}", 401, time.Millisecond)
	c.Record("", 429, 0)
	c.Record("/api/v1/admin/stats", 500, 3*time.Millisecond)
	c.NotificationFailed()

	snap := c.Snapshot()
	assert.Equal(t, uint64(5), snap["requestsTotal"])
	assert.Equal(t, uint64(1), snap["errorsTotal"])
	assert.Equal(t, uint64(1), snap["rateLimitedTotal"])
	assert.Equal(t, uint64(1), snap["unauthenticatedTotal"])
	assert.Equal(t, uint64(1), snap["forbiddenTotal"])
	assert.Equal(t, uint64(1), snap["notificationFailuresTotal"])
	assert.Equal(t, uint64(16), snap["totalDurationMs"])

	routes := snap["routes"].(map[string]uint64)
	assert.Equal(t, uint64(2), routes["/api/v1/goals"])
	assert.Equal(t, uint64(1), routes["unmatched"])
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record("/healthz", 200, time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), c.Snapshot()["requestsTotal"])
}
