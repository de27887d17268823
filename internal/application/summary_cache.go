package application

import (
	"fmt"
	"sync"
	"time"
)

// summaryCache stores recently computed dashboards so repeated polling does not
// re-expand the timetable while the state version and the minute stay the same.
type summaryCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]summaryCacheEntry
}

type summaryCacheEntry struct {
	dashboard Dashboard
	expiresAt time.Time
}

func newSummaryCache(ttl time.Duration, maxEntries int, now func() time.Time) *summaryCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 16
	}
	if now == nil {
		now = time.Now
	}
	return &summaryCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]summaryCacheEntry),
	}
}

func (c *summaryCache) Get(key string) (Dashboard, bool) {
	if c == nil {
		return Dashboard{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Dashboard{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Dashboard{}, false
	}
	return cloneDashboard(entry.dashboard), true
}

func (c *summaryCache) Store(key string, dashboard Dashboard) {
	if c == nil {
		return
	}
	cloned := cloneDashboard(dashboard)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = summaryCacheEntry{dashboard: cloned, expiresAt: expiry}
}

func (c *summaryCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]summaryCacheEntry)
	c.mu.Unlock()
}

func (c *summaryCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *summaryCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneDashboard(d Dashboard) Dashboard {
	out := d
	if d.NextClass != nil {
		next := *d.NextClass
		out.NextClass = &next
	}
	out.UpcomingExams = append([]UpcomingExam(nil), d.UpcomingExams...)
	out.WeekClasses = append([]ClassOccurrence(nil), d.WeekClasses...)
	return out
}

// buildSummaryCacheKey keys a dashboard by state version and the minute it was
// computed for, the granularity of the next-class calculation.
func buildSummaryCacheKey(version uint64, now time.Time) string {
	return fmt.Sprintf("%d|%s", version, now.Truncate(time.Minute).Format(time.RFC3339))
}
