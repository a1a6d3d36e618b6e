package microlog

import (
	"sync"
	"time"
)

// recordCache keeps the decoded, newest-first ledger scan in memory with
// a TTL so every archive page view does not re-read and re-parse the
// whole file. Writers invalidate it after each append.
type recordCache struct {
	mu      sync.RWMutex
	records []Record
	fetched time.Time
	ttl     time.Duration
	ledger  *Ledger
}

func newRecordCache(l *Ledger, ttl time.Duration) *recordCache {
	return &recordCache{ledger: l, ttl: ttl}
}

func (c *recordCache) valid() bool {
	return c.records != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh scan.
func (c *recordCache) Invalidate() {
	c.mu.Lock()
	c.records = nil
	c.mu.Unlock()
}

// Records returns the cached newest-first scan, reloading it when stale.
// It tries a read lock first; only takes a write lock to reload.
func (c *recordCache) Records() ([]Record, error) {
	c.mu.RLock()
	if c.valid() {
		records := c.records
		c.mu.RUnlock()
		return records, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.records, nil
	}
	records, err := c.ledger.Records()
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	c.records = records
	c.fetched = time.Now()
	return records, nil
}

// Page filters and paginates the cached scan.
func (c *recordCache) Page(query string, page, perPage int) (ArchivePage, error) {
	records, err := c.Records()
	if err != nil {
		return ArchivePage{}, err
	}
	return paginateRecords(records, query, page, perPage), nil
}
