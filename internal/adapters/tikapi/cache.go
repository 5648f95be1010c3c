package tikapi

import (
	"sync"
	"time"
)

type entry struct {
	raw []byte
	at  time.Time
}

// cache is a bounded TTL map keyed by namespaced link
type cache struct {
	mu  sync.Mutex
	m   map[string]entry
	ttl time.Duration
	max int
	now func() time.Time
}

func newCache(ttl time.Duration, max int, now func() time.Time) *cache {
	return &cache{m: make(map[string]entry), ttl: ttl, max: max, now: now}
}

func (c *cache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.at) >= c.ttl {
		delete(c.m, key)
		return nil, false
	}
	return e.raw, true
}

func (c *cache) put(key string, raw []byte) { c.putAt(key, raw, c.now()) }

// putAt stores raw as captured at at, so it expires ttl after that instant
func (c *cache) putAt(key string, raw []byte, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; !exists && len(c.m) >= c.max {
		c.evict(c.now())
	}
	c.m[key] = entry{raw: raw, at: at}
}

// evict drops expired entries, then the oldest one if still full; caller holds mu
func (c *cache) evict(now time.Time) {
	for k, e := range c.m {
		if now.Sub(e.at) >= c.ttl {
			delete(c.m, k)
		}
	}
	if len(c.m) < c.max {
		return
	}
	var oldestKey string
	var oldest time.Time
	for k, e := range c.m {
		if oldestKey == "" || e.at.Before(oldest) {
			oldestKey, oldest = k, e.at
		}
	}
	delete(c.m, oldestKey)
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
