package inmemory

import (
	"sync"
	"time"

	menudomain "mess-app-go/internal/domain/menu"
)

// InMemoryMenuCache holds the single weekly menu shared by every caller.
type InMemoryMenuCache struct {
	mu         sync.RWMutex
	item       *menuItem
	generation uint64
	now        func() time.Time
}

type menuItem struct {
	value     []menudomain.Day
	expiresAt time.Time
}

func NewInMemoryMenuCache() *InMemoryMenuCache {
	return &InMemoryMenuCache{now: time.Now}
}

func (c *InMemoryMenuCache) Get() ([]menudomain.Day, bool) {
	now := c.now()

	c.mu.RLock()
	item := c.item
	c.mu.RUnlock()
	if item == nil {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		if c.item != nil && !c.item.expiresAt.After(now) {
			c.item = nil
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneDays(item.value), true
}

func (c *InMemoryMenuCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Set ignores values read before the latest Delete.
func (c *InMemoryMenuCache) Set(days []menudomain.Day, ttl time.Duration, generation uint64) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.item = &menuItem{
		value:     cloneDays(days),
		expiresAt: c.now().Add(ttl),
	}
}

func (c *InMemoryMenuCache) Delete() {
	c.mu.Lock()
	c.item = nil
	c.generation++
	c.mu.Unlock()
}

func cloneDays(days []menudomain.Day) []menudomain.Day {
	if days == nil {
		return nil
	}
	cloned := make([]menudomain.Day, len(days))
	copy(cloned, days)
	return cloned
}
