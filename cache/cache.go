package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is an exported constant or variable used by the session client.
const DefaultTTL = 5 * time.Minute

// Key prefixes shared with the Client's service methods. Full keys append the
// paging arguments, so InvalidatePrefix on the bare prefix drops every page.
const (
	KeyUsers           = "users_list"
	KeyRoles           = "roles_list"
	KeyAuditLogs       = "audit_logs"
	KeyRegistrations   = "registrations_list"
	KeySessions        = "sessions_list"
	KeyAPIKeys         = "api_keys_list"
	KeyTwoFactorStatus = "2fa_status"
	KeyPasswordPolicy  = "password_policy"
)

type entry struct {
	value     any
	expiresAt time.Time
	timer     *time.Timer
}

// Cache defines a public type used by secureauth APIs.
//
// Cache instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Cache struct {
	mu         sync.Mutex
	defaultTTL time.Duration
	entries    map[string]*entry

	now func() time.Time
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		defaultTTL: defaultTTL,
		entries:    make(map[string]*entry),
		now:        time.Now,
	}
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		e.timer.Stop()
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set describes the set operation and its observable behavior.
//
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, 0)
}

// SetTTL describes the setttl operation and its observable behavior.
//
// SetTTL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		old.timer.Stop()
	}
	e := &entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	// The timer captures the entry pointer so a Set racing the eviction never
	// deletes a newer value under the same key.
	e.timer = time.AfterFunc(ttl, func() {
		c.evict(key, e)
	})
	c.entries[key] = e
}

func (c *Cache) evict(key string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.entries[key]; ok && cur == e {
		delete(c.entries, key)
	}
}

// Delete describes the delete operation and its observable behavior.
//
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.timer.Stop()
		delete(c.entries, key)
	}
}

// InvalidatePrefix describes the invalidateprefix operation and its observable behavior.
//
// InvalidatePrefix does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) {
			e.timer.Stop()
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Clear describes the clear operation and its observable behavior.
//
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		e.timer.Stop()
		delete(c.entries, key)
	}
}

// Len describes the len operation and its observable behavior.
//
// Len does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
