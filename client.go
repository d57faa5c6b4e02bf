package secureauth

import (
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/secureauth/secureauth-go/cache"
	"github.com/secureauth/secureauth-go/internal/events"
	"github.com/secureauth/secureauth-go/store"
)

// Client defines a public type used by secureauth APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// All methods are safe for concurrent use after [Builder.Build].
type Client struct {
	config  Config
	http    *http.Client
	baseURL *url.URL
	store   store.Store
	cache   *cache.Cache
	events  *events.Dispatcher
	metrics *Metrics

	refreshMu       sync.Mutex
	refreshInFlight *refreshCall

	now    func() time.Time
	closed atomic.Bool
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Close drains the event dispatcher. It does not clear the token store: a
// closed client leaves the persisted session intact for the next process.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.closed.Swap(true) {
		return
	}
	c.events.Close()
}

// Store describes the store operation and its observable behavior.
//
// Store does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Store() store.Store {
	return c.store
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return (&Metrics{}).Snapshot()
	}
	return c.metrics.Snapshot()
}

func (c *Client) metricInc(id MetricID) {
	c.metrics.Inc(id)
}

func (c *Client) metricObserve(id MetricID, d time.Duration) {
	c.metrics.Observe(id, d)
}

func cacheGet[T any](c *Client, key string) (*T, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		c.metricInc(MetricCacheMiss)
		return nil, false
	}
	value, ok := v.(*T)
	if !ok {
		c.metricInc(MetricCacheMiss)
		return nil, false
	}
	c.metricInc(MetricCacheHit)
	return value, true
}

func cachePut[T any](c *Client, key string, value *T) {
	if c.cache == nil {
		return
	}
	c.cache.Set(key, value)
}

func (c *Client) invalidate(prefix string) {
	if c.cache == nil {
		return
	}
	c.cache.InvalidatePrefix(prefix)
}
