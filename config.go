package secureauth

import (
	"errors"
	"net/url"
	"time"
)

// Config defines a public type used by secureauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Refresh RefreshConfig
	Cache   CacheConfig
	Events  EventsConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by secureauth APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	BaseURL         string
	Timeout         time.Duration
	UserAgent       string
	SessionHeader   string
	RequestIDHeader string
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by secureauth APIs.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	// Coalesce shares one in-flight refresh between concurrent 401-recovering
	// requests. Off by default: each failed request then refreshes on its own,
	// which is wasteful but harmless because the endpoint is idempotent.
	Coalesce bool
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig defines a public type used by secureauth APIs.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventsConfig defines a public type used by secureauth APIs.
//
// EventsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventsConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by secureauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8080/api/v1",
			Timeout:         30 * time.Second,
			SessionHeader:   "X-Session-Token",
			RequestIDHeader: "X-Request-ID",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: 5 * time.Minute,
		},
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: empty API base URL")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return errors.New("config: invalid API base URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("config: API base URL must be http or https")
	}
	if c.API.Timeout < 0 {
		return errors.New("config: negative API timeout")
	}
	if c.API.SessionHeader == "" {
		return errors.New("config: empty session header name")
	}
	if c.API.RequestIDHeader == "" {
		return errors.New("config: empty request ID header name")
	}
	if c.Cache.Enabled && c.Cache.DefaultTTL < 0 {
		return errors.New("config: negative cache TTL")
	}
	if c.Events.Enabled && c.Events.BufferSize < 0 {
		return errors.New("config: negative events buffer size")
	}
	return nil
}
