package secureauth

import (
	"net/http"
	"testing"
	"time"

	"github.com/secureauth/secureauth-go/store"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base URL", func(c *Config) { c.API.BaseURL = "" }},
		{"non-http scheme", func(c *Config) { c.API.BaseURL = "ftp://host/api" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"empty session header", func(c *Config) { c.API.SessionHeader = "" }},
		{"empty request ID header", func(c *Config) { c.API.RequestIDHeader = "" }},
		{"negative cache TTL", func(c *Config) { c.Cache.DefaultTTL = -time.Minute }},
		{"negative events buffer", func(c *Config) { c.Events.BufferSize = -1 }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected a validation error", tc.name)
		}
	}
}

func TestBuilderDefaults(t *testing.T) {
	client, err := New().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	if client.Store() == nil {
		t.Fatal("expected a default in-memory store")
	}
	if _, ok := client.Store().(*store.Memory); !ok {
		t.Fatalf("expected *store.Memory by default, got %T", client.Store())
	}
	if client.cache == nil {
		t.Fatal("expected the ephemeral cache enabled by default")
	}
	if client.config.Refresh.Coalesce {
		t.Fatal("expected refresh coalescing off by default")
	}
}

func TestBuilderRejectsInvalidBaseURL(t *testing.T) {
	if _, err := New().WithBaseURL("not a url").Build(); err == nil {
		t.Fatal("expected an error for an unparseable base URL")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New()
	client, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer client.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected the second Build to fail")
	}
}

func TestBuilderHonorsInjectedDependencies(t *testing.T) {
	tokens := store.NewMemory()
	httpClient := &http.Client{Timeout: time.Second}

	client, err := New().
		WithStore(tokens).
		WithHTTPClient(httpClient).
		WithMetricsEnabled(false).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	if client.Store() != tokens {
		t.Fatal("expected the injected store")
	}
	if client.http != httpClient {
		t.Fatal("expected the injected HTTP client")
	}
	if client.metrics.Enabled() {
		t.Fatal("expected metrics disabled")
	}
}

func TestBuilderDisabledCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false

	client, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	if client.cache != nil {
		t.Fatal("expected no cache when disabled")
	}
	// Cache-aware helpers must degrade to pass-through.
	if _, ok := cacheGet[int](client, "anything"); ok {
		t.Fatal("expected a miss with no cache")
	}
	cachePut(client, "anything", new(int))
	client.invalidate("anything")
}
