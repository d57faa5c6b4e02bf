package secureauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// refreshRaceServer serves a protected endpoint that rejects the stale token
// and a refresh endpoint that blocks until all n initial requests have been
// rejected, so every caller is forced into the recovery path concurrently.
func refreshRaceServer(t *testing.T, n int64, freshToken string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var rejected atomic.Int64
	var refreshCalls atomic.Int64
	var gateOnce sync.Once
	gate := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+freshToken {
			if rejected.Add(1) >= n {
				gateOnce.Do(func() { close(gate) })
			}
			writeEnvelopeError(w, http.StatusUnauthorized, "token expired")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"id": 1, "username": "alice"})
	})
	mux.HandleFunc("POST /api/v1/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case <-gate:
		case <-time.After(5 * time.Second):
			t.Error("refresh gate never opened")
		}
		// Hold the response a little longer so every rejected caller has
		// entered the recovery path before the refresh completes.
		time.Sleep(250 * time.Millisecond)
		refreshCalls.Add(1)
		writeEnvelope(w, http.StatusOK, map[string]any{"accessToken": freshToken})
	})

	return httptest.NewServer(mux), &refreshCalls
}

func TestCoalescedRefreshSingleUpstreamCall(t *testing.T) {
	const n = 8
	freshToken := mintAccessToken(t, time.Now().Add(time.Hour))
	server, refreshCalls := refreshRaceServer(t, n, freshToken)
	defer server.Close()

	client, err := New().
		WithBaseURL(server.URL + "/api/v1").
		WithRefreshCoalescing(true).
		Build()
	if err != nil {
		t.Fatalf("build client failed: %v", err)
	}
	defer client.Close()
	seedSession(t, client, "stale-access-token", "refresh-1", "")

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := client.GetUser(context.Background(), id)
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			t.Fatalf("request failed during coalesced recovery: %v", err)
		}
	}

	if got := refreshCalls.Load(); got != 1 {
		t.Fatalf("expected exactly one upstream refresh, got %d", got)
	}

	snapshot := client.MetricsSnapshot()
	if snapshot.Counters[MetricRefreshSuccess] != 1 {
		t.Fatalf("expected one refresh success, got %d", snapshot.Counters[MetricRefreshSuccess])
	}
	if snapshot.Counters[MetricRefreshCoalesced] != n-1 {
		t.Fatalf("expected %d coalesced waiters, got %d", n-1, snapshot.Counters[MetricRefreshCoalesced])
	}
	if snapshot.Counters[MetricRequestRetried] != n {
		t.Fatalf("expected every request to resend once, got %d", snapshot.Counters[MetricRequestRetried])
	}
}

func TestIndependentRefreshPerRequestByDefault(t *testing.T) {
	const n = 8
	freshToken := mintAccessToken(t, time.Now().Add(time.Hour))
	server, refreshCalls := refreshRaceServer(t, n, freshToken)
	defer server.Close()

	client := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, client, "stale-access-token", "refresh-1", "")

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := client.GetUser(context.Background(), id)
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			t.Fatalf("request failed during recovery: %v", err)
		}
	}

	if got := refreshCalls.Load(); got != n {
		t.Fatalf("expected one upstream refresh per failed request, got %d", got)
	}

	snapshot := client.MetricsSnapshot()
	if snapshot.Counters[MetricRefreshCoalesced] != 0 {
		t.Fatalf("expected no coalescing by default, got %d", snapshot.Counters[MetricRefreshCoalesced])
	}
	if snapshot.Counters[MetricRefreshSuccess] != n {
		t.Fatalf("expected %d refresh successes, got %d", n, snapshot.Counters[MetricRefreshSuccess])
	}
}

func TestSequentialRecoveriesRefreshIndependently(t *testing.T) {
	var refreshCalls atomic.Int64
	fresh := func(i int64) string { return fmt.Sprintf("fresh-%d", i) }

	var current atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fresh(current.Load()) {
			writeEnvelopeError(w, http.StatusUnauthorized, "token expired")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"id": 1})
	})
	mux.HandleFunc("POST /api/v1/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"accessToken": fresh(current.Load()),
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := New().
		WithBaseURL(server.URL + "/api/v1").
		WithRefreshCoalescing(true).
		Build()
	if err != nil {
		t.Fatalf("build client failed: %v", err)
	}
	defer client.Close()
	seedSession(t, client, "stale", "refresh-1", "")

	// With no overlap, coalescing must not pin callers to a finished refresh:
	// each request carries last round's token, recovers, and gets this round's.
	for i := int64(1); i <= 3; i++ {
		current.Store(i)
		if _, err := client.GetUser(context.Background(), i); err != nil {
			t.Fatalf("sequential recovery %d failed: %v", i, err)
		}
	}

	if got := refreshCalls.Load(); got != 3 {
		t.Fatalf("expected one refresh per round, got %d", got)
	}
	if got := client.MetricsSnapshot().Counters[MetricRefreshCoalesced]; got != 0 {
		t.Fatalf("sequential recoveries must not coalesce, got %d", got)
	}
}
