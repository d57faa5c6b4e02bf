package secureauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func emptyAuditPage(w http.ResponseWriter) {
	writeEnvelope(w, http.StatusOK, map[string]any{
		"content":       []map[string]any{},
		"totalElements": 0,
		"totalPages":    0,
	})
}

func TestListAuditLogsAppliesServerDefaults(t *testing.T) {
	var gotQuery url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/audit", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		emptyAuditPage(w)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	if _, err := c.ListAuditLogs(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("ListAuditLogs failed: %v", err)
	}

	if gotQuery.Get("size") != "20" {
		t.Fatalf("expected default size 20, got %q", gotQuery.Get("size"))
	}
	if gotQuery.Get("sortBy") != "timestamp" {
		t.Fatalf("expected default sortBy timestamp, got %q", gotQuery.Get("sortBy"))
	}
	if gotQuery.Get("sortDirection") != "DESC" {
		t.Fatalf("expected default sortDirection DESC, got %q", gotQuery.Get("sortDirection"))
	}
}

func TestSearchAuditLogsQueryParameters(t *testing.T) {
	var gotQuery url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/audit/search", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		emptyAuditPage(w)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	success := true
	filter := AuditSearchFilter{
		Username:  "alice",
		Action:    "LOGIN",
		Success:   &success,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	if _, err := c.SearchAuditLogs(context.Background(), filter, 0, 50); err != nil {
		t.Fatalf("SearchAuditLogs failed: %v", err)
	}

	if gotQuery.Get("username") != "alice" || gotQuery.Get("action") != "LOGIN" {
		t.Fatalf("unexpected filter params: %v", gotQuery)
	}
	if gotQuery.Get("success") != "true" {
		t.Fatalf("expected success=true, got %q", gotQuery.Get("success"))
	}
	if gotQuery.Get("startDate") != "2026-01-01T00:00:00" {
		t.Fatalf("expected zone-less start date, got %q", gotQuery.Get("startDate"))
	}
	if gotQuery.Get("endDate") != "2026-01-31T23:59:59" {
		t.Fatalf("expected zone-less end date, got %q", gotQuery.Get("endDate"))
	}
}

func TestSearchAuditLogsOmitsZeroFilters(t *testing.T) {
	var gotQuery url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/audit/search", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		emptyAuditPage(w)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	if _, err := c.SearchAuditLogs(context.Background(), AuditSearchFilter{}, 0, 0); err != nil {
		t.Fatalf("SearchAuditLogs failed: %v", err)
	}

	for _, param := range []string{"username", "action", "success", "startDate", "endDate"} {
		if gotQuery.Has(param) {
			t.Fatalf("expected %s omitted for a zero filter, got %q", param, gotQuery.Get(param))
		}
	}
	if gotQuery.Get("size") != "20" {
		t.Fatalf("expected default size 20, got %q", gotQuery.Get("size"))
	}
}

func TestRecentAuditLogsDecodesTimestamps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/audit/recent/alice", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, []map[string]any{
			{"id": 1, "username": "alice", "action": "LOGIN", "success": true, "timestamp": "2026-08-30T09:15:00"},
			{"id": 2, "username": "alice", "action": "LOGOUT", "success": true, "timestamp": "2026-08-30T17:40:12"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	logs, err := c.RecentAuditLogs(context.Background(), "alice")
	if err != nil {
		t.Fatalf("RecentAuditLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logs))
	}
	if logs[0].Timestamp.IsZero() || logs[0].Action != "LOGIN" {
		t.Fatalf("unexpected first entry: %+v", logs[0])
	}
}
