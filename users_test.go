package secureauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func usersServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var listCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users", func(w http.ResponseWriter, _ *http.Request) {
		listCalls.Add(1)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"content": []map[string]any{
				{"id": 1, "username": "alice", "roles": []string{"ADMIN"}},
				{"id": 2, "username": "bob", "roles": []string{"USER"}},
			},
			"number":        0,
			"totalElements": 2,
			"totalPages":    1,
			"first":         true,
			"last":          true,
		})
	})
	mux.HandleFunc("POST /api/v1/users", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusCreated, map[string]any{
			"user":              map[string]any{"id": 3, "username": "carol"},
			"temporaryPassword": "Temp#1234",
			"message":           "user created",
		})
	})
	mux.HandleFunc("DELETE /api/v1/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, nil)
	})
	return httptest.NewServer(mux), &listCalls
}

func TestListUsersCachesPages(t *testing.T) {
	server, listCalls := usersServer(t)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	ctx := context.Background()
	if _, err := c.ListUsers(ctx, ListOptions{}); err != nil {
		t.Fatalf("first ListUsers failed: %v", err)
	}
	page, err := c.ListUsers(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("second ListUsers failed: %v", err)
	}
	if len(page.Content) != 2 {
		t.Fatalf("unexpected cached page: %+v", page.Content)
	}

	if got := listCalls.Load(); got != 1 {
		t.Fatalf("expected the second read served from cache, got %d calls", got)
	}

	snapshot := c.MetricsSnapshot()
	if snapshot.Counters[MetricCacheMiss] != 1 || snapshot.Counters[MetricCacheHit] != 1 {
		t.Fatalf("expected one miss and one hit, got miss=%d hit=%d",
			snapshot.Counters[MetricCacheMiss], snapshot.Counters[MetricCacheHit])
	}
}

func TestListUsersCachesPerPage(t *testing.T) {
	server, listCalls := usersServer(t)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	ctx := context.Background()
	if _, err := c.ListUsers(ctx, ListOptions{Page: 0}); err != nil {
		t.Fatalf("page 0 failed: %v", err)
	}
	if _, err := c.ListUsers(ctx, ListOptions{Page: 1}); err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	if got := listCalls.Load(); got != 2 {
		t.Fatalf("distinct pages must be fetched separately, got %d calls", got)
	}
}

func TestUserMutationInvalidatesListCache(t *testing.T) {
	server, listCalls := usersServer(t)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	ctx := context.Background()
	if _, err := c.ListUsers(ctx, ListOptions{}); err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}

	result, err := c.CreateUser(ctx, CreateUserRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Roles:    []string{RoleUser},
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if result.TemporaryPassword == "" {
		t.Fatal("expected a temporary password in the creation result")
	}

	if _, err := c.ListUsers(ctx, ListOptions{}); err != nil {
		t.Fatalf("ListUsers after mutation failed: %v", err)
	}
	if got := listCalls.Load(); got != 2 {
		t.Fatalf("expected the mutation to drop every cached page, got %d calls", got)
	}
}

func TestDeleteUserInvalidatesListCache(t *testing.T) {
	server, listCalls := usersServer(t)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	ctx := context.Background()
	if _, err := c.ListUsers(ctx, ListOptions{}); err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if err := c.DeleteUser(ctx, 2); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := c.ListUsers(ctx, ListOptions{}); err != nil {
		t.Fatalf("ListUsers after delete failed: %v", err)
	}
	if got := listCalls.Load(); got != 2 {
		t.Fatalf("expected a fresh fetch after delete, got %d calls", got)
	}
}

func TestGetUserDecodesServerTimestamps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/5", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"id":          5,
			"username":    "dora",
			"createdAt":   "2025-03-01T10:30:00",
			"lastLoginAt": nil,
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	user, err := c.GetUser(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected createdAt parsed from the zone-less layout")
	}
	if user.CreatedAt.Hour() != 10 || user.CreatedAt.Minute() != 30 {
		t.Fatalf("unexpected createdAt: %v", user.CreatedAt)
	}
	if !user.LastLoginAt.IsZero() {
		t.Fatal("expected null lastLoginAt decoded as zero time")
	}
}

func TestResetUserPasswordReturnsTemporaryPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/9/reset-password", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"userId":            9,
			"username":          "erin",
			"temporaryPassword": "Temp#5678",
			"message":           "password reset",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/v1")
	seedSession(t, c, "access-1", "refresh-1", "")

	result, err := c.ResetUserPassword(context.Background(), 9)
	if err != nil {
		t.Fatalf("ResetUserPassword failed: %v", err)
	}
	if result.UserID != 9 || result.TemporaryPassword != "Temp#5678" {
		t.Fatalf("unexpected reset result: %+v", result)
	}
}
