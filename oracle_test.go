package secureauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newOfflineClient(t *testing.T) *Client {
	t.Helper()
	// No request is ever sent in these tests; the address only has to parse.
	return newTestClient(t, "http://127.0.0.1:1/api/v1")
}

func TestIsAuthenticatedWithoutToken(t *testing.T) {
	c := newOfflineClient(t)
	if c.IsAuthenticated(context.Background()) {
		t.Fatal("expected unauthenticated with empty store")
	}
}

func TestIsAuthenticatedWithValidToken(t *testing.T) {
	c := newOfflineClient(t)
	seedSession(t, c, mintAccessToken(t, time.Now().Add(time.Hour)), "refresh-1", "session-1")

	if !c.IsAuthenticated(context.Background()) {
		t.Fatal("expected authenticated with unexpired token")
	}
}

func TestIsAuthenticatedWithExpiredToken(t *testing.T) {
	c := newOfflineClient(t)
	seedSession(t, c, mintAccessToken(t, time.Now().Add(-time.Hour)), "refresh-1", "session-1")

	if c.IsAuthenticated(context.Background()) {
		t.Fatal("expected unauthenticated with expired token")
	}
}

func TestIsAuthenticatedAtInjectedClock(t *testing.T) {
	c := newOfflineClient(t)
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedSession(t, c, mintAccessToken(t, expiry), "refresh-1", "")

	c.now = func() time.Time { return expiry.Add(-time.Minute) }
	if !c.IsAuthenticated(context.Background()) {
		t.Fatal("expected authenticated one minute before expiry")
	}

	c.now = func() time.Time { return expiry.Add(time.Minute) }
	if c.IsAuthenticated(context.Background()) {
		t.Fatal("expected unauthenticated one minute after expiry")
	}
}

func TestIsAuthenticatedWithMalformedToken(t *testing.T) {
	c := newOfflineClient(t)
	seedSession(t, c, "not-a-jwt-at-all", "refresh-1", "")

	if c.IsAuthenticated(context.Background()) {
		t.Fatal("expected unauthenticated with undecodable token")
	}
}

func TestIsAuthenticatedWithMissingExpiryClaim(t *testing.T) {
	c := newOfflineClient(t)
	seedSession(t, c, mintTokenWithoutExpiry(t), "refresh-1", "")

	if c.IsAuthenticated(context.Background()) {
		t.Fatal("expected unauthenticated when the token has no expiry claim")
	}
}

func TestHasRoleIsCaseSensitive(t *testing.T) {
	c := newOfflineClient(t)
	seedProfile(t, c, Profile{Username: "alice", Roles: []string{RoleAdmin, RoleUser}})

	ctx := context.Background()
	if !c.HasRole(ctx, RoleAdmin) {
		t.Fatal("expected HasRole(ADMIN) true")
	}
	if c.HasRole(ctx, "admin") {
		t.Fatal("expected HasRole(admin) false: matching is case-sensitive")
	}
	if c.HasRole(ctx, RoleManager) {
		t.Fatal("expected HasRole(MANAGER) false")
	}
}

func TestHasAnyRole(t *testing.T) {
	c := newOfflineClient(t)
	seedProfile(t, c, Profile{Username: "bob", Roles: []string{RoleUser}})

	ctx := context.Background()
	if !c.HasAnyRole(ctx, RoleAdmin, RoleUser) {
		t.Fatal("expected HasAnyRole to match USER")
	}
	if c.HasAnyRole(ctx, RoleAdmin, RoleSecurity) {
		t.Fatal("expected HasAnyRole false when no role matches")
	}
	if c.HasAnyRole(ctx) {
		t.Fatal("expected HasAnyRole false with no candidates")
	}
}

func TestRoleChecksWithoutProfile(t *testing.T) {
	c := newOfflineClient(t)

	ctx := context.Background()
	if c.HasRole(ctx, RoleAdmin) {
		t.Fatal("expected HasRole false with no cached profile")
	}
	if c.HasAnyRole(ctx, RoleAdmin, RoleUser) {
		t.Fatal("expected HasAnyRole false with no cached profile")
	}
}

func TestRoleChecksWithMalformedProfile(t *testing.T) {
	c := newOfflineClient(t)
	if err := c.store.SetProfile(context.Background(), []byte("{broken")); err != nil {
		t.Fatalf("seed profile failed: %v", err)
	}

	if c.HasRole(context.Background(), RoleAdmin) {
		t.Fatal("expected HasRole false with undecodable profile")
	}
}

func TestCurrentProfileAbsent(t *testing.T) {
	c := newOfflineClient(t)

	if _, err := c.CurrentProfile(context.Background()); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
}

func TestCurrentProfileMalformed(t *testing.T) {
	c := newOfflineClient(t)
	if err := c.store.SetProfile(context.Background(), []byte("not json")); err != nil {
		t.Fatalf("seed profile failed: %v", err)
	}

	if _, err := c.CurrentProfile(context.Background()); !errors.Is(err, ErrProfileMalformed) {
		t.Fatalf("expected ErrProfileMalformed, got %v", err)
	}
}

func TestCurrentUsername(t *testing.T) {
	c := newOfflineClient(t)
	if err := c.store.SetUsername(context.Background(), "alice"); err != nil {
		t.Fatalf("seed username failed: %v", err)
	}

	username, err := c.CurrentUsername(context.Background())
	if err != nil {
		t.Fatalf("CurrentUsername failed: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected alice, got %q", username)
	}
}
