package secureauth

import (
	"context"
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// IsAuthenticated reports whether a stored access token exists and its expiry
// claim is still in the future.
//
// The token is decoded without signature verification — the client does not
// hold the server's signing key. This check is advisory UX state only; the
// server remains the sole trust boundary and re-validates every request.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	access, err := c.store.AccessToken(ctx)
	if err != nil || access == "" {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.After(c.now())
}

// HasRole reports whether the cached profile carries role exactly
// (case-sensitive). A missing or malformed profile yields false, never an
// error: an unauthenticated user simply has no roles.
func (c *Client) HasRole(ctx context.Context, role string) bool {
	profile, err := c.CurrentProfile(ctx)
	if err != nil {
		return false
	}
	return profile.HasRole(role)
}

// HasAnyRole reports whether the cached profile carries at least one of the
// given roles.
func (c *Client) HasAnyRole(ctx context.Context, roles ...string) bool {
	profile, err := c.CurrentProfile(ctx)
	if err != nil {
		return false
	}
	for _, role := range roles {
		if profile.HasRole(role) {
			return true
		}
	}
	return false
}

// CurrentProfile describes the currentprofile operation and its observable behavior.
//
// CurrentProfile may return an error when input validation, dependency calls, or security checks fail.
// CurrentProfile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Absence is [ErrNoProfile]; undecodable stored JSON is [ErrProfileMalformed].
func (c *Client) CurrentProfile(ctx context.Context) (Profile, error) {
	raw, err := c.store.Profile(ctx)
	if err != nil {
		return Profile{}, err
	}
	if len(raw) == 0 {
		return Profile{}, ErrNoProfile
	}

	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return Profile{}, ErrProfileMalformed
	}
	return profile, nil
}

// CurrentUsername describes the currentusername operation and its observable behavior.
//
// CurrentUsername may return an error when input validation, dependency calls, or security checks fail.
// CurrentUsername does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) CurrentUsername(ctx context.Context) (string, error) {
	return c.store.Username(ctx)
}
