package secureauth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/secureauth/secureauth-go/cache"
)

type enableTwoFactorRequest struct {
	Password string `json:"password"`
}

type twoFactorCodeRequest struct {
	Code string `json:"code"`
}

type twoFactorStatusResponse struct {
	Enabled bool `json:"enabled"`
}

// CreateAPIKeyRequest defines a public type used by secureauth APIs.
//
// CreateAPIKeyRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CreateAPIKeyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// ExpirationDays of nil means the key never expires.
	ExpirationDays *int `json:"expirationDays,omitempty"`
}

// GetPasswordPolicy describes the getpasswordpolicy operation and its observable behavior.
//
// GetPasswordPolicy may return an error when input validation, dependency calls, or security checks fail.
// GetPasswordPolicy does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) GetPasswordPolicy(ctx context.Context) (*PasswordPolicy, error) {
	if policy, ok := cacheGet[PasswordPolicy](c, cache.KeyPasswordPolicy); ok {
		return policy, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/account/password-policy", nil, nil)
	if err != nil {
		return nil, err
	}
	var policy PasswordPolicy
	if err := decodeData(raw, &policy); err != nil {
		return nil, err
	}
	cachePut(c, cache.KeyPasswordPolicy, &policy)
	return &policy, nil
}

// TwoFactorStatus describes the twofactorstatus operation and its observable behavior.
//
// TwoFactorStatus may return an error when input validation, dependency calls, or security checks fail.
// TwoFactorStatus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) TwoFactorStatus(ctx context.Context) (bool, error) {
	if status, ok := cacheGet[twoFactorStatusResponse](c, cache.KeyTwoFactorStatus); ok {
		return status.Enabled, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/account/2fa/status", nil, nil)
	if err != nil {
		return false, err
	}
	var status twoFactorStatusResponse
	if err := decodeData(raw, &status); err != nil {
		return false, err
	}
	cachePut(c, cache.KeyTwoFactorStatus, &status)
	return status.Enabled, nil
}

// EnableTwoFactor describes the enabletwofactor operation and its observable behavior.
//
// EnableTwoFactor may return an error when input validation, dependency calls, or security checks fail.
// EnableTwoFactor does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The returned setup carries the TOTP secret and QR provisioning URL; the
// enrollment only becomes active after [Client.VerifyTwoFactor] confirms a code.
func (c *Client) EnableTwoFactor(ctx context.Context, password string) (*TwoFactorSetup, error) {
	raw, err := c.do(ctx, http.MethodPost, "/account/2fa/enable", nil, enableTwoFactorRequest{Password: password})
	if err != nil {
		return nil, err
	}
	var setup TwoFactorSetup
	if err := decodeData(raw, &setup); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyTwoFactorStatus)
	return &setup, nil
}

// VerifyTwoFactor describes the verifytwofactor operation and its observable behavior.
//
// VerifyTwoFactor may return an error when input validation, dependency calls, or security checks fail.
// VerifyTwoFactor does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) VerifyTwoFactor(ctx context.Context, code string) error {
	if !isSixDigits(code) {
		return ErrTwoFactorInvalid
	}
	if _, err := c.do(ctx, http.MethodPost, "/account/2fa/verify", nil, twoFactorCodeRequest{Code: code}); err != nil {
		return err
	}
	c.invalidate(cache.KeyTwoFactorStatus)
	return nil
}

// DisableTwoFactor describes the disabletwofactor operation and its observable behavior.
//
// DisableTwoFactor may return an error when input validation, dependency calls, or security checks fail.
// DisableTwoFactor does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) DisableTwoFactor(ctx context.Context, password string) error {
	if _, err := c.do(ctx, http.MethodPost, "/account/2fa/disable", nil, enableTwoFactorRequest{Password: password}); err != nil {
		return err
	}
	c.invalidate(cache.KeyTwoFactorStatus)
	return nil
}

// ActiveSessions describes the activesessions operation and its observable behavior.
//
// ActiveSessions may return an error when input validation, dependency calls, or security checks fail.
// ActiveSessions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) ActiveSessions(ctx context.Context) ([]Session, error) {
	if sessions, ok := cacheGet[[]Session](c, cache.KeySessions); ok {
		return *sessions, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/account/sessions", nil, nil)
	if err != nil {
		return nil, err
	}
	var sessions []Session
	if err := decodeData(raw, &sessions); err != nil {
		return nil, err
	}
	cachePut(c, cache.KeySessions, &sessions)
	return sessions, nil
}

// RevokeSession describes the revokesession operation and its observable behavior.
//
// RevokeSession may return an error when input validation, dependency calls, or security checks fail.
// RevokeSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) RevokeSession(ctx context.Context, sessionID int64) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/account/sessions/%d", sessionID), nil, nil); err != nil {
		return err
	}
	c.invalidate(cache.KeySessions)
	return nil
}

// RevokeOtherSessions describes the revokeothersessions operation and its observable behavior.
//
// RevokeOtherSessions may return an error when input validation, dependency calls, or security checks fail.
// RevokeOtherSessions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The current session survives; everything else is invalidated server-side.
func (c *Client) RevokeOtherSessions(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, "/account/sessions", nil, nil); err != nil {
		return err
	}
	c.invalidate(cache.KeySessions)
	return nil
}

// ListAPIKeys describes the listapikeys operation and its observable behavior.
//
// ListAPIKeys may return an error when input validation, dependency calls, or security checks fail.
// ListAPIKeys does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	if keys, ok := cacheGet[[]APIKey](c, cache.KeyAPIKeys); ok {
		return *keys, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/account/api-keys", nil, nil)
	if err != nil {
		return nil, err
	}
	var keys []APIKey
	if err := decodeData(raw, &keys); err != nil {
		return nil, err
	}
	cachePut(c, cache.KeyAPIKeys, &keys)
	return keys, nil
}

// CreateAPIKey describes the createapikey operation and its observable behavior.
//
// CreateAPIKey may return an error when input validation, dependency calls, or security checks fail.
// CreateAPIKey does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// FullKey is only present in this response; afterwards the server exposes the
// prefix alone.
func (c *Client) CreateAPIKey(ctx context.Context, req CreateAPIKeyRequest) (*APIKey, error) {
	raw, err := c.do(ctx, http.MethodPost, "/account/api-keys", nil, req)
	if err != nil {
		return nil, err
	}
	var key APIKey
	if err := decodeData(raw, &key); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyAPIKeys)
	return &key, nil
}

// RevokeAPIKey describes the revokeapikey operation and its observable behavior.
//
// RevokeAPIKey may return an error when input validation, dependency calls, or security checks fail.
// RevokeAPIKey does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) RevokeAPIKey(ctx context.Context, apiKeyID int64) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/account/api-keys/%d", apiKeyID), nil, nil); err != nil {
		return err
	}
	c.invalidate(cache.KeyAPIKeys)
	return nil
}
