package secureauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/secureauth/secureauth-go/cache"
)

// SubmitRegistrationRequest defines a public type used by secureauth APIs.
//
// SubmitRegistrationRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SubmitRegistrationRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	CompanyName   string `json:"companyName,omitempty"`
	RequestReason string `json:"requestReason,omitempty"`
}

// SubmitRegistration describes the submitregistration operation and its observable behavior.
//
// SubmitRegistration may return an error when input validation, dependency calls, or security checks fail.
// SubmitRegistration does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// This is the one unauthenticated write in the API surface; it still flows
// through the normal pipeline, which simply finds no credentials to attach.
func (c *Client) SubmitRegistration(ctx context.Context, req SubmitRegistrationRequest) (*RegistrationRequest, error) {
	raw, err := c.do(ctx, http.MethodPost, "/registration/submit", nil, req)
	if err != nil {
		return nil, err
	}
	var result RegistrationRequest
	if err := decodeData(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PendingRegistrations describes the pendingregistrations operation and its observable behavior.
//
// PendingRegistrations may return an error when input validation, dependency calls, or security checks fail.
// PendingRegistrations does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) PendingRegistrations(ctx context.Context) ([]RegistrationRequest, error) {
	key := cache.KeyRegistrations + "_pending"
	if pending, ok := cacheGet[[]RegistrationRequest](c, key); ok {
		return *pending, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/registration/pending", nil, nil)
	if err != nil {
		return nil, err
	}
	var pending []RegistrationRequest
	if err := decodeData(raw, &pending); err != nil {
		return nil, err
	}
	cachePut(c, key, &pending)
	return pending, nil
}

// ListRegistrations describes the listregistrations operation and its observable behavior.
//
// ListRegistrations may return an error when input validation, dependency calls, or security checks fail.
// ListRegistrations does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) ListRegistrations(ctx context.Context) ([]RegistrationRequest, error) {
	if all, ok := cacheGet[[]RegistrationRequest](c, cache.KeyRegistrations); ok {
		return *all, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/registration", nil, nil)
	if err != nil {
		return nil, err
	}
	var all []RegistrationRequest
	if err := decodeData(raw, &all); err != nil {
		return nil, err
	}
	cachePut(c, cache.KeyRegistrations, &all)
	return all, nil
}

// GetRegistration describes the getregistration operation and its observable behavior.
//
// GetRegistration may return an error when input validation, dependency calls, or security checks fail.
// GetRegistration does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) GetRegistration(ctx context.Context, id int64) (*RegistrationRequest, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/registration/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	var result RegistrationRequest
	if err := decodeData(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ApproveRegistration describes the approveregistration operation and its observable behavior.
//
// ApproveRegistration may return an error when input validation, dependency calls, or security checks fail.
// ApproveRegistration does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) ApproveRegistration(ctx context.Context, id int64, comment string) (*RegistrationRequest, error) {
	return c.processRegistration(ctx, id, "approve", comment)
}

// RejectRegistration describes the rejectregistration operation and its observable behavior.
//
// RejectRegistration may return an error when input validation, dependency calls, or security checks fail.
// RejectRegistration does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) RejectRegistration(ctx context.Context, id int64, comment string) (*RegistrationRequest, error) {
	return c.processRegistration(ctx, id, "reject", comment)
}

func (c *Client) processRegistration(ctx context.Context, id int64, verb, comment string) (*RegistrationRequest, error) {
	var q url.Values
	if comment != "" {
		q = url.Values{"comment": []string{comment}}
	}
	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/registration/%d/%s", id, verb), q, nil)
	if err != nil {
		return nil, err
	}
	var result RegistrationRequest
	if err := decodeData(raw, &result); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyRegistrations)
	// Approval mints a user account, so user pages go stale too.
	c.invalidate(cache.KeyUsers)
	return &result, nil
}
