package secureauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/secureauth/secureauth-go/cache"
)

// ListOptions defines a public type used by secureauth APIs.
//
// ListOptions instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Zero values fall back to each endpoint's server-side defaults.
type ListOptions struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

// CreateUserRequest defines a public type used by secureauth APIs.
//
// CreateUserRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CreateUserRequest struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Roles       []string `json:"roles"`
}

// CreateUserResult defines a public type used by secureauth APIs.
//
// CreateUserResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CreateUserResult struct {
	User              User   `json:"user"`
	TemporaryPassword string `json:"temporaryPassword"`
	Message           string `json:"message"`
}

// UpdateUserRequest defines a public type used by secureauth APIs.
//
// UpdateUserRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Nil fields are omitted from the payload and left unchanged server-side.
type UpdateUserRequest struct {
	Email       *string  `json:"email,omitempty"`
	FirstName   *string  `json:"firstName,omitempty"`
	LastName    *string  `json:"lastName,omitempty"`
	PhoneNumber *string  `json:"phoneNumber,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// ResetPasswordResult defines a public type used by secureauth APIs.
//
// ResetPasswordResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResetPasswordResult struct {
	UserID            int64  `json:"userId"`
	Username          string `json:"username"`
	TemporaryPassword string `json:"temporaryPassword"`
	Message           string `json:"message"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ListUsers describes the listusers operation and its observable behavior.
//
// ListUsers may return an error when input validation, dependency calls, or security checks fail.
// ListUsers does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Pages are memoized per (page, size, sort) until a user mutation invalidates
// them or the TTL elapses.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (*Page[User], error) {
	if opts.Size <= 0 {
		opts.Size = 10
	}
	if opts.SortBy == "" {
		opts.SortBy = "id"
	}
	key := fmt.Sprintf("%s_%d_%d_%s", cache.KeyUsers, opts.Page, opts.Size, opts.SortBy)
	if page, ok := cacheGet[Page[User]](c, key); ok {
		return page, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/users", listQuery(opts.Page, opts.Size, opts.SortBy, opts.SortDirection), nil)
	if err != nil {
		return nil, err
	}
	var page Page[User]
	if err := decodeData(raw, &page); err != nil {
		return nil, err
	}
	cachePut(c, key, &page)
	return &page, nil
}

// GetUser describes the getuser operation and its observable behavior.
//
// GetUser may return an error when input validation, dependency calls, or security checks fail.
// GetUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeData(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me describes the me operation and its observable behavior.
//
// Me may return an error when input validation, dependency calls, or security checks fail.
// Me does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Me(ctx context.Context) (*User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/users/me", nil, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeData(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser describes the createuser operation and its observable behavior.
//
// CreateUser may return an error when input validation, dependency calls, or security checks fail.
// CreateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*CreateUserResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/users", nil, req)
	if err != nil {
		return nil, err
	}
	var result CreateUserResult
	if err := decodeData(raw, &result); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyUsers)
	return &result, nil
}

// UpdateUser describes the updateuser operation and its observable behavior.
//
// UpdateUser may return an error when input validation, dependency calls, or security checks fail.
// UpdateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, req)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeData(raw, &user); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyUsers)
	return &user, nil
}

// DeleteUser describes the deleteuser operation and its observable behavior.
//
// DeleteUser may return an error when input validation, dependency calls, or security checks fail.
// DeleteUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(cache.KeyUsers)
	return nil
}

// ToggleUserStatus describes the toggleuserstatus operation and its observable behavior.
//
// ToggleUserStatus may return an error when input validation, dependency calls, or security checks fail.
// ToggleUserStatus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) ToggleUserStatus(ctx context.Context, id int64) (*User, error) {
	raw, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/toggle-status", id), nil, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeData(raw, &user); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyUsers)
	return &user, nil
}

// UnlockUser describes the unlockuser operation and its observable behavior.
//
// UnlockUser may return an error when input validation, dependency calls, or security checks fail.
// UnlockUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) UnlockUser(ctx context.Context, id int64) (*User, error) {
	raw, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/unlock", id), nil, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := decodeData(raw, &user); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyUsers)
	return &user, nil
}

// ResetUserPassword describes the resetuserpassword operation and its observable behavior.
//
// ResetUserPassword may return an error when input validation, dependency calls, or security checks fail.
// ResetUserPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Administrative reset: the result carries a temporary password and the target
// account is flagged for a mandatory change at next login.
func (c *Client) ResetUserPassword(ctx context.Context, id int64) (*ResetPasswordResult, error) {
	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/reset-password", id), nil, nil)
	if err != nil {
		return nil, err
	}
	var result ResetPasswordResult
	if err := decodeData(raw, &result); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyUsers)
	return &result, nil
}

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// On success the cached profile's pending must-change flag is cleared in place,
// so the oracle stops steering the caller to the forced-change flow.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	if _, err := c.do(ctx, http.MethodPost, "/users/change-password", nil, changePasswordRequest{
		OldPassword:     oldPassword,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	}); err != nil {
		return err
	}

	raw, err := c.store.Profile(ctx)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil || !profile.MustChangePassword {
		return nil
	}
	profile.MustChangePassword = false
	updated, err := json.Marshal(profile)
	if err != nil {
		return nil
	}
	if err := c.store.SetProfile(ctx, updated); err != nil {
		log.Print("secureauth: profile update after password change failed")
	}
	return nil
}
