package secureauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/secureauth/secureauth-go/cache"
)

// RoleRequest defines a public type used by secureauth APIs.
//
// RoleRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// ListRoles describes the listroles operation and its observable behavior.
//
// ListRoles may return an error when input validation, dependency calls, or security checks fail.
// ListRoles does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	if roles, ok := cacheGet[[]Role](c, cache.KeyRoles); ok {
		return *roles, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/roles", nil, nil)
	if err != nil {
		return nil, err
	}
	var roles []Role
	if err := decodeData(raw, &roles); err != nil {
		return nil, err
	}
	cachePut(c, cache.KeyRoles, &roles)
	return roles, nil
}

// GetRole describes the getrole operation and its observable behavior.
//
// GetRole may return an error when input validation, dependency calls, or security checks fail.
// GetRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) GetRole(ctx context.Context, id int64) (*Role, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/roles/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := decodeData(raw, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// GetRoleByName describes the getrolebyname operation and its observable behavior.
//
// GetRoleByName may return an error when input validation, dependency calls, or security checks fail.
// GetRoleByName does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	raw, err := c.do(ctx, http.MethodGet, "/roles/name/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := decodeData(raw, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole describes the createrole operation and its observable behavior.
//
// CreateRole may return an error when input validation, dependency calls, or security checks fail.
// CreateRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) CreateRole(ctx context.Context, req RoleRequest) (*Role, error) {
	raw, err := c.do(ctx, http.MethodPost, "/roles", nil, req)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := decodeData(raw, &role); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyRoles)
	return &role, nil
}

// UpdateRole describes the updaterole operation and its observable behavior.
//
// UpdateRole may return an error when input validation, dependency calls, or security checks fail.
// UpdateRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) UpdateRole(ctx context.Context, id int64, req RoleRequest) (*Role, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/roles/%d", id), nil, req)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := decodeData(raw, &role); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyRoles)
	return &role, nil
}

// DeleteRole describes the deleterole operation and its observable behavior.
//
// DeleteRole may return an error when input validation, dependency calls, or security checks fail.
// DeleteRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) DeleteRole(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/roles/%d", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(cache.KeyRoles)
	return nil
}

// AddRolePermission describes the addrolepermission operation and its observable behavior.
//
// AddRolePermission may return an error when input validation, dependency calls, or security checks fail.
// AddRolePermission does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) AddRolePermission(ctx context.Context, roleID int64, permission string) (*Role, error) {
	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/roles/%d/permissions/%s", roleID, url.PathEscape(permission)), nil, nil)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := decodeData(raw, &role); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyRoles)
	return &role, nil
}

// RemoveRolePermission describes the removerolepermission operation and its observable behavior.
//
// RemoveRolePermission may return an error when input validation, dependency calls, or security checks fail.
// RemoveRolePermission does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) RemoveRolePermission(ctx context.Context, roleID int64, permission string) (*Role, error) {
	raw, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/roles/%d/permissions/%s", roleID, url.PathEscape(permission)), nil, nil)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := decodeData(raw, &role); err != nil {
		return nil, err
	}
	c.invalidate(cache.KeyRoles)
	return &role, nil
}
