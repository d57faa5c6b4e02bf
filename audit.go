package secureauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/secureauth/secureauth-go/cache"
)

// AuditSearchFilter defines a public type used by secureauth APIs.
//
// AuditSearchFilter instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Zero-valued fields are omitted from the query.
type AuditSearchFilter struct {
	Username  string
	Action    string
	Success   *bool
	StartDate time.Time
	EndDate   time.Time
}

// ListAuditLogs describes the listauditlogs operation and its observable behavior.
//
// ListAuditLogs may return an error when input validation, dependency calls, or security checks fail.
// ListAuditLogs does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) ListAuditLogs(ctx context.Context, opts ListOptions) (*Page[AuditLog], error) {
	if opts.Size <= 0 {
		opts.Size = 20
	}
	if opts.SortBy == "" {
		opts.SortBy = "timestamp"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = "DESC"
	}
	key := fmt.Sprintf("%s_%d_%d_%s_%s", cache.KeyAuditLogs, opts.Page, opts.Size, opts.SortBy, opts.SortDirection)
	if page, ok := cacheGet[Page[AuditLog]](c, key); ok {
		return page, nil
	}

	raw, err := c.do(ctx, http.MethodGet, "/audit", listQuery(opts.Page, opts.Size, opts.SortBy, opts.SortDirection), nil)
	if err != nil {
		return nil, err
	}
	var page Page[AuditLog]
	if err := decodeData(raw, &page); err != nil {
		return nil, err
	}
	cachePut(c, key, &page)
	return &page, nil
}

// AuditLogsByUsername describes the auditlogsbyusername operation and its observable behavior.
//
// AuditLogsByUsername may return an error when input validation, dependency calls, or security checks fail.
// AuditLogsByUsername does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) AuditLogsByUsername(ctx context.Context, username string, page, size int) (*Page[AuditLog], error) {
	if size <= 0 {
		size = 20
	}
	raw, err := c.do(ctx, http.MethodGet, "/audit/user/"+url.PathEscape(username), listQuery(page, size, "", ""), nil)
	if err != nil {
		return nil, err
	}
	var result Page[AuditLog]
	if err := decodeData(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AuditLogsByAction describes the auditlogsbyaction operation and its observable behavior.
//
// AuditLogsByAction may return an error when input validation, dependency calls, or security checks fail.
// AuditLogsByAction does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) AuditLogsByAction(ctx context.Context, action string, page, size int) (*Page[AuditLog], error) {
	if size <= 0 {
		size = 20
	}
	raw, err := c.do(ctx, http.MethodGet, "/audit/action/"+url.PathEscape(action), listQuery(page, size, "", ""), nil)
	if err != nil {
		return nil, err
	}
	var result Page[AuditLog]
	if err := decodeData(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchAuditLogs describes the searchauditlogs operation and its observable behavior.
//
// SearchAuditLogs may return an error when input validation, dependency calls, or security checks fail.
// SearchAuditLogs does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) SearchAuditLogs(ctx context.Context, filter AuditSearchFilter, page, size int) (*Page[AuditLog], error) {
	if size <= 0 {
		size = 20
	}
	q := listQuery(page, size, "", "")
	if filter.Username != "" {
		q.Set("username", filter.Username)
	}
	if filter.Action != "" {
		q.Set("action", filter.Action)
	}
	if filter.Success != nil {
		q.Set("success", strconv.FormatBool(*filter.Success))
	}
	if !filter.StartDate.IsZero() {
		q.Set("startDate", filter.StartDate.Format(timestampLayout))
	}
	if !filter.EndDate.IsZero() {
		q.Set("endDate", filter.EndDate.Format(timestampLayout))
	}

	raw, err := c.do(ctx, http.MethodGet, "/audit/search", q, nil)
	if err != nil {
		return nil, err
	}
	var result Page[AuditLog]
	if err := decodeData(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecentAuditLogs describes the recentauditlogs operation and its observable behavior.
//
// RecentAuditLogs may return an error when input validation, dependency calls, or security checks fail.
// RecentAuditLogs does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) RecentAuditLogs(ctx context.Context, username string) ([]AuditLog, error) {
	raw, err := c.do(ctx, http.MethodGet, "/audit/recent/"+url.PathEscape(username), nil, nil)
	if err != nil {
		return nil, err
	}
	var logs []AuditLog
	if err := decodeData(raw, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
