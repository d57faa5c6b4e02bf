package secureauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// do runs one request through the full pipeline: marshal, send with
// credentials attached, and the one-shot refresh-and-retry recovery on 401.
// It returns the raw response body for 2xx outcomes; non-2xx outcomes become
// *APIError. Transport errors propagate unchanged.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if c == nil {
		return nil, ErrClientClosed
	}
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = data
	}

	start := c.now()
	defer func() {
		c.metricObserve(MetricRequestLatency, c.now().Sub(start))
	}()

	status, respBody, err := c.send(ctx, method, path, query, payload, true)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !isCredentialPath(path) {
		return c.recoverUnauthorized(ctx, method, path, query, payload)
	}
	if status < 200 || status >= 300 {
		return nil, newAPIError(status, method, path, respBody)
	}
	return respBody, nil
}

// recoverUnauthorized handles the expiry-driven 401 path: one refresh, one
// resend. A second 401 on the resend is terminal — it means the session is
// genuinely invalid, not clock skew.
func (c *Client) recoverUnauthorized(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	refresh, err := c.store.RefreshToken(ctx)
	if err != nil {
		return nil, err
	}
	if refresh == "" {
		return nil, c.expireSession(ctx, ErrRefreshInvalid)
	}

	if _, err := c.refreshAccess(ctx, refresh); err != nil {
		return nil, c.expireSession(ctx, err)
	}

	c.metricInc(MetricRequestRetried)
	c.emitEvent(ctx, eventRequestRetried, true, "", nil, func() map[string]string {
		return map[string]string{"method": method, "path": path}
	})

	status, respBody, err := c.send(ctx, method, path, query, payload, true)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, newAPIError(status, method, path, respBody)
	}
	return respBody, nil
}

// expireSession is the unrecoverable-session teardown: full store wipe, cache
// wipe, SessionExpired event. The returned error always matches
// [ErrSessionExpired] via errors.Is.
func (c *Client) expireSession(ctx context.Context, cause error) error {
	session, _ := c.store.SessionToken(ctx)
	if err := c.store.Clear(ctx); err != nil {
		log.Print("secureauth: token store clear failed during session teardown")
	}
	if c.cache != nil {
		c.cache.Clear()
	}
	c.metricInc(MetricSessionExpired)
	c.emitSessionEvent(ctx, eventSessionExpired, false, "", session, cause, nil)

	if cause != nil {
		return errors.Join(ErrSessionExpired, cause)
	}
	return ErrSessionExpired
}

type refreshCall struct {
	done   chan struct{}
	access string
	err    error
}

// refreshAccess mints a new access token from the refresh token. When
// coalescing is enabled, concurrent callers share one upstream refresh;
// otherwise each caller refreshes independently.
func (c *Client) refreshAccess(ctx context.Context, refreshToken string) (string, error) {
	if !c.config.Refresh.Coalesce {
		return c.refreshAccessOnce(ctx, refreshToken)
	}

	c.refreshMu.Lock()
	if call := c.refreshInFlight; call != nil {
		c.refreshMu.Unlock()
		c.metricInc(MetricRefreshCoalesced)
		select {
		case <-call.done:
			return call.access, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	c.refreshInFlight = call
	c.refreshMu.Unlock()

	call.access, call.err = c.refreshAccessOnce(ctx, refreshToken)

	c.refreshMu.Lock()
	c.refreshInFlight = nil
	c.refreshMu.Unlock()
	close(call.done)

	return call.access, call.err
}

func (c *Client) refreshAccessOnce(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", fmt.Errorf("encode refresh request: %w", err)
	}

	// The refresh call itself carries no bearer credentials: the expired access
	// token must not shadow the refresh token being exchanged.
	status, respBody, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, payload, false)
	if err != nil {
		c.metricInc(MetricRefreshFailure)
		c.emitEvent(ctx, eventRefreshFailure, false, "", err, nil)
		return "", err
	}
	if status < 200 || status >= 300 {
		apiErr := newAPIError(status, http.MethodPost, "/auth/refresh", respBody)
		c.metricInc(MetricRefreshFailure)
		c.emitEvent(ctx, eventRefreshFailure, false, "", apiErr, nil)
		return "", errors.Join(ErrRefreshInvalid, apiErr)
	}

	var env struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &env); err != nil || env.Data.AccessToken == "" {
		c.metricInc(MetricRefreshFailure)
		c.emitEvent(ctx, eventRefreshFailure, false, "", ErrResponseMalformed, nil)
		return "", errors.Join(ErrRefreshInvalid, ErrResponseMalformed)
	}

	// Only the access token is replaced; refresh and session tokens survive.
	if err := c.store.SetAccessToken(ctx, env.Data.AccessToken); err != nil {
		return "", err
	}

	c.metricInc(MetricRefreshSuccess)
	c.emitEvent(ctx, eventRefreshSuccess, true, "", nil, nil)
	return env.Data.AccessToken, nil
}

// send performs a single HTTP round trip. attachAuth controls whether stored
// credentials are added; the refresh exchange is the only bare caller.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, attachAuth bool) (int, []byte, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(c.config.API.RequestIDHeader, requestID)

	if userAgent := userAgentFromContext(ctx); userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	} else if c.config.API.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.API.UserAgent)
	}

	if attachAuth {
		if access, err := c.store.AccessToken(ctx); err == nil && access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
		if session, err := c.store.SessionToken(ctx); err == nil && session != "" {
			req.Header.Set(c.config.API.SessionHeader, session)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// isCredentialPath reports whether a 401 from path means rejected credentials
// rather than an expired session. Those failures propagate untouched.
func isCredentialPath(path string) bool {
	return strings.Contains(path, "/auth/login") || strings.Contains(path, "/auth/verify-2fa")
}

// decodeData unwraps the server envelope {"data": ...} into out. A missing or
// null data field leaves out untouched.
func decodeData(raw []byte, out any) error {
	if out == nil {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Join(ErrResponseMalformed, err)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Join(ErrResponseMalformed, err)
	}
	return nil
}

// listQuery builds the standard paging query parameters.
func listQuery(page, size int, sortBy, sortDirection string) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("size", fmt.Sprintf("%d", size))
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	if sortDirection != "" {
		q.Set("sortDirection", sortDirection)
	}
	return q
}
