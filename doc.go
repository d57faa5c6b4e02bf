// Package secureauth provides the Go client for the SecureAuth identity and
// access-management HTTP API: persistent token storage, local session-state
// queries, a request pipeline with transparent one-shot token refresh, and a
// short-TTL memo for list-shaped reads.
//
// The package is designed for concurrent callers: Client methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// secureauth is the public surface. It exposes [Client], [Builder], [Config], and
// value types (Profile, User, Page, MetricsSnapshot, etc.). Persistence backends
// live under store/, the TTL memo under cache/, and event dispatch under
// internal/ — none of them interpret authentication state.
//
// # What this package must NOT do
//
//   - Verify token signatures. Expiry decoding is a UX shortcut only; the server
//     is the sole trust boundary and re-checks every request.
//   - Retry a failed request more than once, or refresh more than once per
//     failure.
//   - Expose the underlying HTTP transport, cache entries, or store keys in its
//     public API.
package secureauth
