// Package store provides persistent key-value backends for the client session record:
// access token, refresh token, session token, cached profile JSON, and username.
//
// # Backends
//
//   - [Memory] — process-local map, the composition-root default and the test backend.
//   - [File] — single JSON document on disk, survives process restarts.
//   - [Redis] — go-redis backed flat keys under a prefix, for shared or long-lived clients.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT interpret tokens, parse the profile
// document, or decide when the session is valid — those responsibilities belong to the
// Client. The profile crosses this boundary as opaque JSON bytes.
//
// # What this package must NOT do
//
//   - Import secureauth (no upward imports).
//   - Validate token shape or expiry.
//   - Encrypt values; tokens already cross the wire on every request and hardening
//     belongs to the transport, not this layer.
package store
