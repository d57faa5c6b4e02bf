// Package cache provides a TTL-keyed in-memory memo for list-shaped API reads.
//
// Entries expire two ways: a deferred timer evicts them at TTL, and Get lazily
// drops anything already past its deadline. InvalidatePrefix evicts every key
// sharing a string prefix after a mutation; Clear wipes everything on logout.
//
// # Architecture boundaries
//
// This package owns expiry bookkeeping only. It does NOT fetch data, pick cache
// keys, or decide what is cacheable — the Client's service methods do.
//
// # What this package must NOT do
//
//   - Import secureauth or perform any I/O.
//   - Bound its size or evict by recency; it is a short-lived session memo,
//     not a general-purpose cache.
//   - Persist entries across process restarts.
package cache
