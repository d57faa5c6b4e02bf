package internaldefs

import (
	secureauth "github.com/secureauth/secureauth-go"
)

// CounterDef defines a public type used by secureauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   secureauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by secureauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   secureauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session client.
var CounterDefs = []CounterDef{
	{ID: secureauth.MetricLoginSuccess, Name: "secureauth_login_success_total", Help: "Successful login attempts."},
	{ID: secureauth.MetricLoginFailure, Name: "secureauth_login_failure_total", Help: "Failed login attempts."},
	{ID: secureauth.MetricTwoFactorChallenge, Name: "secureauth_two_factor_challenge_total", Help: "Logins answered with a two-factor challenge."},
	{ID: secureauth.MetricTwoFactorSuccess, Name: "secureauth_two_factor_success_total", Help: "Successful two-factor verifications."},
	{ID: secureauth.MetricTwoFactorFailure, Name: "secureauth_two_factor_failure_total", Help: "Failed two-factor verifications."},
	{ID: secureauth.MetricRefreshSuccess, Name: "secureauth_refresh_success_total", Help: "Successful token refresh operations."},
	{ID: secureauth.MetricRefreshFailure, Name: "secureauth_refresh_failure_total", Help: "Failed token refresh operations."},
	{ID: secureauth.MetricRefreshCoalesced, Name: "secureauth_refresh_coalesced_total", Help: "Refresh attempts that joined an in-flight refresh."},
	{ID: secureauth.MetricRequestRetried, Name: "secureauth_request_retried_total", Help: "Requests resent after a successful refresh."},
	{ID: secureauth.MetricSessionExpired, Name: "secureauth_session_expired_total", Help: "Unrecoverable session teardowns."},
	{ID: secureauth.MetricLogout, Name: "secureauth_logout_total", Help: "Logout operations."},
	{ID: secureauth.MetricCacheHit, Name: "secureauth_cache_hit_total", Help: "Ephemeral cache hits."},
	{ID: secureauth.MetricCacheMiss, Name: "secureauth_cache_miss_total", Help: "Ephemeral cache misses."},
}

// HistogramDefs is an exported constant or variable used by the session client.
var HistogramDefs = []HistogramDef{
	{ID: secureauth.MetricRequestLatency, Name: "secureauth_request_latency_seconds", Help: "Request latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
