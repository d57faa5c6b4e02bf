// Package prometheus renders secureauth client metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [secureauth.Client] and exposes an [http.Handler]
// that renders all client counters and histograms. Counter names are prefixed
// secureauth_*_total; the single histogram is secureauth_request_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate client state.
package prometheus
