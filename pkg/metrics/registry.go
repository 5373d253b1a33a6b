// Package metrics defines the RPC-client metrics surface as an
// interface, with a Prometheus-backed implementation registered from
// pkg/metrics/prometheus via an init-time indirection: this package
// never imports pkg/metrics/prometheus (that would cycle back here),
// so instrumentation call sites pay nothing when metrics are disabled.
package metrics

import (
	"sync"
	"time"
)

var (
	mu       sync.Mutex
	enabled  bool
	registry any // *prometheus.Registry, set by pkg/metrics/prometheus when it registers
)

// InitRegistry enables metrics collection and records the registry
// handle the Prometheus implementation will use. reg is typed any here
// to avoid this package depending on client_golang; callers pass a
// *prometheus.Registry.
func InitRegistry(reg any) {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
	registry = reg
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// GetRegistry returns the registry handle passed to InitRegistry, or
// nil if metrics are disabled.
func GetRegistry() any {
	mu.Lock()
	defer mu.Unlock()
	return registry
}

// RPCMetrics is the instrumentation surface for the RPC call path.
// The package-level ObserveCall, RecordFailover and RecordListingPage
// helpers accept a nil RPCMetrics and do nothing with it, so callers
// that go through them can invoke them unconditionally.
type RPCMetrics interface {
	ObserveCall(method, status string, duration time.Duration)
	RecordFailover(nameservice, discardedEndpoint string)
	RecordListingPage(nameservice string)
}

// newPrometheusRPCMetrics is populated by pkg/metrics/prometheus's
// init function; this indirection avoids an import cycle between the
// two packages while keeping call sites here free of the
// client_golang dependency.
var newPrometheusRPCMetrics func() RPCMetrics

// RegisterRPCMetricsConstructor is called by pkg/metrics/prometheus
// during package initialization.
func RegisterRPCMetricsConstructor(constructor func() RPCMetrics) {
	newPrometheusRPCMetrics = constructor
}

// NewRPCMetrics returns a Prometheus-backed RPCMetrics, or nil if
// metrics are disabled or no implementation has registered itself
// (i.e. pkg/metrics/prometheus was never imported).
func NewRPCMetrics() RPCMetrics {
	if !IsEnabled() || newPrometheusRPCMetrics == nil {
		return nil
	}
	return newPrometheusRPCMetrics()
}

// ObserveCall records a completed RPC call. m may be nil.
func ObserveCall(m RPCMetrics, method, status string, duration time.Duration) {
	if m != nil {
		m.ObserveCall(method, status, duration)
	}
}

// RecordFailover records an HA failover away from discardedEndpoint.
// m may be nil.
func RecordFailover(m RPCMetrics, nameservice, discardedEndpoint string) {
	if m != nil {
		m.RecordFailover(nameservice, discardedEndpoint)
	}
}

// RecordListingPage records one getListing page fetch. m may be nil.
func RecordListingPage(m RPCMetrics, nameservice string) {
	if m != nil {
		m.RecordListingPage(nameservice)
	}
}
