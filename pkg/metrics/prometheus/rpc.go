// Package prometheus is the Prometheus-backed implementation of
// pkg/metrics's RPCMetrics interface. Importing this package (even for
// its side effects) registers the constructor pkg/metrics.NewRPCMetrics
// uses; nothing here is reachable unless the caller also calls Init.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/gohdfs/pkg/metrics"
)

func init() {
	metrics.RegisterRPCMetricsConstructor(newRPCMetrics)
}

// Init creates a fresh registry, enables pkg/metrics collection against
// it, and returns the registry so the caller can mount a /metrics
// handler over it.
func Init() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	metrics.InitRegistry(reg)
	return reg
}

type rpcMetrics struct {
	callTotal    *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	failovers    *prometheus.CounterVec
	listingPages *prometheus.CounterVec
}

func newRPCMetrics() metrics.RPCMetrics {
	reg, ok := metrics.GetRegistry().(*prometheus.Registry)
	if !ok || reg == nil {
		return nil
	}

	return &rpcMetrics{
		callTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gohdfs_rpc_calls_total",
				Help: "Total number of ClientProtocol RPC calls, by method and status",
			},
			[]string{"method", "status"}, // status: success, error, fatal
		),
		callDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gohdfs_rpc_call_duration_seconds",
				Help:    "ClientProtocol RPC call latency, by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		failovers: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gohdfs_ha_failovers_total",
				Help: "Total number of HA failovers away from a standby name-node, by nameservice and discarded endpoint",
			},
			[]string{"nameservice", "discarded_endpoint"},
		),
		listingPages: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gohdfs_listing_pages_total",
				Help: "Total number of getListing page fetches, by nameservice",
			},
			[]string{"nameservice"},
		),
	}
}

func (m *rpcMetrics) ObserveCall(method, status string, duration time.Duration) {
	m.callTotal.WithLabelValues(method, status).Inc()
	m.callDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func (m *rpcMetrics) RecordFailover(nameservice, discardedEndpoint string) {
	m.failovers.WithLabelValues(nameservice, discardedEndpoint).Inc()
}

func (m *rpcMetrics) RecordListingPage(nameservice string) {
	m.listingPages.WithLabelValues(nameservice).Inc()
}
