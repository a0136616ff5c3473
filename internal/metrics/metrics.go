// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the RPC and compute-pass collectors. Create one per
// registry; tests pass a fresh prometheus.NewRegistry().
type Metrics struct {
	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
	computePasses *prometheus.CounterVec
	warnings      *prometheus.CounterVec
	transfers     prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tabsplit_rpc_requests_total",
			Help: "RPCs handled, by procedure and Connect code",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tabsplit_rpc_duration_seconds",
			Help:    "Time taken to handle an RPC",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"procedure"}),
		computePasses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tabsplit_compute_passes_total",
			Help: "Compute passes run, by outcome",
		}, []string{"outcome"}),
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tabsplit_warnings_total",
			Help: "Reconciliation warnings attached to results, by kind",
		}, []string{"kind"}),
		transfers: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tabsplit_settlement_transfers",
			Help:    "Number of transfers produced per settlement",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

// ObserveRPC records one handled RPC. code is "ok" on success.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}

// ObserveCompute records the outcome of a compute pass: "ok", "invalid"
// or "error".
func (m *Metrics) ObserveCompute(outcome string) {
	m.computePasses.WithLabelValues(outcome).Inc()
}

// ObserveWarning counts one warning of the given kind.
func (m *Metrics) ObserveWarning(kind string) {
	m.warnings.WithLabelValues(kind).Inc()
}

// ObserveTransfers records how many transfers a settlement produced.
func (m *Metrics) ObserveTransfers(n int) {
	m.transfers.Observe(float64(n))
}
