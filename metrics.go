// SPDX-License-Identifier: MIT

package route6

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the set of prometheus instruments this package exposes.
// Cross-worker divergence after a failed slave apply is an operational
// alarm, not a data-plane bug (see replicator.go); slaveApplyFailures
// is that alarm's concrete home.
type Metrics struct {
	tableSize          *prometheus.GaugeVec
	dustbinDepth       *prometheus.GaugeVec
	replicatorSeq      prometheus.Gauge
	slaveApplyFailures *prometheus.CounterVec
	dispatchFailures   *prometheus.CounterVec
}

// NewMetrics registers this package's instruments with reg and returns
// a handle for updating them. Passing a fresh prometheus.NewRegistry()
// is safe to call more than once in the same process (e.g. once per
// test); registering the same Metrics set twice against the default
// registry is not.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tableSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "route6",
			Name:      "table_entries",
			Help:      "Number of installed routes in a worker's table.",
		}, []string{"worker", "method"}),
		dustbinDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "route6",
			Name:      "dustbin_pending",
			Help:      "Number of entries awaiting reclamation in a worker's dustbin.",
		}, []string{"worker"}),
		replicatorSeq: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "route6",
			Name:      "replicator_sequence",
			Help:      "Most recent sequence number issued by the master replicator.",
		}),
		slaveApplyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "route6",
			Name:      "slave_apply_failures_total",
			Help:      "Replicated mutations a slave worker failed to apply; indicates cross-worker divergence.",
		}, []string{"worker"}),
		dispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "route6",
			Name:      "dispatch_failures_total",
			Help:      "Bus dispatch failures observed by the master after a local commit.",
		}, []string{"worker"}),
	}
	reg.MustRegister(m.tableSize, m.dustbinDepth, m.replicatorSeq, m.slaveApplyFailures, m.dispatchFailures)
	return m
}

func workerLabel(id WorkerID) string { return strconv.Itoa(int(id)) }

func (m *Metrics) observeTableSize(id WorkerID, method Method, n int) {
	if m == nil {
		return
	}
	m.tableSize.WithLabelValues(workerLabel(id), string(method)).Set(float64(n))
}

func (m *Metrics) observeDustbin(id WorkerID, n int) {
	if m == nil {
		return
	}
	m.dustbinDepth.WithLabelValues(workerLabel(id)).Set(float64(n))
}

func (m *Metrics) observeSeq(seq uint32) {
	if m == nil {
		return
	}
	m.replicatorSeq.Set(float64(seq))
}

func (m *Metrics) observeSlaveApplyFailure(id WorkerID) {
	if m == nil {
		return
	}
	m.slaveApplyFailures.WithLabelValues(workerLabel(id)).Inc()
}

func (m *Metrics) observeDispatchFailure(id WorkerID) {
	if m == nil {
		return
	}
	m.dispatchFailures.WithLabelValues(workerLabel(id)).Inc()
}
