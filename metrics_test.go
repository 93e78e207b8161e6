// SPDX-License-Identifier: MIT

package route6

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.observeTableSize(0, MethodLPM, 1)
	m.observeDustbin(0, 1)
	m.observeSeq(1)
	m.observeSlaveApplyFailure(0)
	m.observeDispatchFailure(0)
}

func TestNewMetricsRegistersInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.observeTableSize(0, MethodLPM, 3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatalf("Gather() returned no metric families")
	}
}
