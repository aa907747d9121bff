// Package metrics exposes Prometheus collectors for apartment operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation status labels.
const (
	StatusSuccess = "success"
	StatusNoop    = "noop"
	StatusError   = "error"
)

// History kinds.
const (
	KindChange = "change"
	KindPrice  = "price"
)

// Metrics holds all Prometheus metric collectors.
type Metrics struct {
	Operations  *prometheus.CounterVec // use case executions by operation and status
	HistoryRows *prometheus.CounterVec // committed history rows by kind
}

// NewMetrics registers the collectors on reg. A nil reg means the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apartment_operations_total",
				Help: "Total number of apartment operations by operation and status (success, noop, error)",
			},
			[]string{"operation", "status"},
		),
		HistoryRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apartment_history_rows_total",
				Help: "Total number of committed history rows by kind (change, price)",
			},
			[]string{"kind"},
		),
	}
}

// RecordOperation counts one use case execution.
func (m *Metrics) RecordOperation(operation, status string) {
	m.Operations.WithLabelValues(operation, status).Inc()
}

// RecordHistory counts committed history rows.
func (m *Metrics) RecordHistory(changeRows, priceRows int) {
	if changeRows > 0 {
		m.HistoryRows.WithLabelValues(KindChange).Add(float64(changeRows))
	}
	if priceRows > 0 {
		m.HistoryRows.WithLabelValues(KindPrice).Add(float64(priceRows))
	}
}

// StatusOf maps a use case error to its status label.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
