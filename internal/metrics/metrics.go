// Package metrics exposes Prometheus collectors for split finalization.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/receiptsplit/internal/calculator"
)

const namespace = "receiptsplit"

// OutcomeOK labels a finalize that produced a result. Failed finalizes are
// labeled with their validation kind, or "error" for anything else.
const OutcomeOK = "ok"

// Metrics holds the collectors recorded by the receipt service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	finalizeTotal     *prometheus.CounterVec
	reconcileMismatch prometheus.Counter
	residualCents     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		finalizeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finalize_total",
			Help:      "Finalize attempts by outcome.",
		}, []string{"outcome"}),
		reconcileMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_mismatch_total",
			Help:      "Finalized splits whose total disagrees with the extracted receipt total.",
		}),
		residualCents: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "residual_cents",
			Help:      "Size in cents of rounding residuals absorbed while allocating an aggregate.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}, []string{"aggregate"}),
	}
	reg.MustRegister(m.finalizeTotal, m.reconcileMismatch, m.residualCents)
	return m
}

// Finalize counts one finalize attempt. err is the error Finalize returned.
func (m *Metrics) Finalize(err error) {
	if m == nil {
		return
	}
	m.finalizeTotal.WithLabelValues(outcome(err)).Inc()
}

// Adjustments records the residual corrections of a successful finalize.
func (m *Metrics) Adjustments(adjustments []calculator.Adjustment) {
	if m == nil {
		return
	}
	for _, adj := range adjustments {
		cents := adj.Amount.Abs().Shift(2).IntPart()
		m.residualCents.WithLabelValues(string(adj.Aggregate)).Observe(float64(cents))
	}
}

// Reconciled counts a mismatch when rec is not valid.
func (m *Metrics) Reconciled(rec *calculator.Reconciliation) {
	if m == nil || rec == nil || rec.Valid {
		return
	}
	m.reconcileMismatch.Inc()
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if kind := calculator.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
