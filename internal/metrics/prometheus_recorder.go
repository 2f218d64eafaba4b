package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "housechores"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	mutations       *prom.CounterVec
	persistFailures *prom.CounterVec
	saveDuration    prom.Histogram
	chores          prom.Gauge
	tiers           *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		mutations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Repository mutations by operation and result",
		}, []string{"operation", "result"}),
		persistFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed writes of the chore collection by triggering operation",
		}, []string{"operation"}),
		saveDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Duration of full-collection saves",
			Buckets:   prom.ExponentialBuckets(0.0005, 2, 12),
		}),
		chores: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "chores",
			Help:      "Number of chores in the collection",
		}),
		tiers: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "chores_by_tier",
			Help:      "Number of chores per severity tier (never = never completed)",
		}, []string{"tier"}),
	}
	reg.MustRegister(pr.mutations, pr.persistFailures, pr.saveDuration, pr.chores, pr.tiers)
	return pr
}

func (p *PrometheusRecorder) IncMutation(operation string, result ResultLabel) {
	if p == nil || p.mutations == nil {
		return
	}
	p.mutations.WithLabelValues(operation, string(result)).Inc()
}

func (p *PrometheusRecorder) IncPersistFailure(operation string) {
	if p == nil || p.persistFailures == nil {
		return
	}
	p.persistFailures.WithLabelValues(operation).Inc()
}

func (p *PrometheusRecorder) ObserveSaveDuration(d time.Duration) {
	if p == nil || p.saveDuration == nil {
		return
	}
	p.saveDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetChoreCount(n int) {
	if p == nil || p.chores == nil {
		return
	}
	p.chores.Set(float64(n))
}

func (p *PrometheusRecorder) SetTierCount(tier string, n int) {
	if p == nil || p.tiers == nil {
		return
	}
	p.tiers.WithLabelValues(tier).Set(float64(n))
}

var _ Recorder = (*PrometheusRecorder)(nil)
