package application

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 汇总报价引擎的 prometheus 指标，nil 时所有方法都是空操作。
type Metrics struct {
	quotes           *prometheus.CounterVec
	degraded         *prometheus.CounterVec
	unrecognizedTier *prometheus.CounterVec
	promoRejected    *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_requests_total",
			Help: "Quotes computed, by kind and pricing path.",
		}, []string{"kind", "path"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_degraded_total",
			Help: "Catalog quotes served from the static tier table, by reason.",
		}, []string{"reason"}),
		unrecognizedTier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_unrecognized_tier_total",
			Help: "Quotes whose load size did not map to a known tier.",
		}, []string{"service_type"}),
		promoRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_promo_rejected_total",
			Help: "Promo codes that were not applied, by reason.",
		}, []string{"reason"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quote_duration_seconds",
			Help:    "Time spent computing a quote.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2},
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.quotes, m.degraded, m.unrecognizedTier, m.promoRejected, m.latency)
	}
	return m
}

func (m *Metrics) observeQuote(kind, path string, started time.Time) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(kind, path).Inc()
	m.latency.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

func (m *Metrics) degrade(reason string) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(reason).Inc()
}

func (m *Metrics) unknownTier(serviceType string) {
	if m == nil {
		return
	}
	m.unrecognizedTier.WithLabelValues(serviceType).Inc()
}

func (m *Metrics) promoRejection(reason string) {
	if m == nil {
		return
	}
	m.promoRejected.WithLabelValues(reason).Inc()
}
