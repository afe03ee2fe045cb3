package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat pipeline.
type ChatMetrics struct {
	messagesTotal     *prometheus.CounterVec
	generationTotal   *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	activeSessions    prometheus.Gauge
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sophie",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total conversation messages appended",
		}, []string{"role"}),
		generationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sophie",
			Subsystem: "chat",
			Name:      "generation_total",
			Help:      "Total generation calls by outcome",
		}, []string{"outcome"}),
		generationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sophie",
			Subsystem: "chat",
			Name:      "generation_latency_seconds",
			Help:      "Latency of generation calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sophie",
			Subsystem: "chat",
			Name:      "active_sessions",
			Help:      "Sessions currently held in the registry",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.generationTotal, m.generationLatency, m.activeSessions)
	return m
}

func (m *ChatMetrics) ObserveMessage(role string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(role).Inc()
}

func (m *ChatMetrics) ObserveGeneration(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.generationTotal.WithLabelValues(outcome).Inc()
	m.generationLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *ChatMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
