package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the appointment workflow.
type BookingMetrics struct {
	submissionsTotal *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	slotQueryLatency prometheus.Histogram
	remindersTotal   *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "appointments",
			Name:      "submissions_total",
			Help:      "Total booking submissions by result",
		}, []string{"result"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Total status transitions by from/to state",
		}, []string{"from", "to"}),
		slotQueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "schedule",
			Name:      "slot_query_seconds",
			Help:      "Latency of slot availability queries",
			Buckets:   prometheus.DefBuckets,
		}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Total appointment reminders by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.transitionsTotal, m.slotQueryLatency, m.remindersTotal)
	return m
}

func (m *BookingMetrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveSlotQuery(seconds float64) {
	if m == nil {
		return
	}
	m.slotQueryLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveReminder(outcome string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(outcome).Inc()
}
