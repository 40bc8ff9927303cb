package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveSubmission("accepted")
	m.ObserveTransition("pending", "confirmed")
	m.ObserveSlotQuery(0.02)
	m.ObserveReminder("sent")
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveSubmission("accepted")
	m.ObserveTransition("pending", "confirmed")
	m.ObserveSlotQuery(0.02)
	m.ObserveReminder("failed")
}
