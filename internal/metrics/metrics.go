package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics counts booking and notification outcomes.
type SchedulingMetrics struct {
	bookingsTotal       *prometheus.CounterVec
	rejectionsTotal     *prometheus.CounterVec
	webhooksTotal       *prometheus.CounterVec
	occurrencesTotal    *prometheus.CounterVec
	availabilityLatency *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Appointments created by the booking workflow",
		}, []string{"family", "variant"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "scheduling",
			Name:      "booking_rejections_total",
			Help:      "Bookings refused at submission",
		}, []string{"reason"}),
		webhooksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "notifications",
			Name:      "webhook_deliveries_total",
			Help:      "Outbound automation webhook attempts",
		}, []string{"event", "status"}),
		occurrencesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petshop",
			Subsystem: "subscriptions",
			Name:      "occurrences_generated_total",
			Help:      "Appointment rows generated for subscriptions",
		}, []string{"recurrence"}),
		availabilityLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "petshop",
			Subsystem: "scheduling",
			Name:      "availability_seconds",
			Help:      "Latency of availability lookups",
			Buckets:   prometheus.DefBuckets,
		}, []string{"family"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.rejectionsTotal, m.webhooksTotal, m.occurrencesTotal, m.availabilityLatency)
	return m
}

func (m *SchedulingMetrics) ObserveBooking(family string, admin bool) {
	if m == nil {
		return
	}
	variant := "customer"
	if admin {
		variant = "admin"
	}
	m.bookingsTotal.WithLabelValues(family, variant).Inc()
}

func (m *SchedulingMetrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

func (m *SchedulingMetrics) ObserveWebhook(event string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.webhooksTotal.WithLabelValues(event, status).Inc()
}

func (m *SchedulingMetrics) ObserveOccurrences(recurrence string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.occurrencesTotal.WithLabelValues(recurrence).Add(float64(n))
}

func (m *SchedulingMetrics) ObserveAvailability(family string, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityLatency.WithLabelValues(family).Observe(seconds)
}
