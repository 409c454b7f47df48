package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shutterbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shutterbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shutterbook_bookings_total",
			Help: "Total number of booking attempts",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shutterbook_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	SlotConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shutterbook_slot_reservation_conflicts_total",
			Help: "Total number of booking attempts rejected because the slot was already reserved",
		},
	)

	SlotsDefinedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shutterbook_slots_defined_total",
			Help: "Total number of time slots created by administrators",
		},
	)

	SlotReleaseMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shutterbook_slot_release_misses_total",
			Help: "Cancellations whose slot release found no matching slot",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shutterbook_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shutterbook_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shutterbook_events_published_total",
			Help: "Total number of domain events published to the broker",
		},
		[]string{"event", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordSlotConflict() {
	SlotConflictsTotal.Inc()
}

func RecordSlotsDefined(n int) {
	SlotsDefinedTotal.Add(float64(n))
}

func RecordSlotReleaseMiss() {
	SlotReleaseMissesTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordEventPublished(event, status string) {
	EventsPublishedTotal.WithLabelValues(event, status).Inc()
}
