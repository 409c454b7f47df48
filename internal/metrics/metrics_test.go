package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/v1/plans", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/plans", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/api/v1/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/api/v1/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/api/v1/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordBooking(t *testing.T) {
	BookingsTotal.Reset()

	RecordBooking("created")
	RecordBooking("created")
	RecordBooking("conflict")

	created := testutil.ToFloat64(BookingsTotal.WithLabelValues("created"))
	conflict := testutil.ToFloat64(BookingsTotal.WithLabelValues("conflict"))

	assert.Equal(t, float64(2), created)
	assert.Equal(t, float64(1), conflict)
}

func TestRecordSlotConflict(t *testing.T) {
	before := testutil.ToFloat64(SlotConflictsTotal)

	RecordSlotConflict()
	RecordSlotConflict()

	assert.Equal(t, before+2, testutil.ToFloat64(SlotConflictsTotal))
}

func TestRecordSlotsDefined(t *testing.T) {
	before := testutil.ToFloat64(SlotsDefinedTotal)

	RecordSlotsDefined(4)

	assert.Equal(t, before+4, testutil.ToFloat64(SlotsDefinedTotal))
}

func TestRecordSlotReleaseMiss(t *testing.T) {
	before := testutil.ToFloat64(SlotReleaseMissesTotal)

	RecordSlotReleaseMiss()

	assert.Equal(t, before+1, testutil.ToFloat64(SlotReleaseMissesTotal))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("generic", "sent")
	RecordEmail("generic", "failed")

	sent := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("generic", "sent"))
	failed := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("generic", "failed"))

	assert.Equal(t, float64(1), sent)
	assert.Equal(t, float64(1), failed)
}

func TestRecordEventPublished(t *testing.T) {
	EventsPublishedTotal.Reset()

	RecordEventPublished("booking.created", "ok")
	RecordEventPublished("booking.created", "error")
	RecordEventPublished("booking.canceled", "ok")

	ok := testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("booking.created", "ok"))
	assert.Equal(t, float64(1), ok)
}

func TestEmailQueueLengthGauge(t *testing.T) {
	EmailQueueLength.Set(7)
	assert.Equal(t, float64(7), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}
