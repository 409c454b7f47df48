// Package events publishes booking domain events to RabbitMQ. Publishing is
// best-effort: failures are logged and counted, never surfaced to the request
// that triggered them.
package events

import "time"

const (
	BookingCreatedQueue  = "booking.created"
	BookingCanceledQueue = "booking.canceled"
)

type BookingCreatedEvent struct {
	BookingID   int    `json:"booking_id"`
	Reference   string `json:"reference"`
	UserID      int    `json:"user_id"`
	PlanID      int    `json:"plan_id"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	PriceCents  int64  `json:"price_cents"`
	CreatedAt   string `json:"created_at"`
}

type BookingCanceledEvent struct {
	BookingID   int    `json:"booking_id"`
	Reference   string `json:"reference"`
	UserID      int    `json:"user_id"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CanceledAt  string `json:"canceled_at"`
}

func FormatEventTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
