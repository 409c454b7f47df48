package booking

import (
	"context"
	"time"

	"shutterbook/internal/plan"
)

type CreateBookingParams struct {
	Reference        string
	UserID           int
	PlanID           int
	BookingDate      time.Time
	StartTime        string
	EndTime          string
	Location         string
	NumberOfPeople   int
	SelectedAddOns   plan.AddOnList
	PriceCents       int64
	DownPaymentCents int64
	Notes            string
}

type Repository interface {
	// CreateBooking reserves the slot and persists the booking in one
	// transaction. The slot flip is a compare-and-set: if the slot is already
	// reserved the transaction is rolled back, no booking row is written, and
	// ErrSlotUnavailable is returned.
	CreateBooking(ctx context.Context, p CreateBookingParams) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetByIDWithDetails(ctx context.Context, id int) (*BookingWithDetails, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	ListAll(ctx context.Context, page, pageSize int) ([]BookingWithDetails, int, int64, error)
	// Cancel marks the booking canceled (keeping the first canceled_at) and
	// best-effort releases the slot; a missing slot is not an error.
	Cancel(ctx context.Context, id int) (*Booking, error)
	MarkPaid(ctx context.Context, id int, result PaymentResult) (*Booking, error)
	MarkConfirmed(ctx context.Context, id int) (*Booking, error)
	MarkCompleted(ctx context.Context, id int) (*Booking, error)
}
