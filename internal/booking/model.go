package booking

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"shutterbook/internal/plan"
)

// PaymentResult is the gateway snapshot stored verbatim when a booking is
// marked paid. The core does not validate its contents beyond presence.
type PaymentResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Email  string `json:"email"`
}

func (p PaymentResult) Value() (driver.Value, error) {
	if p == (PaymentResult{}) {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PaymentResult) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = PaymentResult{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for PaymentResult")
	}
}

// Booking carries a denormalized copy of the chosen slot (date + window) and
// the price locked at creation time. Status flags are independent booleans;
// canceling never clears the others, so "paid then canceled" stays
// distinguishable from "canceled, never paid".
type Booking struct {
	ID               int            `db:"id" json:"id"`
	Reference        string         `db:"reference" json:"reference"`
	UserID           int            `db:"user_id" json:"user_id"`
	PlanID           int            `db:"plan_id" json:"plan_id"`
	BookingDate      time.Time      `db:"booking_date" json:"booking_date"`
	StartTime        string         `db:"start_time" json:"start_time"`
	EndTime          string         `db:"end_time" json:"end_time"`
	Location         string         `db:"location" json:"location"`
	NumberOfPeople   int            `db:"number_of_people" json:"number_of_people"`
	SelectedAddOns   plan.AddOnList `db:"selected_add_ons" json:"selected_add_ons"`
	PriceCents       int64          `db:"price_cents" json:"price_cents"`
	DownPaymentCents int64          `db:"down_payment_cents" json:"down_payment_cents"`
	Notes            string         `db:"notes" json:"notes"`
	IsPaid           bool           `db:"is_paid" json:"is_paid"`
	PaidAt           *time.Time     `db:"paid_at" json:"paid_at,omitempty"`
	PaymentResult    PaymentResult  `db:"payment_result" json:"payment_result"`
	IsConfirmed      bool           `db:"is_confirmed" json:"is_confirmed"`
	IsCompleted      bool           `db:"is_completed" json:"is_completed"`
	CompletedAt      *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	IsCanceled       bool           `db:"is_canceled" json:"is_canceled"`
	CanceledAt       *time.Time     `db:"canceled_at" json:"canceled_at,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	UserName     string `db:"user_name" json:"user_name"`
	UserEmail    string `db:"user_email" json:"user_email"`
	PlanName     string `db:"plan_name" json:"plan_name"`
	PlanDuration string `db:"plan_duration" json:"plan_duration"`
}

type SlotRef struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type CreateBookingRequest struct {
	PlanID           int          `json:"plan_id" binding:"required"`
	BookingDate      string       `json:"booking_date" binding:"required"`
	Slot             SlotRef      `json:"slot" binding:"required"`
	Location         string       `json:"location" binding:"required"`
	NumberOfPeople   int          `json:"number_of_people" binding:"omitempty,min=1,max=4"`
	SelectedAddOns   []plan.AddOn `json:"selected_add_ons"`
	PriceCents       int64        `json:"price_cents" binding:"required,gt=0"`
	DownPaymentCents int64        `json:"down_payment_cents" binding:"required,gt=0"`
	Notes            string       `json:"notes"`
}

type PayBookingRequest struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status"`
	Email  string `json:"email"`
}

type BookingListPage struct {
	Bookings          []BookingWithDetails `json:"bookings"`
	Page              int                  `json:"page"`
	Pages             int                  `json:"pages"`
	Total             int                  `json:"total"`
	TotalRevenueCents int64                `json:"total_revenue_cents"`
}
