package booking

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shutterbook/internal/db"
	"shutterbook/internal/logger"
	"shutterbook/internal/metrics"
	"shutterbook/internal/schedule"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotUnavailable = errors.New("time slot is already reserved")
)

const bookingColumns = `id, reference, user_id, plan_id, booking_date, start_time, end_time, location, number_of_people, selected_add_ons, price_cents, down_payment_cents, notes, is_paid, paid_at, payment_result, is_confirmed, is_completed, completed_at, is_canceled, canceled_at, created_at`

const detailColumns = `
	b.id, b.reference, b.user_id, b.plan_id, b.booking_date, b.start_time, b.end_time, b.location,
	b.number_of_people, b.selected_add_ons, b.price_cents, b.down_payment_cents, b.notes,
	b.is_paid, b.paid_at, b.payment_result, b.is_confirmed, b.is_completed, b.completed_at,
	b.is_canceled, b.canceled_at, b.created_at,
	u.name AS user_name, u.email AS user_email,
	p.name AS plan_name, p.duration AS plan_duration`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

// reserveSlotQuery flips reserved from false to true only. Zero rows affected
// means the slot is either taken or does not exist.
const reserveSlotQuery = `
	UPDATE time_slots
	SET reserved = TRUE, reserved_by = $4
	WHERE slot_date = $1 AND start_time = $2 AND end_time = $3 AND reserved = FALSE
`

const releaseSlotQuery = `
	UPDATE time_slots
	SET reserved = FALSE, reserved_by = NULL
	WHERE slot_date = $1 AND start_time = $2 AND end_time = $3
`

const slotExistsQuery = `
	SELECT EXISTS(
		SELECT 1 FROM time_slots
		WHERE slot_date = $1 AND start_time = $2 AND end_time = $3
	)
`

func (r *repository) CreateBooking(ctx context.Context, p CreateBookingParams) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, reserveSlotQuery, p.BookingDate, p.StartTime, p.EndTime, p.UserID)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		exists, err := db.Exists(ctx, tx, slotExistsQuery, p.BookingDate, p.StartTime, p.EndTime)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, schedule.ErrSlotNotFound
		}
		return nil, ErrSlotUnavailable
	}

	insertQuery := `
		INSERT INTO bookings (reference, user_id, plan_id, booking_date, start_time, end_time, location, number_of_people, selected_add_ons, price_cents, down_payment_cents, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + bookingColumns

	var booking Booking
	err = tx.GetContext(ctx, &booking, insertQuery,
		p.Reference,
		p.UserID,
		p.PlanID,
		p.BookingDate,
		p.StartTime,
		p.EndTime,
		p.Location,
		p.NumberOfPeople,
		p.SelectedAddOns,
		p.PriceCents,
		p.DownPaymentCents,
		p.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *repository) GetByIDWithDetails(ctx context.Context, id int) (*BookingWithDetails, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN plans p ON b.plan_id = p.id
		WHERE b.id = $1
	`

	var booking BookingWithDetails
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListAll(ctx context.Context, page, pageSize int) ([]BookingWithDetails, int, int64, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings`); err != nil {
		return nil, 0, 0, err
	}

	var revenue int64
	revenueQuery := `SELECT COALESCE(SUM(price_cents), 0) FROM bookings WHERE is_canceled = FALSE`
	if err := r.db.GetContext(ctx, &revenue, revenueQuery); err != nil {
		return nil, 0, 0, err
	}

	query := `
		SELECT ` + detailColumns + `
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN plans p ON b.plan_id = p.id
		ORDER BY b.created_at DESC
		LIMIT $1 OFFSET $2
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, pageSize, pageSize*(page-1))
	if err != nil {
		return nil, 0, 0, err
	}

	return bookings, total, revenue, nil
}

func (r *repository) Cancel(ctx context.Context, id int) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// COALESCE keeps the original cancellation timestamp on repeat cancels.
	cancelQuery := `
		UPDATE bookings
		SET is_canceled = TRUE, canceled_at = COALESCE(canceled_at, NOW())
		WHERE id = $1
		RETURNING ` + bookingColumns

	var booking Booking
	err = tx.GetContext(ctx, &booking, cancelQuery, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	result, err := tx.ExecContext(ctx, releaseSlotQuery, booking.BookingDate, booking.StartTime, booking.EndTime)
	if err != nil {
		return nil, err
	}

	// Best effort: the slot may have been removed since booking. The
	// cancellation still succeeds.
	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected == 0 {
		logger.Info("slot release found no matching slot",
			"booking_id", booking.ID,
			"date", booking.BookingDate.Format("2006-01-02"),
			"start", booking.StartTime,
			"end", booking.EndTime,
		)
		metrics.RecordSlotReleaseMiss()
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) MarkPaid(ctx context.Context, id int, result PaymentResult) (*Booking, error) {
	query := `
		UPDATE bookings
		SET is_paid = TRUE, paid_at = NOW(), payment_result = $2
		WHERE id = $1
		RETURNING ` + bookingColumns

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id, result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *repository) MarkConfirmed(ctx context.Context, id int) (*Booking, error) {
	query := `
		UPDATE bookings
		SET is_confirmed = TRUE
		WHERE id = $1
		RETURNING ` + bookingColumns

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *repository) MarkCompleted(ctx context.Context, id int) (*Booking, error) {
	query := `
		UPDATE bookings
		SET is_completed = TRUE, completed_at = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}
