package booking

import (
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"shutterbook/internal/logger"
	"shutterbook/internal/schedule"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

var bookingCols = []string{
	"id", "reference", "user_id", "plan_id", "booking_date", "start_time", "end_time",
	"location", "number_of_people", "selected_add_ons", "price_cents", "down_payment_cents",
	"notes", "is_paid", "paid_at", "payment_result", "is_confirmed", "is_completed",
	"completed_at", "is_canceled", "canceled_at", "created_at",
}

func bookingRow(id int, date time.Time, canceledAt *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).AddRow(
		id, "a1b2c3", 1, 2, date, "10:00", "11:00",
		"Riverside Studio", 2, []byte(`[]`), int64(25000), int64(5000),
		"", false, nil, nil, false, false,
		nil, canceledAt != nil, canceledAt, time.Now(),
	)
}

func testParams(date time.Time) CreateBookingParams {
	return CreateBookingParams{
		Reference:        "a1b2c3",
		UserID:           1,
		PlanID:           2,
		BookingDate:      date,
		StartTime:        "10:00",
		EndTime:          "11:00",
		Location:         "Riverside Studio",
		NumberOfPeople:   2,
		PriceCents:       25000,
		DownPaymentCents: 5000,
	}
}

func TestCreateBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE time_slots\s+SET reserved = TRUE, reserved_by = \$4\s+WHERE slot_date = \$1 AND start_time = \$2 AND end_time = \$3 AND reserved = FALSE`).
		WithArgs(date, "10:00", "11:00", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(bookingRow(10, date, nil))
	mock.ExpectCommit()

	b, err := repo.CreateBooking(context.Background(), testParams(date))
	require.NoError(t, err)
	require.Equal(t, 10, b.ID)
	require.Equal(t, "a1b2c3", b.Reference)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A lost race on the slot flip must roll back without ever touching bookings.
func TestCreateBookingSlotTaken(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE time_slots`).
		WithArgs(date, "10:00", "11:00", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(date, "10:00", "11:00").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	b, err := repo.CreateBooking(context.Background(), testParams(date))
	require.Nil(t, b)
	require.ErrorIs(t, err, ErrSlotUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSlotMissing(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE time_slots`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	b, err := repo.CreateBooking(context.Background(), testParams(date))
	require.Nil(t, b)
	require.ErrorIs(t, err, schedule.ErrSlotNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingInsertFailureRollsBack(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE time_slots`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	b, err := repo.CreateBooking(context.Background(), testParams(date))
	require.Nil(t, b)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`)).
		WithArgs(10).
		WillReturnRows(bookingRow(10, date, nil))

	b, err := repo.GetByID(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 10, b.ID)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err = repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	canceledAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE bookings\s+SET is_canceled = TRUE, canceled_at = COALESCE\(canceled_at, NOW\(\)\)`).
		WithArgs(10).
		WillReturnRows(bookingRow(10, date, &canceledAt))
	mock.ExpectExec(`UPDATE time_slots\s+SET reserved = FALSE, reserved_by = NULL`).
		WithArgs(date, "10:00", "11:00").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := repo.Cancel(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, b.IsCanceled)
	require.NotNil(t, b.CanceledAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The slot row may be gone by cancellation time; the cancel still commits.
func TestCancelBookingSlotAlreadyGone(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	canceledAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE bookings`).
		WithArgs(10).
		WillReturnRows(bookingRow(10, date, &canceledAt))
	mock.ExpectExec(`UPDATE time_slots`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	b, err := repo.Cancel(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, b.IsCanceled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE bookings`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 99)
	require.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	paidAt := time.Now()

	rows := sqlmock.NewRows(bookingCols).AddRow(
		10, "a1b2c3", 1, 2, date, "10:00", "11:00",
		"Riverside Studio", 2, []byte(`[]`), int64(25000), int64(5000),
		"", true, paidAt, []byte(`{"id":"pay_1","status":"COMPLETED","email":"u@example.com"}`),
		false, false, nil, false, nil, time.Now(),
	)

	mock.ExpectQuery(`UPDATE bookings\s+SET is_paid = TRUE, paid_at = NOW\(\), payment_result = \$2`).
		WillReturnRows(rows)

	b, err := repo.MarkPaid(context.Background(), 10, PaymentResult{ID: "pay_1", Status: "COMPLETED", Email: "u@example.com"})
	require.NoError(t, err)
	require.True(t, b.IsPaid)
	require.NotNil(t, b.PaidAt)
	require.Equal(t, "pay_1", b.PaymentResult.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkConfirmedAndCompleted(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE bookings\s+SET is_confirmed = TRUE`).
		WithArgs(10).
		WillReturnRows(bookingRow(10, date, nil))

	_, err := repo.MarkConfirmed(context.Background(), 10)
	require.NoError(t, err)

	mock.ExpectQuery(`UPDATE bookings\s+SET is_completed = TRUE, completed_at = NOW\(\)`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err = repo.MarkCompleted(context.Background(), 99)
	require.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bookings`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(price_cents), 0) FROM bookings WHERE is_canceled = FALSE`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(300000)))

	detailRows := sqlmock.NewRows(append(bookingCols, "user_name", "user_email", "plan_name", "plan_duration")).
		AddRow(
			10, "a1b2c3", 1, 2, date, "10:00", "11:00",
			"Riverside Studio", 2, []byte(`[]`), int64(25000), int64(5000),
			"", false, nil, nil, false, false,
			nil, false, nil, time.Now(),
			"Ada", "ada@example.com", "Portrait Session", "1 hour",
		)
	mock.ExpectQuery(`SELECT(.|\s)+FROM bookings b\s+JOIN users u`).
		WithArgs(10, 10).
		WillReturnRows(detailRows)

	list, total, revenue, err := repo.ListAll(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 12, total)
	require.Equal(t, int64(300000), revenue)
	require.Equal(t, "Portrait Session", list[0].PlanName)
	require.NoError(t, mock.ExpectationsWereMet())
}
