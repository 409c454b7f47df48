package schedule

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrSlotNotFound = errors.New("time slot not found")

const slotColumns = `id, slot_date, start_time, end_time, reserved, reserved_by, created_at`

// The repository only defines, reads, and removes slots. Flipping the
// reserved flag is owned by the booking repository so that reservation
// transitions have a single writer path.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) DefineSlots(ctx context.Context, date time.Time, windows []SlotWindow) (*DaySchedule, int, error) {
	query := `
		INSERT INTO time_slots (slot_date, start_time, end_time)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT time_slots_window_unique DO NOTHING
	`

	inserted := 0
	for _, w := range windows {
		result, err := r.db.ExecContext(ctx, query, date, w.StartTime, w.EndTime)
		if err != nil {
			return nil, 0, err
		}
		if n, err := result.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	day, err := r.GetDay(ctx, date)
	if err != nil {
		return nil, 0, err
	}

	return day, inserted, nil
}

func (r *repository) GetDay(ctx context.Context, date time.Time) (*DaySchedule, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE slot_date = $1
		ORDER BY start_time ASC
	`

	var slots []TimeSlot
	err := r.db.SelectContext(ctx, &slots, query, date)
	if err != nil {
		return nil, err
	}

	return &DaySchedule{Date: date, Slots: slots}, nil
}

func (r *repository) ListDays(ctx context.Context) ([]DaySchedule, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		ORDER BY slot_date ASC, start_time ASC
	`

	var slots []TimeSlot
	err := r.db.SelectContext(ctx, &slots, query)
	if err != nil {
		return nil, err
	}

	var days []DaySchedule
	for _, slot := range slots {
		if len(days) == 0 || !days[len(days)-1].Date.Equal(slot.SlotDate) {
			days = append(days, DaySchedule{Date: slot.SlotDate})
		}
		last := &days[len(days)-1]
		last.Slots = append(last.Slots, slot)
	}

	return days, nil
}

func (r *repository) FindSlot(ctx context.Context, date time.Time, startTime, endTime string) (*TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE slot_date = $1 AND start_time = $2 AND end_time = $3
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, date, startTime, endTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &slot, nil
}

func (r *repository) DeleteSlot(ctx context.Context, id int) error {
	query := `DELETE FROM time_slots WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}
