package schedule

import (
	"context"
	"time"
)

type Repository interface {
	// DefineSlots appends the windows that do not yet exist for the date;
	// duplicates are silently skipped. Returns the full updated day schedule
	// and how many new slots were inserted.
	DefineSlots(ctx context.Context, date time.Time, windows []SlotWindow) (*DaySchedule, int, error)
	GetDay(ctx context.Context, date time.Time) (*DaySchedule, error)
	ListDays(ctx context.Context) ([]DaySchedule, error)
	FindSlot(ctx context.Context, date time.Time, startTime, endTime string) (*TimeSlot, error)
	DeleteSlot(ctx context.Context, id int) error
}
