package schedule

import "time"

// DateOnly is the wire format for calendar dates.
const DateOnly = "2006-01-02"

// TimeSlot is one bookable window on a calendar date. Start and end times are
// opaque tokens ("14:00"); they are compared for equality only, never parsed.
type TimeSlot struct {
	ID         int       `db:"id" json:"id"`
	SlotDate   time.Time `db:"slot_date" json:"slot_date"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	Reserved   bool      `db:"reserved" json:"reserved"`
	ReservedBy *int      `db:"reserved_by" json:"reserved_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DaySchedule groups the ordered slots of one calendar date.
type DaySchedule struct {
	Date  time.Time  `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

type SlotWindow struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type DefineSlotsRequest struct {
	Date  string       `json:"date" binding:"required"`
	Slots []SlotWindow `json:"slots" binding:"required,min=1,dive"`
}
