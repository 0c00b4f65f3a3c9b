package model

import (
	"time"

	"salon/shared/model"
)

const (
	AvailabilityTableName  = "staff_availability"
	AvailabilityEntityName = "availability"

	FieldID        = "id"
	FieldStaffID   = "staff_id"
	FieldDayOfWeek = "day_of_week"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldIsActive  = "is_active"
)

const (
	BlockedSlotTableName  = "blocked_slots"
	BlockedSlotEntityName = "blocked_slot"

	FieldReason = "reason"
)

// Availability is one weekly working window. day_of_week follows time.Weekday
// (0 = Sunday). Times are local wall-clock "HH:MM" strings.
type Availability struct {
	ID        string `db:"id"`
	StaffID   string `db:"staff_id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	IsActive  bool   `db:"is_active"`
	model.Metadata
}

// BlockedSlot is a one-off unavailable period overriding the weekly rule.
type BlockedSlot struct {
	ID        string    `db:"id"`
	StaffID   string    `db:"staff_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Reason    *string   `db:"reason"`
	model.Metadata
}
