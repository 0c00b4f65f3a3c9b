package model

import (
	"time"

	"salon/shared/interval"
	"salon/shared/model"
)

const (
	TableName  = "appointments"
	EntityName = "appointment"

	FieldID             = "id"
	FieldStaffID        = "staff_id"
	FieldClientName     = "client_name"
	FieldClientEmail    = "client_email"
	FieldClientPhone    = "client_phone"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldStatus         = "status"
	FieldNotes          = "notes"
	FieldReminderSent   = "reminder_sent"
	FieldReminderSentAt = "reminder_sent_at"
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// ActiveStatuses are the statuses that occupy a staff member's time.
// CANCELLED and COMPLETED appointments never block a slot.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// transitions describes the legal status moves. Absent keys are terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func IsValidTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

func IsTerminalStatus(status string) bool {
	return len(transitions[status]) == 0
}

type Appointment struct {
	ID             string     `db:"id"`
	StaffID        string     `db:"staff_id"`
	ClientName     string     `db:"client_name"`
	ClientEmail    string     `db:"client_email"`
	ClientPhone    *string    `db:"client_phone"`
	StartTime      time.Time  `db:"start_time"`
	EndTime        time.Time  `db:"end_time"`
	Status         string     `db:"status"`
	Notes          *string    `db:"notes"`
	ReminderSent   bool       `db:"reminder_sent"`
	ReminderSentAt *time.Time `db:"reminder_sent_at"`
	model.Metadata
}

func (a *Appointment) Span() interval.Span {
	return interval.New(a.StartTime, a.EndTime)
}
