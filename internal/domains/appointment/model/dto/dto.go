package dto

import (
	"time"

	"github.com/google/uuid"

	"salon/internal/domains/appointment/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	"salon/shared/timezone"
)

type CreateAppointmentRequest struct {
	StaffID     string  `json:"staff_id"     validate:"required"`
	ClientName  string  `json:"client_name"  validate:"required,max=100"`
	ClientEmail string  `json:"client_email" validate:"required,email,max=100"`
	ClientPhone *string `json:"client_phone,omitempty" validate:"omitempty,max=20"`
	StartTime   string  `json:"start_time"   validate:"required"`
	EndTime     string  `json:"end_time"     validate:"required"`
	Notes       *string `json:"notes,omitempty"`
}

func (c *CreateAppointmentRequest) ToModel(username string) (model.Appointment, error) {
	startTime, err := timezone.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return model.Appointment{}, err
	}

	endTime, err := timezone.Parse(constant.DateFormat, c.EndTime)
	if err != nil {
		return model.Appointment{}, err
	}

	return model.Appointment{
		ID:          uuid.NewString(),
		StaffID:     c.StaffID,
		ClientName:  c.ClientName,
		ClientEmail: c.ClientEmail,
		ClientPhone: c.ClientPhone,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      model.StatusPending,
		Notes:       c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}, nil
}

type UpdateAppointmentRequest struct {
	Status *string `db:"status" json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	Notes  *string `db:"notes"  json:"notes,omitempty"`
}

type AppointmentResponse struct {
	ID             string  `json:"id"`
	StaffID        string  `json:"staff_id"`
	ClientName     string  `json:"client_name"`
	ClientEmail    string  `json:"client_email"`
	ClientPhone    *string `json:"client_phone,omitempty"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	ReminderSent   bool    `json:"reminder_sent"`
	ReminderSentAt *string `json:"reminder_sent_at,omitempty"`
	gDto.Metadata
}

func (r *AppointmentResponse) FromModel(model model.Appointment) {
	r.ID = model.ID
	r.StaffID = model.StaffID
	r.ClientName = model.ClientName
	r.ClientEmail = model.ClientEmail
	r.ClientPhone = model.ClientPhone
	r.StartTime = model.StartTime.Format(time.RFC3339)
	r.EndTime = model.EndTime.Format(time.RFC3339)
	r.Status = model.Status
	r.Notes = model.Notes
	r.ReminderSent = model.ReminderSent

	if model.ReminderSentAt != nil {
		sentAt := model.ReminderSentAt.Format(time.RFC3339)
		r.ReminderSentAt = &sentAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetAppointmentsResponse) FromModels(models []model.Appointment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Appointments = make([]AppointmentResponse, len(models))
	for i, mod := range models {
		r.Appointments[i].FromModel(mod)
	}
}

const (
	EventTypeCreated       = "appointment.created"
	EventTypeStatusChanged = "appointment.status_changed"
	EventTypeCancelled     = "appointment.cancelled"
	EventTypeReminderSent  = "appointment.reminder_sent"
)

// AppointmentEvent is the payload published to the appointment topic.
type AppointmentEvent struct {
	Type        string              `json:"type"`
	Appointment AppointmentResponse `json:"appointment"`
	OccurredAt  string              `json:"occurred_at"`
}

func NewAppointmentEvent(eventType string, mod model.Appointment) AppointmentEvent {
	var snapshot AppointmentResponse
	snapshot.FromModel(mod)

	return AppointmentEvent{
		Type:        eventType,
		Appointment: snapshot,
		OccurredAt:  timezone.Now().Format(time.RFC3339),
	}
}
