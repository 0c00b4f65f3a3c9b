package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"salon/internal/domains/appointment/model"
	"salon/internal/domains/appointment/model/dto"
	gModel "salon/shared/model"
	"salon/shared/timezone"
)

func TestCreateAppointmentRequest_ToModel(t *testing.T) {
	start := timezone.Now().AddDate(0, 0, 1).Truncate(time.Minute)
	end := start.Add(30 * time.Minute)

	req := dto.CreateAppointmentRequest{
		StaffID:     "staff-1",
		ClientName:  "Sari",
		ClientEmail: "sari@example.com",
		StartTime:   start.Format(time.RFC3339),
		EndTime:     end.Format(time.RFC3339),
	}

	mod, err := req.ToModel("sari@example.com")

	assert.NoError(t, err)
	assert.NotEmpty(t, mod.ID)
	assert.Equal(t, "staff-1", mod.StaffID)
	assert.Equal(t, "Sari", mod.ClientName)
	assert.Equal(t, model.StatusPending, mod.Status)
	assert.True(t, mod.StartTime.Equal(start))
	assert.True(t, mod.EndTime.Equal(end))
	assert.False(t, mod.ReminderSent)
	assert.Equal(t, "sari@example.com", mod.CreatedBy)
}

func TestCreateAppointmentRequest_ToModelRejectsBadTimestamps(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{
			name:  "malformed start",
			start: "tomorrow at nine",
			end:   timezone.Now().Format(time.RFC3339),
		},
		{
			name:  "malformed end",
			start: timezone.Now().Format(time.RFC3339),
			end:   "2026-13-40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateAppointmentRequest{
				StaffID:     "staff-1",
				ClientName:  "Sari",
				ClientEmail: "sari@example.com",
				StartTime:   tt.start,
				EndTime:     tt.end,
			}

			_, err := req.ToModel("sari@example.com")

			assert.Error(t, err)
		})
	}
}

func TestAppointmentResponse_FromModel(t *testing.T) {
	start := timezone.Now().AddDate(0, 0, 1)
	sentAt := timezone.Now()
	notes := "first visit"

	mod := model.Appointment{
		ID:             "appt-1",
		StaffID:        "staff-1",
		ClientName:     "Sari",
		ClientEmail:    "sari@example.com",
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         model.StatusConfirmed,
		Notes:          &notes,
		ReminderSent:   true,
		ReminderSentAt: &sentAt,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "sari@example.com",
			ModifiedBy: "admin",
		},
	}

	var res dto.AppointmentResponse
	res.FromModel(mod)

	assert.Equal(t, "appt-1", res.ID)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.Equal(t, start.Format(time.RFC3339), res.StartTime)
	assert.Equal(t, &notes, res.Notes)
	assert.True(t, res.ReminderSent)
	assert.NotNil(t, res.ReminderSentAt)
	assert.Equal(t, sentAt.Format(time.RFC3339), *res.ReminderSentAt)
}

func TestGetAppointmentsResponse_FromModels(t *testing.T) {
	start := timezone.Now().AddDate(0, 0, 1)

	models := []model.Appointment{
		{ID: "appt-1", StaffID: "staff-1", StartTime: start, EndTime: start.Add(30 * time.Minute), Status: model.StatusPending},
		{ID: "appt-2", StaffID: "staff-1", StartTime: start.Add(time.Hour), EndTime: start.Add(90 * time.Minute), Status: model.StatusConfirmed},
	}

	var res dto.GetAppointmentsResponse
	res.FromModels(models, 7, 2)

	assert.Len(t, res.Appointments, 2)
	assert.Equal(t, 7, res.TotalData)
	assert.Equal(t, 4, res.TotalPage)
	assert.Equal(t, "appt-2", res.Appointments[1].ID)
}

func TestNewAppointmentEvent(t *testing.T) {
	start := timezone.Now().AddDate(0, 0, 1)

	mod := model.Appointment{
		ID:        "appt-1",
		StaffID:   "staff-1",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    model.StatusCancelled,
	}

	event := dto.NewAppointmentEvent(dto.EventTypeCancelled, mod)

	assert.Equal(t, dto.EventTypeCancelled, event.Type)
	assert.Equal(t, "appt-1", event.Appointment.ID)
	assert.Equal(t, model.StatusCancelled, event.Appointment.Status)
	assert.NotEmpty(t, event.OccurredAt)
}
