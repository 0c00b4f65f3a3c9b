package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salon/config"
	kafkaMocks "salon/infras/kafka/mocks"
	mailerMocks "salon/infras/mailer/mocks"
	"salon/infras/otel/mocks"
	apptMocks "salon/internal/domains/appointment/mocks"
	apptModel "salon/internal/domains/appointment/model"
	"salon/internal/domains/reminder/service"
	staffMocks "salon/internal/domains/staff/mocks"
	staffModel "salon/internal/domains/staff/model"
	"salon/shared/timezone"
)

type reminderFixture struct {
	apptRepo  *apptMocks.MockAppointment
	staffRepo *staffMocks.MockStaff
	mailer    *mailerMocks.MockMailer
	svc       service.Reminder
}

func newReminderFixture(t *testing.T) reminderFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	apptRepo := apptMocks.NewMockAppointment(ctrl)
	staffRepo := staffMocks.NewMockStaff(ctrl)
	mockMailer := mailerMocks.NewMockMailer(ctrl)
	mockProducer := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	// Events publish on a detached goroutine.
	mockProducer.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Reminder.WindowLoHours = 22
	cfg.Reminder.WindowHiHours = 26
	cfg.Kafka.Topic.Appointments = "salon.appointments"

	return reminderFixture{
		apptRepo:  apptRepo,
		staffRepo: staffRepo,
		mailer:    mockMailer,
		svc:       service.New(apptRepo, staffRepo, cfg, mockOtel, mockMailer, mockProducer),
	}
}

func dueAppointment(id, email string) apptModel.Appointment {
	start := timezone.Now().Add(24 * time.Hour)

	return apptModel.Appointment{
		ID:          id,
		StaffID:     "staff-1",
		ClientName:  "Sari",
		ClientEmail: email,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		Status:      apptModel.StatusConfirmed,
	}
}

func TestReminderService_Sweep_SendsDueReminders(t *testing.T) {
	f := newReminderFixture(t)

	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]apptModel.Appointment{
			dueAppointment("appt-1", "a@example.com"),
			dueAppointment("appt-2", "b@example.com"),
		}, nil)

	f.apptRepo.EXPECT().ClaimReminder(gomock.Any(), "appt-1", gomock.Any(), gomock.Any()).Return(true, nil)
	f.apptRepo.EXPECT().ClaimReminder(gomock.Any(), "appt-2", gomock.Any(), gomock.Any()).Return(true, nil)

	f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(staffModel.Staff{ID: "staff-1", Name: "Ayu", Active: true}, nil).
		Times(2)

	f.mailer.EXPECT().Send(gomock.Any(), "a@example.com", gomock.Any(), gomock.Any()).Return(nil)
	f.mailer.EXPECT().Send(gomock.Any(), "b@example.com", gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalConsidered)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 0, res.FailureCount)
	assert.Empty(t, res.Errors)
}

func TestReminderService_Sweep_ClaimLoserSkipsQuietly(t *testing.T) {
	f := newReminderFixture(t)

	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]apptModel.Appointment{dueAppointment("appt-1", "a@example.com")}, nil)

	// Another sweep already flipped reminder_sent, so no email goes out and
	// the run still counts as a success.
	f.apptRepo.EXPECT().ClaimReminder(gomock.Any(), "appt-1", gomock.Any(), gomock.Any()).Return(false, nil)

	res, err := f.svc.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalConsidered)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 0, res.FailureCount)
}

func TestReminderService_Sweep_FailedDispatchReleasesClaim(t *testing.T) {
	f := newReminderFixture(t)

	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]apptModel.Appointment{
			dueAppointment("appt-1", "broken@example.com"),
			dueAppointment("appt-2", "ok@example.com"),
		}, nil)

	f.apptRepo.EXPECT().ClaimReminder(gomock.Any(), "appt-1", gomock.Any(), gomock.Any()).Return(true, nil)
	f.apptRepo.EXPECT().ClaimReminder(gomock.Any(), "appt-2", gomock.Any(), gomock.Any()).Return(true, nil)

	f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(staffModel.Staff{ID: "staff-1", Name: "Ayu", Active: true}, nil).
		Times(2)

	f.mailer.EXPECT().Send(gomock.Any(), "broken@example.com", gomock.Any(), gomock.Any()).
		Return(errors.New("smtp connection refused"))
	f.mailer.EXPECT().Send(gomock.Any(), "ok@example.com", gomock.Any(), gomock.Any()).Return(nil)

	// The failed dispatch hands the claim back so a later sweep retries.
	f.apptRepo.EXPECT().ReleaseReminder(gomock.Any(), "appt-1", gomock.Any()).Return(nil)

	res, err := f.svc.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalConsidered)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "appt-1")
}

func TestReminderService_Sweep_NothingDue(t *testing.T) {
	f := newReminderFixture(t)

	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]apptModel.Appointment{}, nil)

	res, err := f.svc.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, res.TotalConsidered)
	assert.Equal(t, 0, res.SuccessCount)
}

func TestReminderService_Sweep_QueryError(t *testing.T) {
	f := newReminderFixture(t)

	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("database error"))

	_, err := f.svc.Sweep(context.Background())

	assert.Error(t, err)
}
