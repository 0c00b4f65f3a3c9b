package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"salon/config"
	"salon/infras/kafka"
	"salon/infras/mailer"
	"salon/infras/otel"
	apptModel "salon/internal/domains/appointment/model"
	apptDto "salon/internal/domains/appointment/model/dto"
	apptRepo "salon/internal/domains/appointment/repository"
	"salon/internal/domains/reminder/model/dto"
	staffModel "salon/internal/domains/staff/model"
	staffRepo "salon/internal/domains/staff/repository"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/timezone"
)

const sweepUsername = "reminder-sweep"

type Reminder interface {
	Sweep(ctx context.Context) (dto.SweepResult, error)
}

type serviceImpl struct {
	apptRepo  apptRepo.Appointment
	staffRepo staffRepo.Staff
	cfg       *config.Config
	otel      otel.Otel
	mailer    mailer.Mailer
	producer  kafka.Client
}

func New(apptRepo apptRepo.Appointment, staffRepo staffRepo.Staff, cfg *config.Config, otel otel.Otel, mailer mailer.Mailer, producer kafka.Client) Reminder {
	return &serviceImpl{
		apptRepo:  apptRepo,
		staffRepo: staffRepo,
		cfg:       cfg,
		otel:      otel,
		mailer:    mailer,
		producer:  producer,
	}
}

// Sweep sends the day-before reminder for every active appointment starting
// inside the configured window. Each appointment is claimed with a
// conditional update first, so overlapping sweeps never send the same
// reminder twice. A failed dispatch releases the claim and is recorded in
// the result; it never aborts the rest of the run.
func (s *serviceImpl) Sweep(ctx context.Context) (res dto.SweepResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Sweep")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	windowLo := now.Add(time.Duration(s.cfg.Reminder.WindowLoHours) * time.Hour)
	windowHi := now.Add(time.Duration(s.cfg.Reminder.WindowHiHours) * time.Hour)

	appointments, err := s.due(ctx, windowLo, windowHi)
	if err != nil {
		return res, err
	}

	res.TotalConsidered = len(appointments)
	res.Errors = []string{}

	for _, appointment := range appointments {
		if dispatchErr := s.dispatch(ctx, appointment, now); dispatchErr != nil {
			res.FailureCount++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", appointment.ID, dispatchErr))

			continue
		}

		res.SuccessCount++
	}

	log.Info().
		Int("considered", res.TotalConsidered).
		Int("sent", res.SuccessCount).
		Int("failed", res.FailureCount).
		Msg("reminder sweep finished")

	return res, nil
}

func (s *serviceImpl) due(ctx context.Context, windowLo, windowHi time.Time) ([]apptModel.Appointment, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    apptModel.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    apptModel.ActiveStatuses,
				Table:    apptModel.TableName,
			},
			gDto.Filter{
				Field:    apptModel.FieldReminderSent,
				Operator: gDto.FilterOperatorEq,
				Value:    false,
				Table:    apptModel.TableName,
			},
			gDto.Filter{
				ArgName:  "window_lo",
				Field:    apptModel.FieldStartTime,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    windowLo,
				Table:    apptModel.TableName,
			},
			gDto.Filter{
				ArgName:  "window_hi",
				Field:    apptModel.FieldStartTime,
				Operator: gDto.FilterOperatorLessEq,
				Value:    windowHi,
				Table:    apptModel.TableName,
			},
		},
	}

	appointments, err := s.apptRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: apptModel.FieldStartTime, SortDir: "ASC"},
		filter,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments due for reminder")

		return nil, fmt.Errorf("failed to get appointments due for reminder: %w", err)
	}

	return appointments, nil
}

func (s *serviceImpl) dispatch(ctx context.Context, appointment apptModel.Appointment, sentAt time.Time) error {
	claimed, err := s.apptRepo.ClaimReminder(ctx, appointment.ID, sweepUsername, sentAt)
	if err != nil {
		return fmt.Errorf("failed to claim reminder: %w", err)
	}

	if !claimed {
		log.Debug().Str("appointment_id", appointment.ID).Msg("reminder already claimed by another sweep")

		return nil
	}

	staffName := s.staffName(ctx, appointment.StaffID)

	subject, body := mailer.ReminderEmail(appointment.ClientName, staffName, appointment.StartTime)
	if err = s.mailer.Send(ctx, appointment.ClientEmail, subject, body); err != nil {
		if releaseErr := s.apptRepo.ReleaseReminder(ctx, appointment.ID, sweepUsername); releaseErr != nil {
			log.Error().Err(releaseErr).Str("appointment_id", appointment.ID).Msg("failed to release reminder claim")
		}

		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		event := apptDto.NewAppointmentEvent(apptDto.EventTypeReminderSent, appointment)

		sendErr := s.producer.SendMessages(c, s.cfg.Kafka.Topic.Appointments, kafka.Message{
			Key:   appointment.ID,
			Value: event,
		})
		if sendErr != nil {
			log.Error().Err(sendErr).Str("appointment_id", appointment.ID).Msg("failed to publish reminder event")
		}
	}()

	return nil
}

func (s *serviceImpl) staffName(ctx context.Context, staffID string) string {
	staff, err := s.staffRepo.Get(ctx, shared.FilterByID(staffID, staffModel.FieldID, staffModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to get staff for reminder email")

		return "your stylist"
	}

	if staff.ID == constant.Empty {
		return "your stylist"
	}

	return staff.Name
}
