package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"salon/config"
	"salon/infras/kafka"
	"salon/infras/mailer"
	"salon/infras/otel"
	"salon/internal/domains/appointment/model"
	"salon/internal/domains/appointment/model/dto"
	"salon/internal/domains/appointment/repository"
	staffModel "salon/internal/domains/staff/model"
	staffRepo "salon/internal/domains/staff/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
)

const (
	cacheGetAppointment    = "appointment:get"
	cacheGetAllAppointment = "appointment:gets"
	cacheCountAppointment  = "appointment:count"
)

type Appointment interface {
	Create(ctx context.Context, req dto.CreateAppointmentRequest) (dto.AppointmentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAppointmentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.AppointmentResponse, error)
	Update(ctx context.Context, req dto.UpdateAppointmentRequest, id string) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Appointment
	staffRepo staffRepo.Staff
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	mailer    mailer.Mailer
	producer  kafka.Client
}

func New(repo repository.Appointment, staffRepo staffRepo.Staff, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, mailer mailer.Mailer, producer kafka.Client) Appointment {
	return &serviceImpl{
		repo:      repo,
		staffRepo: staffRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		mailer:    mailer,
		producer:  producer,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAppointmentRequest) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = req.ClientEmail
	}

	staff, err := s.staffRepo.Get(ctx, shared.FilterByID(req.StaffID, staffModel.FieldID, staffModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == constant.Empty {
		return res, failure.NotFound("staff not found") // nolint:wrapcheck
	}

	if !staff.Active {
		return res, failure.BadRequestFromString("staff is not active") // nolint:wrapcheck
	}

	appointment, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse appointment request")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) // nolint:wrapcheck
	}

	if !appointment.EndTime.After(appointment.StartTime) {
		return res, failure.BadRequestFromString("appointment end time must be after start time") // nolint:wrapcheck
	}

	if err = s.repo.InsertGuarded(ctx, appointment); err != nil {
		log.Error().Err(err).Msg("failed to create appointment")

		return res, err // nolint:wrapcheck
	}

	res.FromModel(appointment)

	go func() {
		c := context.WithoutCancel(ctx)

		subject, body := mailer.ConfirmationEmail(appointment.ClientName, staff.Name, appointment.StartTime, appointment.EndTime)
		if mailErr := s.mailer.Send(c, appointment.ClientEmail, subject, body); mailErr != nil {
			log.Error().Err(mailErr).Str("appointment_id", appointment.ID).Msg("failed to send confirmation email")
		}

		s.publishEvent(c, dto.EventTypeCreated, appointment)

		shared.InvalidateCaches(c, s.cache, cacheGetAllAppointment)
		shared.InvalidateCaches(c, s.cache, cacheCountAppointment)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAppointment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments")

		return res, fmt.Errorf("failed to get appointments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountAppointment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointment count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAppointment, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointment")

		return res, nil
	}

	appointment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return res, fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return res, failure.NotFound("appointment not found") // nolint:wrapcheck
	}

	res.FromModel(appointment)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAppointmentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateAppointmentRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	appointment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return failure.NotFound("appointment not found") // nolint:wrapcheck
	}

	statusChanged := req.Status != nil && *req.Status != appointment.Status
	if statusChanged && !model.IsValidTransition(appointment.Status, *req.Status) {
		return failure.BadRequestFromString("invalid status transition") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update appointment")

		return fmt.Errorf("failed to update appointment: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if statusChanged {
			appointment.Status = *req.Status
			s.publishEvent(c, dto.EventTypeStatusChanged, appointment)
		}

		s.invalidate(c, id)
	}()

	return nil
}

// Cancel is the public soft delete. The row survives with status CANCELLED so
// the slot it covered opens back up without losing the booking history.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	appointment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return failure.NotFound("appointment not found") // nolint:wrapcheck
	}

	if appointment.Status == model.StatusCancelled {
		return failure.Conflict("appointment already cancelled") // nolint:wrapcheck
	}

	if !model.IsValidTransition(appointment.Status, model.StatusCancelled) {
		return failure.BadRequestFromString("invalid status transition") // nolint:wrapcheck
	}

	if user == constant.Empty {
		user = appointment.ClientEmail
	}

	cancelled := model.StatusCancelled
	updatedFields := shared.TransformFields(dto.UpdateAppointmentRequest{Status: &cancelled}, user)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to cancel appointment")

		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		subject, body := mailer.CancellationEmail(appointment.ClientName, appointment.StartTime)
		if mailErr := s.mailer.Send(c, appointment.ClientEmail, subject, body); mailErr != nil {
			log.Error().Err(mailErr).Str("appointment_id", appointment.ID).Msg("failed to send cancellation email")
		}

		appointment.Status = model.StatusCancelled
		s.publishEvent(c, dto.EventTypeCancelled, appointment)

		s.invalidate(c, id)
	}()

	return nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, appointment model.Appointment) {
	event := dto.NewAppointmentEvent(eventType, appointment)

	err := s.producer.SendMessages(ctx, s.cfg.Kafka.Topic.Appointments, kafka.Message{
		Key:   appointment.ID,
		Value: event,
	})
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Str("appointment_id", appointment.ID).Msg("failed to publish appointment event")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetAppointment, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete appointment from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllAppointment)
	shared.InvalidateCaches(ctx, s.cache, cacheCountAppointment)
}
