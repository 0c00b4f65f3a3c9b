package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"salon/config"
	"salon/infras/otel"
	apptModel "salon/internal/domains/appointment/model"
	apptRepo "salon/internal/domains/appointment/repository"
	"salon/internal/domains/schedule/model"
	"salon/internal/domains/schedule/model/dto"
	"salon/internal/domains/schedule/repository"
	staffModel "salon/internal/domains/staff/model"
	staffRepo "salon/internal/domains/staff/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/interval"
	"salon/shared/timezone"
)

const (
	sortAscending = "ASC"

	// Staff detail responses embed the schedule, so schedule mutations drop
	// the staff cache entries as well.
	cacheGetStaff = "staff:get"
)

type Schedule interface {
	ReplaceWeek(ctx context.Context, staffID string, req dto.ReplaceAvailabilityRequest) error
	GetWeek(ctx context.Context, staffID string) (dto.GetAvailabilityResponse, error)
	CreateBlockedSlot(ctx context.Context, staffID string, req dto.CreateBlockedSlotRequest) (dto.BlockedSlotResponse, error)
	GetBlockedSlots(ctx context.Context, staffID string) (dto.GetBlockedSlotsResponse, error)
	DeleteBlockedSlot(ctx context.Context, staffID, slotID string) error
	ResolveSlots(ctx context.Context, staffID, date string) (dto.GetSlotsResponse, error)
}

type serviceImpl struct {
	availabilityRepo repository.Availability
	blockedRepo      repository.BlockedSlot
	staffRepo        staffRepo.Staff
	apptRepo         apptRepo.Appointment
	cfg              *config.Config
	cache            cache.RedisCache
	otel             otel.Otel
}

func New(availabilityRepo repository.Availability, blockedRepo repository.BlockedSlot, staffRepo staffRepo.Staff, apptRepo apptRepo.Appointment, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Schedule {
	return &serviceImpl{
		availabilityRepo: availabilityRepo,
		blockedRepo:      blockedRepo,
		staffRepo:        staffRepo,
		apptRepo:         apptRepo,
		cfg:              cfg,
		cache:            cache,
		otel:             otel,
	}
}

func (s *serviceImpl) ReplaceWeek(ctx context.Context, staffID string, req dto.ReplaceAvailabilityRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReplaceWeek")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.requireStaff(ctx, staffID); err != nil {
		return err
	}

	seenDays := map[int]bool{}
	models := make([]model.Availability, 0, len(req.Windows))

	for _, window := range req.Windows {
		start, parseErr := time.Parse(constant.ClockFormat, window.StartTime)
		if parseErr != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid start time %q", window.StartTime)) // nolint:wrapcheck
		}

		end, parseErr := time.Parse(constant.ClockFormat, window.EndTime)
		if parseErr != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid end time %q", window.EndTime)) // nolint:wrapcheck
		}

		if !end.After(start) {
			return failure.BadRequestFromString("availability end time must be after start time") // nolint:wrapcheck
		}

		mod := window.ToModel(staffID, user)
		if mod.IsActive {
			if seenDays[mod.DayOfWeek] {
				return failure.BadRequestFromString("duplicate active availability window for the same day") // nolint:wrapcheck
			}

			seenDays[mod.DayOfWeek] = true
		}

		models = append(models, mod)
	}

	if err = s.availabilityRepo.ReplaceWeek(ctx, staffID, models); err != nil {
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to replace availability")

		return fmt.Errorf("failed to replace availability: %w", err)
	}

	s.invalidateStaff(ctx, staffID)

	return nil
}

func (s *serviceImpl) GetWeek(ctx context.Context, staffID string) (res dto.GetAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetWeek")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireStaff(ctx, staffID); err != nil {
		return res, err
	}

	models, err := s.availabilityRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: model.FieldDayOfWeek, SortDir: sortAscending},
		shared.FilterByID(staffID, model.FieldStaffID, model.AvailabilityTableName),
	)
	if err != nil {
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to get availability")

		return res, fmt.Errorf("failed to get availability: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

func (s *serviceImpl) CreateBlockedSlot(ctx context.Context, staffID string, req dto.CreateBlockedSlotRequest) (res dto.BlockedSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBlockedSlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.requireStaff(ctx, staffID); err != nil {
		return res, err
	}

	mod, err := req.ToModel(staffID, user)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid blocked slot time: %v", err)) // nolint:wrapcheck
	}

	if !mod.EndTime.After(mod.StartTime) {
		return res, failure.BadRequestFromString("blocked slot end time must be after start time") // nolint:wrapcheck
	}

	if err = s.blockedRepo.Insert(ctx, mod); err != nil {
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to create blocked slot")

		return res, fmt.Errorf("failed to create blocked slot: %w", err)
	}

	s.invalidateStaff(ctx, staffID)

	res.FromModel(mod)

	return res, nil
}

func (s *serviceImpl) GetBlockedSlots(ctx context.Context, staffID string) (res dto.GetBlockedSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBlockedSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireStaff(ctx, staffID); err != nil {
		return res, err
	}

	models, err := s.blockedRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: model.FieldStartTime, SortDir: sortAscending},
		shared.FilterByID(staffID, model.FieldStaffID, model.BlockedSlotTableName),
	)
	if err != nil {
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to get blocked slots")

		return res, fmt.Errorf("failed to get blocked slots: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

func (s *serviceImpl) DeleteBlockedSlot(ctx context.Context, staffID, slotID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteBlockedSlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    slotID,
				Table:    model.BlockedSlotTableName,
			},
			gDto.Filter{
				Field:    model.FieldStaffID,
				Operator: gDto.FilterOperatorEq,
				Value:    staffID,
				Table:    model.BlockedSlotTableName,
			},
		},
	}

	exist, err := s.blockedRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if blocked slot exists")

		return fmt.Errorf("failed to check if blocked slot exists: %w", err)
	}

	if !exist {
		return failure.NotFound("blocked slot not found") // nolint:wrapcheck
	}

	if err = s.blockedRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete blocked slot")

		return fmt.Errorf("failed to delete blocked slot: %w", err)
	}

	s.invalidateStaff(ctx, staffID)

	return nil
}

// ResolveSlots tiles the staff member's working window for the given date
// into bookable half-hour slots, marking each one unavailable when it has
// already started, overlaps an active appointment, or overlaps a blocked
// period. Staff with no active rule for that weekday get an empty list.
func (s *serviceImpl) ResolveSlots(ctx context.Context, staffID, date string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	day, err := timezone.Parse(constant.DayFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)) // nolint:wrapcheck
	}

	staff, err := s.staffRepo.Get(ctx, shared.FilterByID(staffID, staffModel.FieldID, staffModel.TableName))
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

	res.StaffID = staffID
	res.Date = date
	res.Slots = []dto.SlotResponse{}

	rule, found, err := s.firstActiveRule(ctx, staffID, int(day.Weekday()))
	if err != nil {
		return res, err
	}

	if !found {
		return res, nil
	}

	windowStart, windowEnd, err := ruleWindow(rule, day)
	if err != nil {
		return res, err
	}

	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	busy, err := s.busySpans(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return res, err
	}

	slotSize := time.Duration(s.cfg.Booking.SlotMinutes) * time.Minute
	now := timezone.Now()

	for t := windowStart; t.Before(windowEnd); t = t.Add(slotSize) {
		slot := interval.New(t, t.Add(slotSize))

		available := !t.Before(now) && !interval.OverlapsAny(slot, busy)

		res.Slots = append(res.Slots, dto.SlotResponse{
			Time:      t.Format(constant.SlotTimeFormat),
			Available: available,
		})
	}

	return res, nil
}

func (s *serviceImpl) firstActiveRule(ctx context.Context, staffID string, weekday int) (rule model.Availability, found bool, err error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStaffID,
				Operator: gDto.FilterOperatorEq,
				Value:    staffID,
				Table:    model.AvailabilityTableName,
			},
			gDto.Filter{
				Field:    model.FieldDayOfWeek,
				Operator: gDto.FilterOperatorEq,
				Value:    weekday,
				Table:    model.AvailabilityTableName,
			},
			gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.AvailabilityTableName,
			},
		},
	}

	rules, err := s.availabilityRepo.GetAll(ctx,
		gDto.QueryParams{Limit: 1, SortBy: constant.FieldCreatedAt, SortDir: sortAscending},
		filter,
	)
	if err != nil {
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to get availability rule")

		return rule, false, fmt.Errorf("failed to get availability rule: %w", err)
	}

	if len(rules) == 0 {
		return rule, false, nil
	}

	return rules[0], true, nil
}

// ruleWindow anchors the rule's wall-clock times onto the requested date.
func ruleWindow(rule model.Availability, day time.Time) (time.Time, time.Time, error) {
	start, err := time.Parse(constant.ClockFormat, rule.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString(fmt.Sprintf("malformed availability start time %q", rule.StartTime)) // nolint:wrapcheck
	}

	end, err := time.Parse(constant.ClockFormat, rule.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequestFromString(fmt.Sprintf("malformed availability end time %q", rule.EndTime)) // nolint:wrapcheck
	}

	loc := timezone.GetLocation()
	windowStart := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, loc)
	windowEnd := time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, loc)

	return windowStart, windowEnd, nil
}

func (s *serviceImpl) busySpans(ctx context.Context, staffID string, dayStart, dayEnd time.Time) ([]interval.Span, error) {
	apptFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    apptModel.FieldStaffID,
				Operator: gDto.FilterOperatorEq,
				Value:    staffID,
				Table:    apptModel.TableName,
			},
			gDto.Filter{
				Field:    apptModel.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    apptModel.ActiveStatuses,
				Table:    apptModel.TableName,
			},
			gDto.Filter{
				ArgName:  "day_end",
				Field:    apptModel.FieldStartTime,
				Operator: gDto.FilterOperatorLess,
				Value:    dayEnd,
				Table:    apptModel.TableName,
			},
			gDto.Filter{
				ArgName:  "day_start",
				Field:    apptModel.FieldEndTime,
				Operator: gDto.FilterOperatorGreater,
				Value:    dayStart,
				Table:    apptModel.TableName,
			},
		},
	}

	appointments, err := s.apptRepo.GetAll(ctx, gDto.QueryParams{}, apptFilter)
	if err != nil {
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to get appointments for slot resolution")

		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}

	blockedFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStaffID,
				Operator: gDto.FilterOperatorEq,
				Value:    staffID,
				Table:    model.BlockedSlotTableName,
			},
			gDto.Filter{
				ArgName:  "day_end",
				Field:    model.FieldStartTime,
				Operator: gDto.FilterOperatorLess,
				Value:    dayEnd,
				Table:    model.BlockedSlotTableName,
			},
			gDto.Filter{
				ArgName:  "day_start",
				Field:    model.FieldEndTime,
				Operator: gDto.FilterOperatorGreater,
				Value:    dayStart,
				Table:    model.BlockedSlotTableName,
			},
		},
	}

	blocked, err := s.blockedRepo.GetAll(ctx, gDto.QueryParams{}, blockedFilter)
	if err != nil {
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to get blocked slots for slot resolution")

		return nil, fmt.Errorf("failed to get blocked slots: %w", err)
	}

	spans := make([]interval.Span, 0, len(appointments)+len(blocked))
	for _, appt := range appointments {
		spans = append(spans, appt.Span())
	}

	for _, block := range blocked {
		spans = append(spans, interval.New(block.StartTime, block.EndTime))
	}

	return spans, nil
}

func (s *serviceImpl) requireStaff(ctx context.Context, staffID string) error {
	exist, err := s.staffRepo.Exist(ctx, shared.FilterByID(staffID, staffModel.FieldID, staffModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if staff exists")

		return fmt.Errorf("failed to check if staff exists: %w", err)
	}

	if !exist {
		return failure.NotFound("staff not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidateStaff(ctx context.Context, staffID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStaff, staffID)); err != nil {
			log.Error().Err(err).Msg("failed to delete staff from cache")
		}
	}()
}
