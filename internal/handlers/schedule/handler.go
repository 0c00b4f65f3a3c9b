package schedule

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"salon/infras/otel"
	"salon/internal/domains/schedule/model/dto"
	"salon/internal/domains/schedule/service"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/shared/validator"
	"salon/transport/http/response"
)

const (
	requestParamStaffID = "staff_id"
	requestParamDate    = "date"
)

type Handler struct {
	service service.Schedule
	otel    otel.Otel
}

func New(service service.Schedule, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router registers the public slot listing.
func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.GetSlots)
}

// StaffRouter registers the schedule routes on an already-mounted /staff group.
func (handler *Handler) StaffRouter(router chi.Router) {
	router.Get("/{id}/availability", handler.GetAvailability)
	router.Put("/{id}/availability", handler.ReplaceAvailability)
	router.Get("/{id}/blocked-slots", handler.GetBlockedSlots)
	router.Post("/{id}/blocked-slots", handler.CreateBlockedSlot)
	router.Delete("/{id}/blocked-slots/{slotId}", handler.DeleteBlockedSlot)
}

// GetSlots lists the bookable slots of a staff member for one date.
// @Summary Get bookable slots
// @Description List a staff member's slots for a date, each marked available or not.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param staff_id query string true "Staff ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.GetSlotsResponse "Slot list"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	staffID := r.URL.Query().Get(requestParamStaffID)
	date := r.URL.Query().Get(requestParamDate)

	if staffID == "" || date == "" {
		err := failure.BadRequestFromString("staff_id and date query parameters are required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	slots, err := handler.service.ResolveSlots(ctx, staffID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slots resolved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// GetAvailability retrieves the weekly availability of a staff member.
// @Summary Get weekly availability
// @Description Retrieve the weekly availability rules of a staff member.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} dto.GetAvailabilityResponse "Weekly availability"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id}/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	availability, err := handler.service.GetWeek(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability retrieved successfully")

	response.WithJSON(w, http.StatusOK, availability)
}

// ReplaceAvailability replaces the whole weekly availability of a staff member.
// @Summary Replace weekly availability
// @Description Replace all weekly availability rules of a staff member in one call.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param request body dto.ReplaceAvailabilityRequest true "Replace Availability Request"
// @Success 200 {object} response.Message "Availability replaced successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id}/availability [put]
// @Security BearerAuth
func (handler *Handler) ReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReplaceAvailability")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ReplaceAvailabilityRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ReplaceWeek(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to replace availability")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Availability replaced successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Availability replaced successfully")
}

// GetBlockedSlots lists the blocked slots of a staff member.
// @Summary Get blocked slots
// @Description Retrieve the blocked slots of a staff member.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} dto.GetBlockedSlotsResponse "Blocked slots"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id}/blocked-slots [get]
// @Security BearerAuth
func (handler *Handler) GetBlockedSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlockedSlots")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	slots, err := handler.service.GetBlockedSlots(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blocked slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Blocked slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// CreateBlockedSlot blocks a one-off period for a staff member.
// @Summary Create a blocked slot
// @Description Block a one-off period during which the staff member cannot be booked.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param request body dto.CreateBlockedSlotRequest true "Create Blocked Slot Request"
// @Success 201 {object} dto.BlockedSlotResponse "Blocked slot created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id}/blocked-slots [post]
// @Security BearerAuth
func (handler *Handler) CreateBlockedSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBlockedSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateBlockedSlotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	slot, err := handler.service.CreateBlockedSlot(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create blocked slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Blocked slot created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, slot)
}

// DeleteBlockedSlot removes a blocked slot from a staff member's schedule.
// @Summary Delete a blocked slot
// @Description Delete a blocked slot by its unique identifier.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param slotId path string true "Blocked Slot ID"
// @Success 200 {object} response.Message "Blocked slot deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id}/blocked-slots/{slotId} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBlockedSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBlockedSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	slotID := chi.URLParam(r, constant.RequestParamSlotID)

	if err := handler.service.DeleteBlockedSlot(ctx, id, slotID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete blocked slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Blocked slot deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Blocked slot deleted successfully")
}
