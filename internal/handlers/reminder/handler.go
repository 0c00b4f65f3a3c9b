package reminder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"salon/infras/otel"
	"salon/internal/domains/reminder/service"
	"salon/shared/constant"
	"salon/transport/http/response"
)

type Handler struct {
	service service.Reminder
	otel    otel.Otel
}

func New(service service.Reminder, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/reminders/run", handler.RunSweep)
}

// RunSweep triggers a reminder sweep outside the cron schedule.
// @Summary Run the reminder sweep
// @Description Dispatch reminder emails for appointments starting roughly a day from now.
// @Tags Reminder
// @Accept json
// @Produce json
// @Success 200 {object} dto.SweepResult "Sweep result"
// @Failure 500 {object} response.Error
// @Router /v1/reminders/run [post]
// @Security BearerAuth
func (handler *Handler) RunSweep(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RunSweep")
	defer scope.End()

	result, err := handler.service.Sweep(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to run reminder sweep")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reminder sweep completed by user " + user)

	response.WithJSON(w, http.StatusOK, result)
}
