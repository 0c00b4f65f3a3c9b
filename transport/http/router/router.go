package router

import (
	"github.com/go-chi/chi/v5"

	"salon/internal/handlers/appointment"
	"salon/internal/handlers/auth"
	"salon/internal/handlers/reminder"
	"salon/internal/handlers/schedule"
	"salon/internal/handlers/staff"
	"salon/transport/http/middleware"
)

type DomainHandlers struct {
	Auth        auth.Handler
	Staff       staff.Handler
	Schedule    schedule.Handler
	Appointment appointment.Handler
	Reminder    reminder.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthMiddleware middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthMiddleware.APIKey)
		routerGroup.Use(r.AuthMiddleware.Auth)
		routerGroup.Use(r.AuthMiddleware.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Appointment.Router(routerGroup)
		r.DomainHandlers.Schedule.Router(routerGroup)
		r.DomainHandlers.Reminder.Router(routerGroup)

		// The staff and schedule handlers share the /staff group because
		// chi refuses a second Route on the same pattern.
		routerGroup.Route("/staff", func(staffGroup chi.Router) {
			r.DomainHandlers.Staff.Router(staffGroup)
			r.DomainHandlers.Schedule.StaffRouter(staffGroup)
		})
	})
}

func New(domainHandlers DomainHandlers, authMiddleware middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthMiddleware: authMiddleware,
	}
}
