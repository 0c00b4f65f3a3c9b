//go:build wireinject
// +build wireinject

package di

import (
	"salon/config"
	"salon/infras/jwt"
	"salon/infras/kafka"
	"salon/infras/mailer"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/infras/redis"
	"salon/infras/s3"
	"salon/internal/scheduler"
	"salon/permissions"
	"salon/shared/cache"
	"salon/transport/http"
	"salon/transport/http/middleware"
	"salon/transport/http/router"

	"github.com/google/wire"

	appointmentRepository "salon/internal/domains/appointment/repository"
	appointmentService "salon/internal/domains/appointment/service"
	authService "salon/internal/domains/auth/service"
	reminderService "salon/internal/domains/reminder/service"
	scheduleRepository "salon/internal/domains/schedule/repository"
	scheduleService "salon/internal/domains/schedule/service"
	staffRepository "salon/internal/domains/staff/repository"
	staffService "salon/internal/domains/staff/service"
	userRepository "salon/internal/domains/user/repository"

	appointmentHandler "salon/internal/handlers/appointment"
	authHandler "salon/internal/handlers/auth"
	reminderHandler "salon/internal/handlers/reminder"
	scheduleHandler "salon/internal/handlers/schedule"
	staffHandler "salon/internal/handlers/staff"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var staffDomain = wire.NewSet(
	staffRepository.New,
	staffService.New,
)

var scheduleDomain = wire.NewSet(
	scheduleRepository.NewAvailability,
	scheduleRepository.NewBlockedSlot,
	scheduleService.New,
)

var appointmentDomain = wire.NewSet(
	appointmentRepository.New,
	appointmentService.New,
)

var reminderDomain = wire.NewSet(
	reminderService.New,
	scheduler.New,
)

var domains = wire.NewSet(
	authDomain,
	staffDomain,
	scheduleDomain,
	appointmentDomain,
	reminderDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	staffHandler.New,
	scheduleHandler.New,
	appointmentHandler.New,
	reminderHandler.New,
	router.New,
)

func InitializeService() *Service {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(Service), "*"),
	)

	return &Service{}
}
