package di

import (
	"salon/internal/scheduler"
	"salon/transport/http"
)

// Service bundles the long-running pieces of the application.
type Service struct {
	HTTP      *http.HTTP
	Scheduler *scheduler.Scheduler
}
