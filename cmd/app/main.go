package main

import (
	"github.com/rs/zerolog/log"

	"salon/config"
	"salon/di"
	"salon/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	service := di.InitializeService()

	if err := service.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start reminder scheduler")
	}

	service.HTTP.Serve()
}
