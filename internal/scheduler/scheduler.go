package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"salon/config"
	reminderService "salon/internal/domains/reminder/service"
)

// Scheduler owns the background cron that fires the reminder sweep. The
// sweep window is wider than the hourly cadence, so a skipped or slow run
// still gets every appointment on the next tick.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	reminder reminderService.Reminder
}

func New(cfg *config.Config, reminder reminderService.Reminder) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		reminder: reminder,
	}
}

func (s *Scheduler) Start() error {
	if !s.cfg.Reminder.Enable {
		log.Info().Msg("Reminder scheduler disabled")

		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Reminder.CronSpec, func() {
		res, err := s.reminder.Sweep(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("scheduled reminder sweep failed")

			return
		}

		if res.FailureCount > 0 {
			log.Warn().Strs("errors", res.Errors).Msg("scheduled reminder sweep finished with failures")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	log.Info().Str("spec", s.cfg.Reminder.CronSpec).Msg("Reminder scheduler started")

	return nil
}

// Stop waits for a running sweep to finish before returning.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	log.Info().Msg("Reminder scheduler stopped")
}
