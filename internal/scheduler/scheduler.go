package scheduler

import (
	"context"

	"logreader-backend/config"
	"logreader-backend/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

func newCron() *cron.Cron {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	return cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
}

// AddCollapseJob registers the collapse job on c. An empty schedule adds nothing.
func AddCollapseJob(c *cron.Cron, schedule string, logReaderSvc service.LogReaderService) (bool, error) {
	if schedule == "" {
		return false, nil
	}
	_, err := c.AddFunc(schedule, func() {
		collapsed, err := logReaderSvc.Collapse(context.Background(), "")
		if err != nil {
			log.Error().Err(err).Msg("Error during scheduled collapse")
			return
		}
		log.Info().Int("collapsed", len(collapsed)).Msg("Scheduled collapse finished")
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func NewScheduler(lc fx.Lifecycle, cfg *config.Config, logReaderSvc service.LogReaderService) (*cron.Cron, error) {
	c := newCron()

	schedule := cfg.LogReader.CollapseSchedule
	added, err := AddCollapseJob(c, schedule, logReaderSvc)
	if err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil, err
	}
	if !added {
		log.Info().Msg("Collapse schedule not configured, scheduler idle")
		return c, nil
	}
	log.Info().Str("schedule", schedule).Msg("Scheduled collapse job")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c, nil
}
