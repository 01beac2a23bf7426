package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/booking"
)

const sweepJobTimeout = 2 * time.Minute

// RegisterSweep registers the reservation lifecycle sweep: every tick it
// finishes ACTIVE reservations whose window has fully elapsed. Singleton mode
// keeps overlapping ticks from running two sweeps at once.
func (s *Service) RegisterSweep(engine *booking.Service, cronExpr string) error {
	if engine == nil {
		return fmt.Errorf("sweep job requires reservation engine")
	}

	jobName := "reservation_sweep"
	jobLogger := log.With().
		Str("component", "reservation_sweep_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := s.addCronJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		finished, err := engine.SweepNow(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Reservation sweep failed")
			return
		}
		if finished > 0 {
			jobLogger.Info().Int("finished", finished).Msg("Reservation sweep finished elapsed reservations")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add reservation sweep job: %w", err)
	}

	jobLogger.Info().Msg("Reservation sweep job registered")
	return nil
}
