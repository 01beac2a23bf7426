package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweep transitions every ACTIVE reservation whose window ended strictly
// before now to FINISHED and returns the number of rows transitioned.
//
// Each transition is a status-guarded update, so running the sweep twice
// with the same or a later now is a no-op the second time, and a concurrent
// cancel of the same reservation cannot be overwritten. A failure on one
// reservation is logged and skipped; it never aborts the rest of the pass.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	logger := log.Ctx(ctx)

	active, err := s.store.Queries.ListActiveReservations(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active reservations: %w", err)
	}

	count := 0
	for _, res := range active {
		win, err := ParseWindow(res.Date, res.StartTime, res.EndTime)
		if err != nil {
			logger.Error().Err(err).Int64("reservation_id", res.ID).Msg("Skipping reservation with malformed window")
			continue
		}
		if !win.EndInstant(s.loc).Before(now) {
			continue
		}

		rows, err := s.store.Queries.FinishReservation(ctx, res.ID)
		if err != nil {
			logger.Error().Err(err).Int64("reservation_id", res.ID).Msg("Failed to finish expired reservation")
			continue
		}
		if rows > 0 {
			logger.Debug().Int64("reservation_id", res.ID).Msg("Reservation finished")
			count++
		}
	}

	return count, nil
}

// SweepNow runs one sweep pass at the service clock's current time.
func (s *Service) SweepNow(ctx context.Context) (int, error) {
	return s.Sweep(ctx, s.clock.Now().In(s.loc))
}
