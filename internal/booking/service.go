package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

const (
	maxReservationMinutes = 120
	minReservationMinutes = 30
	minLeadTime           = 30 * time.Minute

	// A user may hold at most this many reservation minutes on one court
	// per day, counting ACTIVE and FINISHED but not CANCELLED windows.
	maxDailyMinutesPerCourt = 120
)

// Request is an admission request for creating or editing a reservation.
// ReservationID is zero on create.
type Request struct {
	ReservationID int64  `json:"-"`
	UserID        int64  `json:"user_id"`
	CourtID       int64  `json:"court_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// Service is the reservation engine: admission control, availability
// evaluation, cancellation and the lifecycle sweep over one store.
type Service struct {
	store *appdb.DB
	clock Clock
	loc   *time.Location
	locks *courtLocks
}

// NewService builds a Service over store. A nil clock uses system time.
func NewService(store *appdb.DB, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{
		store: store,
		clock: clock,
		loc:   time.Local,
		locks: newCourtLocks(),
	}
}

// Admit validates req in order, short-circuiting on the first failure, and
// commits the reservation if every check passes. The re-read of overlapping
// reservations and the insert/update happen under the court's commit lock
// inside one transaction, so two concurrent requests cannot both consume the
// last slot. On failure the store is untouched.
func (s *Service) Admit(ctx context.Context, req Request) (dbgen.Reservation, error) {
	win, err := s.validateWindow(req)
	if err != nil {
		return dbgen.Reservation{}, err
	}

	q := s.store.Queries

	if _, err := q.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Reservation{}, &NotFoundError{Resource: "user", ID: req.UserID}
		}
		return dbgen.Reservation{}, fmt.Errorf("load user: %w", err)
	}

	court, err := q.GetCourt(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Reservation{}, &NotFoundError{Resource: "court", ID: req.CourtID}
		}
		return dbgen.Reservation{}, fmt.Errorf("load court: %w", err)
	}

	if req.ReservationID != 0 {
		if err := s.validateEditable(ctx, req.ReservationID); err != nil {
			return dbgen.Reservation{}, err
		}
	}

	if err := validateOperatingHours(court, win); err != nil {
		return dbgen.Reservation{}, err
	}
	if court.Status != CourtStatusActive {
		return dbgen.Reservation{}, validationf("court %q is not active", court.Name)
	}
	if err := s.validateDailyQuota(ctx, req, win); err != nil {
		return dbgen.Reservation{}, err
	}

	// Optimistic availability check; the commit path re-reads under the
	// court lock and reports ErrConflict if the slot disappeared meanwhile.
	active, err := q.ListActiveReservationsByCourtDate(ctx, dbgen.ListActiveReservationsByCourtDateParams{
		CourtID: req.CourtID,
		Date:    win.Date,
	})
	if err != nil {
		return dbgen.Reservation{}, fmt.Errorf("check availability: %w", err)
	}
	if avail := Evaluate(court, win, active, req.ReservationID); !avail.Admissible {
		return dbgen.Reservation{}, &CapacityError{Availability: avail}
	}

	return s.commit(ctx, req, court, win)
}

func (s *Service) commit(ctx context.Context, req Request, court dbgen.Court, win Window) (dbgen.Reservation, error) {
	unlock := s.locks.Lock(req.CourtID)
	defer unlock()

	var out dbgen.Reservation
	err := s.store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		active, err := qtx.ListActiveReservationsByCourtDate(ctx, dbgen.ListActiveReservationsByCourtDateParams{
			CourtID: req.CourtID,
			Date:    win.Date,
		})
		if err != nil {
			return fmt.Errorf("recheck availability: %w", err)
		}
		if avail := Evaluate(court, win, active, req.ReservationID); !avail.Admissible {
			return ErrConflict
		}

		if req.ReservationID == 0 {
			out, err = qtx.CreateReservation(ctx, dbgen.CreateReservationParams{
				UserID:    req.UserID,
				CourtID:   req.CourtID,
				Date:      win.Date,
				StartTime: FormatClock(win.Start),
				EndTime:   FormatClock(win.End),
				Status:    ReservationStatusActive,
			})
			if err != nil {
				return fmt.Errorf("create reservation: %w", err)
			}
			return nil
		}

		current, err := qtx.GetReservation(ctx, req.ReservationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Resource: "reservation", ID: req.ReservationID}
			}
			return fmt.Errorf("load reservation: %w", err)
		}
		if current.Status != ReservationStatusActive {
			// A concurrent cancel or sweep won; the edit must not revive
			// a terminal reservation.
			return ErrConflict
		}

		out, err = qtx.UpdateReservationWindow(ctx, dbgen.UpdateReservationWindowParams{
			UserID:    req.UserID,
			CourtID:   req.CourtID,
			Date:      win.Date,
			StartTime: FormatClock(win.Start),
			EndTime:   FormatClock(win.End),
			ID:        req.ReservationID,
		})
		if err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return dbgen.Reservation{}, err
	}
	return out, nil
}

// validateWindow runs the checks that need no store access: field presence,
// format, past-date, same-day lead time, ordering and duration bounds.
func (s *Service) validateWindow(req Request) (Window, error) {
	switch {
	case req.UserID == 0:
		return Window{}, validationf("user_id is required")
	case req.CourtID == 0:
		return Window{}, validationf("court_id is required")
	case req.Date == "":
		return Window{}, validationf("date is required")
	case req.StartTime == "":
		return Window{}, validationf("start_time is required")
	case req.EndTime == "":
		return Window{}, validationf("end_time is required")
	}

	win, err := ParseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return Window{}, &ValidationError{Reason: err.Error()}
	}

	now := s.clock.Now().In(s.loc)
	today := now.Format(dateLayout)
	if win.Date < today {
		return Window{}, validationf("reservations cannot be made for past dates")
	}
	if win.Date == today {
		earliest := now.Add(minLeadTime)
		if win.StartInstant(s.loc).Before(earliest) {
			return Window{}, validationf("same-day reservations must start at least 30 minutes from now (earliest %s)",
				earliest.Format(clockLayout))
		}
	}
	if win.Start >= win.End {
		return Window{}, validationf("start time must be before end time")
	}
	if win.Duration() > maxReservationMinutes {
		return Window{}, validationf("reservations cannot exceed 2 hours")
	}
	if win.Duration() < minReservationMinutes {
		return Window{}, validationf("reservations must last at least 30 minutes")
	}

	return win, nil
}

// validateEditable rejects edits of missing, terminal or already-started
// reservations.
func (s *Service) validateEditable(ctx context.Context, id int64) error {
	current, err := s.store.Queries.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Resource: "reservation", ID: id}
		}
		return fmt.Errorf("load reservation: %w", err)
	}
	if current.Status != ReservationStatusActive {
		return validationf("only active reservations can be modified")
	}
	existing, err := ParseWindow(current.Date, current.StartTime, current.EndTime)
	if err != nil {
		return fmt.Errorf("stored reservation window: %w", err)
	}
	if existing.StartInstant(s.loc).Before(s.clock.Now().In(s.loc)) {
		return validationf("reservations that have already started cannot be modified")
	}
	return nil
}

// validateOperatingHours requires the window to sit inside the court's
// business hours. Touching closeTime exactly is allowed.
func validateOperatingHours(court dbgen.Court, win Window) error {
	open, err := ParseClock(court.OpenTime)
	if err != nil {
		return fmt.Errorf("court open time: %w", err)
	}
	close, err := ParseClock(court.CloseTime)
	if err != nil {
		return fmt.Errorf("court close time: %w", err)
	}
	if win.Start < open || win.End > close {
		return validationf("reservation is outside court operating hours (%s - %s)",
			court.OpenTime, court.CloseTime)
	}
	return nil
}

// validateDailyQuota enforces the per-user limit of two reservation hours on
// one court per day, excluding the reservation being edited.
func (s *Service) validateDailyQuota(ctx context.Context, req Request, win Window) error {
	rows, err := s.store.Queries.ListUserReservationsForCourtDate(ctx, dbgen.ListUserReservationsForCourtDateParams{
		UserID:  req.UserID,
		CourtID: req.CourtID,
		Date:    win.Date,
	})
	if err != nil {
		return fmt.Errorf("check daily quota: %w", err)
	}

	total := win.Duration()
	for _, res := range rows {
		if req.ReservationID != 0 && res.ID == req.ReservationID {
			continue
		}
		existing, err := ParseWindow(res.Date, res.StartTime, res.EndTime)
		if err != nil {
			continue
		}
		total += existing.Duration()
	}
	if total > maxDailyMinutesPerCourt {
		return validationf("daily limit exceeded: at most 2 booked hours per court per day (requested total %dh %02dm)",
			total/60, total%60)
	}
	return nil
}

// CheckAvailability evaluates a window against the current reservation set.
// Unknown and inactive courts are rejected outright rather than reported as
// zero-slot availability. It runs unsynchronized: results are live feedback
// and may be stale by the time a commit is attempted.
func (s *Service) CheckAvailability(ctx context.Context, courtID int64, win Window, excludeID int64) (Availability, error) {
	court, err := s.store.Queries.GetCourt(ctx, courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Availability{}, &NotFoundError{Resource: "court", ID: courtID}
		}
		return Availability{}, fmt.Errorf("load court: %w", err)
	}
	if court.Status != CourtStatusActive {
		return Availability{}, validationf("court %q is not active", court.Name)
	}

	active, err := s.store.Queries.ListActiveReservationsByCourtDate(ctx, dbgen.ListActiveReservationsByCourtDateParams{
		CourtID: courtID,
		Date:    win.Date,
	})
	if err != nil {
		return Availability{}, fmt.Errorf("list reservations: %w", err)
	}

	return Evaluate(court, win, active, excludeID), nil
}

// Cancel transitions an ACTIVE reservation to CANCELLED. The status-guarded
// update makes the transition race-safe against a concurrent sweep: whoever
// moves the row out of ACTIVE first wins, the loser gets ErrConflict.
func (s *Service) Cancel(ctx context.Context, id int64) (dbgen.Reservation, error) {
	res, err := s.store.Queries.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Reservation{}, &NotFoundError{Resource: "reservation", ID: id}
		}
		return dbgen.Reservation{}, fmt.Errorf("load reservation: %w", err)
	}
	if res.Status != ReservationStatusActive {
		return dbgen.Reservation{}, validationf("only active reservations can be cancelled")
	}

	rows, err := s.store.Queries.CancelReservation(ctx, id)
	if err != nil {
		return dbgen.Reservation{}, fmt.Errorf("cancel reservation: %w", err)
	}
	if rows == 0 {
		return dbgen.Reservation{}, ErrConflict
	}

	res.Status = ReservationStatusCancelled
	return res, nil
}

// Reservation returns one reservation by id.
func (s *Service) Reservation(ctx context.Context, id int64) (dbgen.Reservation, error) {
	res, err := s.store.Queries.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Reservation{}, &NotFoundError{Resource: "reservation", ID: id}
		}
		return dbgen.Reservation{}, fmt.Errorf("load reservation: %w", err)
	}
	return res, nil
}
