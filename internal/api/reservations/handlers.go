// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/booking"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

var (
	store     *appdb.DB
	engine    *booking.Service
	storeOnce sync.Once
)

const (
	reservationQueryTimeout = 10 * time.Second
	idParam                 = "id"
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, service *booking.Service) {
	if database == nil || service == nil {
		return
	}
	storeOnce.Do(func() {
		store = database
		engine = service
	})
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if store == nil || engine == nil {
		log.Ctx(r.Context()).Error().Msg("Reservation engine not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return false
	}
	return true
}

// POST /api/v1/reservations
func HandleReservationCreate(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	var req booking.Request
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Ownership is checked before admission so a forbidden caller learns
	// nothing about the window's validity.
	if !apiutil.RequireSelfOrAdmin(w, r, req.UserID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservation, err := engine.Admit(ctx, req)
	if err != nil {
		apiutil.WriteEngineError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("reservation_id", reservation.ID).
		Int64("court_id", reservation.CourtID).
		Int64("user_id", reservation.UserID).
		Msg("Reservation created")
	apiutil.WriteSuccess(w, http.StatusCreated, reservation)
}

// PUT /api/v1/reservations/{id}
func HandleReservationUpdate(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	id, err := reservationIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var req booking.Request
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ReservationID = id

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	existing, err := engine.Reservation(ctx, id)
	if err != nil {
		apiutil.WriteEngineError(w, r, err)
		return
	}
	if !apiutil.RequireSelfOrAdmin(w, r, existing.UserID) {
		return
	}
	// The window moves but never the owner.
	req.UserID = existing.UserID
	if req.CourtID == 0 {
		req.CourtID = existing.CourtID
	}

	reservation, err := engine.Admit(ctx, req)
	if err != nil {
		apiutil.WriteEngineError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("reservation_id", reservation.ID).
		Msg("Reservation updated")
	apiutil.WriteSuccess(w, http.StatusOK, reservation)
}

// GET /api/v1/reservations?user_id=N
//
// Admins see everything; everyone else only their own rows regardless of the
// filter they ask for.
func HandleReservationsList(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	if !apiutil.RequireAuthenticated(w, r) {
		return
	}
	caller := authz.UserFromContext(r.Context())

	var filterUserID int64
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, "Invalid user_id filter")
			return
		}
		filterUserID = id
	}
	if !authz.IsAdmin(caller) {
		filterUserID = caller.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	var (
		rows []dbgen.Reservation
		err  error
	)
	if filterUserID != 0 {
		rows, err = store.Queries.ListReservationsByUser(ctx, filterUserID)
	} else {
		rows, err = store.Queries.ListReservations(ctx)
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list reservations")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to list reservations")
		return
	}
	apiutil.WriteSuccess(w, http.StatusOK, rows)
}

// GET /api/v1/reservations/{id}
func HandleReservationGet(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	id, err := reservationIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	reservation, err := engine.Reservation(ctx, id)
	if err != nil {
		apiutil.WriteEngineError(w, r, err)
		return
	}
	if !apiutil.RequireSelfOrAdmin(w, r, reservation.UserID) {
		return
	}
	apiutil.WriteSuccess(w, http.StatusOK, reservation)
}

// DELETE /api/v1/reservations/{id}
//
// Deleting is cancelling: the row stays, marked CANCELLED, so it no longer
// consumes capacity but remains on the books.
func HandleReservationDelete(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	id, err := reservationIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	existing, err := engine.Reservation(ctx, id)
	if err != nil {
		apiutil.WriteEngineError(w, r, err)
		return
	}
	if !apiutil.RequireSelfOrAdmin(w, r, existing.UserID) {
		return
	}

	cancelled, err := engine.Cancel(ctx, id)
	if err != nil {
		apiutil.WriteEngineError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("reservation_id", cancelled.ID).
		Msg("Reservation cancelled")
	apiutil.WriteSuccess(w, http.StatusOK, cancelled)
}

// GET /api/v1/reservations/availability?court_id=N&date=YYYY-MM-DD&start_time=HH:MM&end_time=HH:MM
//
// Read-only: reports the slot count for a window without reserving anything.
// An optional exclude_reservation_id leaves that reservation out of the
// count, for previewing an edit.
func HandleAvailability(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	query := r.URL.Query()
	courtID, err := strconv.ParseInt(query.Get("court_id"), 10, 64)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid court_id")
		return
	}

	win, err := booking.ParseWindow(query.Get("date"), query.Get("start_time"), query.Get("end_time"))
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var excludeID int64
	if raw := query.Get("exclude_reservation_id"); raw != "" {
		excludeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, "Invalid exclude_reservation_id")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	availability, err := engine.CheckAvailability(ctx, courtID, win, excludeID)
	if err != nil {
		apiutil.WriteEngineError(w, r, err)
		return
	}
	apiutil.WriteSuccess(w, http.StatusOK, availability)
}

// POST /api/v1/reservations/sweep
//
// Manual trigger for the lifecycle sweep normally run on a schedule. Returns
// how many reservations were finished.
func HandleSweep(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	if !apiutil.RequireAdmin(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	finished, err := engine.SweepNow(ctx)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Manual sweep failed")
		apiutil.WriteError(w, http.StatusInternalServerError, "Sweep failed")
		return
	}

	log.Ctx(r.Context()).Info().Int("finished", finished).Msg("Manual sweep completed")
	apiutil.WriteSuccess(w, http.StatusOK, map[string]int{"finished": finished})
}

func reservationIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue(idParam), 10, 64)
}
