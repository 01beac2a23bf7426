// internal/api/courts/handlers.go
package courts

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/booking"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

var (
	store     *appdb.DB
	storeOnce sync.Once
)

const (
	courtQueryTimeout = 5 * time.Second
	idParam           = "id"

	minCapacity        = 1
	maxCapacity        = 100
	minOperatingWindow = 60 // minutes between open and close
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	storeOnce.Do(func() {
		store = database
	})
}

type courtRequest struct {
	Name      string `json:"name"`
	Sport     string `json:"sport"`
	Location  string `json:"location"`
	Capacity  int64  `json:"capacity"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	Status    string `json:"status"`
}

// validate normalizes the payload and returns a user-facing reason when the
// court definition is unusable.
func (req *courtRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Sport = strings.TrimSpace(req.Sport)
	req.Location = strings.TrimSpace(req.Location)

	if req.Name == "" {
		return "Name is required"
	}
	if req.Capacity < minCapacity || req.Capacity > maxCapacity {
		return "Capacity must be between 1 and 100"
	}

	open, err := booking.ParseClock(req.OpenTime)
	if err != nil {
		return "Open time must be in HH:MM format"
	}
	closeAt, err := booking.ParseClock(req.CloseTime)
	if err != nil {
		return "Close time must be in HH:MM format"
	}
	if closeAt <= open {
		return "Close time must be after open time"
	}
	if closeAt-open < minOperatingWindow {
		return "Operating hours must span at least one hour"
	}

	if req.Status == "" {
		req.Status = booking.CourtStatusActive
	}
	if req.Status != booking.CourtStatusActive && req.Status != booking.CourtStatusInactive {
		return "Status must be ACTIVE or INACTIVE"
	}
	return ""
}

// GET /api/v1/courts
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := store
	if db == nil {
		logger.Error().Msg("Court store not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	courts, err := db.Queries.ListCourts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list courts")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to list courts")
		return
	}
	apiutil.WriteSuccess(w, http.StatusOK, courts)
}

// GET /api/v1/courts/{id}
func HandleCourtGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := store
	if db == nil {
		logger.Error().Msg("Court store not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}

	id, err := courtIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid court ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	court, err := db.Queries.GetCourt(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Court not found")
			return
		}
		logger.Error().Err(err).Int64("court_id", id).Msg("Failed to load court")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load court")
		return
	}
	apiutil.WriteSuccess(w, http.StatusOK, court)
}

// POST /api/v1/courts
func HandleCourtCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := store
	if db == nil {
		logger.Error().Msg("Court store not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}
	if !apiutil.RequireAdmin(w, r) {
		return
	}

	var req courtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reason := req.validate(); reason != "" {
		apiutil.WriteError(w, http.StatusBadRequest, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	court, err := db.Queries.CreateCourt(ctx, dbgen.CreateCourtParams{
		Name:      req.Name,
		Sport:     req.Sport,
		Location:  req.Location,
		Capacity:  req.Capacity,
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
		Status:    req.Status,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create court")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create court")
		return
	}

	logger.Info().Int64("court_id", court.ID).Str("name", court.Name).Msg("Court created")
	apiutil.WriteSuccess(w, http.StatusCreated, court)
}

// PUT /api/v1/courts/{id}
func HandleCourtUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := store
	if db == nil {
		logger.Error().Msg("Court store not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}
	if !apiutil.RequireAdmin(w, r) {
		return
	}

	id, err := courtIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid court ID")
		return
	}

	var req courtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reason := req.validate(); reason != "" {
		apiutil.WriteError(w, http.StatusBadRequest, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	if _, err := db.Queries.GetCourt(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Court not found")
			return
		}
		logger.Error().Err(err).Int64("court_id", id).Msg("Failed to load court")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update court")
		return
	}

	court, err := db.Queries.UpdateCourt(ctx, dbgen.UpdateCourtParams{
		Name:      req.Name,
		Sport:     req.Sport,
		Location:  req.Location,
		Capacity:  req.Capacity,
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
		Status:    req.Status,
		ID:        id,
	})
	if err != nil {
		logger.Error().Err(err).Int64("court_id", id).Msg("Failed to update court")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update court")
		return
	}

	logger.Info().Int64("court_id", court.ID).Str("status", court.Status).Msg("Court updated")
	apiutil.WriteSuccess(w, http.StatusOK, court)
}

// DELETE /api/v1/courts/{id}
//
// Removing a court also removes every reservation that references it. Both
// deletes run in one transaction so a failure leaves the court intact.
func HandleCourtDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := store
	if db == nil {
		logger.Error().Msg("Court store not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}
	if !apiutil.RequireAdmin(w, r) {
		return
	}

	id, err := courtIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid court ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtQueryTimeout)
	defer cancel()

	var removed int64
	err = db.RunInTx(ctx, func(tx *appdb.DB) error {
		if _, err := tx.Queries.DeleteReservationsByCourt(ctx, id); err != nil {
			return err
		}
		rows, err := tx.Queries.DeleteCourt(ctx, id)
		if err != nil {
			return err
		}
		removed = rows
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("court_id", id).Msg("Failed to delete court")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to delete court")
		return
	}
	if removed == 0 {
		apiutil.WriteError(w, http.StatusNotFound, "Court not found")
		return
	}

	logger.Info().Int64("court_id", id).Msg("Court deleted")
	apiutil.WriteSuccess(w, http.StatusOK, nil)
}

func courtIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue(idParam), 10, 64)
}
