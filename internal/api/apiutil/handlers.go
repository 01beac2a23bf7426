package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/booking"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteSuccess writes the success envelope around data.
func WriteSuccess(w http.ResponseWriter, status int, data any) error {
	return WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteError writes the failure envelope with a human-readable reason.
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// WriteEngineError maps a reservation engine error onto the envelope.
// Validation and capacity rejections keep their specific reason; anything
// unrecognized is a store failure and surfaces as a retryable server error.
func WriteEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *booking.ValidationError
		capacityErr   *booking.CapacityError
		notFoundErr   *booking.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, validationErr.Reason)
	case errors.As(err, &capacityErr):
		WriteError(w, http.StatusConflict, capacityErr.Error())
	case errors.As(err, &notFoundErr):
		WriteError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, booking.ErrConflict):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Reservation store failure")
		WriteError(w, http.StatusInternalServerError, "A storage error occurred, please retry")
	}
}

// RequireAdmin enforces administrator access, writing the envelope rejection
// itself. Returns false when the caller may not proceed.
func RequireAdmin(w http.ResponseWriter, r *http.Request) bool {
	return requireAuthz(w, r, authz.RequireAdmin(r.Context()))
}

// RequireSelfOrAdmin enforces ownership of userID (or admin), writing the
// envelope rejection itself. Returns false when the caller may not proceed.
func RequireSelfOrAdmin(w http.ResponseWriter, r *http.Request, userID int64) bool {
	return requireAuthz(w, r, authz.RequireSelfOrAdmin(r.Context(), userID))
}

// RequireAuthenticated enforces any logged-in caller, writing the envelope
// rejection itself. Returns false when the caller may not proceed.
func RequireAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	return requireAuthz(w, r, authz.RequireAuthenticated(r.Context()))
}

func requireAuthz(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return true
	}
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		logger.Warn().Msg("Access denied: unauthenticated")
		WriteError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, authz.ErrForbidden):
		logEvent := logger.Warn()
		if user != nil {
			logEvent = logEvent.Int64("user_id", user.ID)
		}
		logEvent.Msg("Access denied: forbidden")
		WriteError(w, http.StatusForbidden, "Forbidden")
	default:
		logger.Error().Err(err).Msg("Access denied: error")
		WriteError(w, http.StatusInternalServerError, "Failed to authorize request")
	}
	return false
}
