// internal/api/users/handlers.go
package users

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

var (
	queries       *dbgen.Queries
	defaultRegion string
	queriesOnce   sync.Once
)

const (
	userQueryTimeout = 5 * time.Second
	idParam          = "id"
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, phoneRegion string) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		defaultRegion = phoneRegion
	})
}

// Response is a user record with the password hash stripped.
type Response struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResponse converts a stored user into its API shape.
func NewResponse(user dbgen.User) Response {
	return Response{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Username:  user.Username,
		Phone:     user.Phone.String,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// GET /api/v1/users
func HandleUsersList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}

	if !apiutil.RequireAdmin(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), userQueryTimeout)
	defer cancel()

	rows, err := q.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list users")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	out := make([]Response, 0, len(rows))
	for _, user := range rows {
		out = append(out, NewResponse(user))
	}
	apiutil.WriteSuccess(w, http.StatusOK, out)
}

// GET /api/v1/users/{id}
func HandleUserGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}

	userID, err := userIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if !apiutil.RequireSelfOrAdmin(w, r, userID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), userQueryTimeout)
	defer cancel()

	user, err := q.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	apiutil.WriteSuccess(w, http.StatusOK, NewResponse(user))
}

type updateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// PUT /api/v1/users/{id}
func HandleUserUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}

	userID, err := userIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if !apiutil.RequireSelfOrAdmin(w, r, userID) {
		return
	}

	var req updateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), userQueryTimeout)
	defer cancel()

	existing, err := q.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	role := existing.Role
	if req.Role != "" && req.Role != existing.Role {
		// Role changes are an administrative action.
		if !authz.IsAdmin(authz.UserFromContext(r.Context())) {
			apiutil.WriteError(w, http.StatusForbidden, "Only administrators can change roles")
			return
		}
		if req.Role != authz.RoleAdmin && req.Role != authz.RoleUser {
			apiutil.WriteError(w, http.StatusBadRequest, "Unknown role")
			return
		}
		role = req.Role
	}

	name := existing.Name
	if req.Name != "" {
		name = req.Name
	}
	email := existing.Email
	if req.Email != "" {
		email = req.Email
	}
	username := existing.Username
	if req.Username != "" {
		username = req.Username
	}

	phone := existing.Phone
	if req.Phone != "" {
		normalized, err := NormalizePhone(req.Phone, defaultRegion)
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		phone = sql.NullString{String: normalized, Valid: true}
	}

	if email != existing.Email {
		if taken, err := emailTaken(ctx, q, email, userID); err != nil {
			logger.Error().Err(err).Msg("Failed to check email uniqueness")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update user")
			return
		} else if taken {
			apiutil.WriteError(w, http.StatusBadRequest, "A user with this email already exists")
			return
		}
	}
	if username != existing.Username {
		if taken, err := usernameTaken(ctx, q, username, userID); err != nil {
			logger.Error().Err(err).Msg("Failed to check username uniqueness")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update user")
			return
		} else if taken {
			apiutil.WriteError(w, http.StatusBadRequest, "A user with this username already exists")
			return
		}
	}

	updated, err := q.UpdateUser(ctx, dbgen.UpdateUserParams{
		Name:     name,
		Email:    email,
		Username: username,
		Phone:    phone,
		Role:     role,
		ID:       userID,
	})
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to update user")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	apiutil.WriteSuccess(w, http.StatusOK, NewResponse(updated))
}

// DELETE /api/v1/users/{id}
// Reservations owned by the user are removed in the same transaction via
// the foreign key cascade.
func HandleUserDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}

	if !apiutil.RequireAdmin(w, r) {
		return
	}

	userID, err := userIDFromRequest(r)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), userQueryTimeout)
	defer cancel()

	rows, err := q.DeleteUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to delete user")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if rows == 0 {
		apiutil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	apiutil.WriteSuccess(w, http.StatusOK, map[string]int64{"deleted": rows})
}

func emailTaken(ctx context.Context, q *dbgen.Queries, email string, selfID int64) (bool, error) {
	user, err := q.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return user.ID != selfID, nil
}

func usernameTaken(ctx context.Context, q *dbgen.Queries, username string, selfID int64) (bool, error) {
	user, err := q.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return user.ID != selfID, nil
}

func userIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue(idParam), 10, 64)
}

func loadQueries() *dbgen.Queries {
	return queries
}
