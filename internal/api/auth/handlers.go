// internal/api/auth/handlers.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/api/users"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/ratelimit"
)

var (
	queries       *dbgen.Queries
	limiter       *ratelimit.Limiter
	defaultRegion string
	queriesOnce   sync.Once
)

const authQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, loginLimiter *ratelimit.Limiter, phoneRegion string) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		limiter = loginLimiter
		defaultRegion = phoneRegion
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// POST /api/v1/auth/register
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := queries
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}

	var req registerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	switch {
	case req.Name == "":
		apiutil.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	case req.Email == "":
		apiutil.WriteError(w, http.StatusBadRequest, "Email is required")
		return
	case req.Username == "":
		apiutil.WriteError(w, http.StatusBadRequest, "Username is required")
		return
	case req.Password == "":
		apiutil.WriteError(w, http.StatusBadRequest, "Password is required")
		return
	}

	role := authz.RoleUser
	if req.Role != "" && req.Role != authz.RoleUser {
		// Creating privileged accounts requires an administrator.
		if req.Role != authz.RoleAdmin {
			apiutil.WriteError(w, http.StatusBadRequest, "Unknown role")
			return
		}
		if !apiutil.RequireAdmin(w, r) {
			return
		}
		role = authz.RoleAdmin
	}

	phone, err := users.NormalizePhone(req.Phone, defaultRegion)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	if _, err := q.GetUserByEmail(ctx, req.Email); err == nil {
		apiutil.WriteError(w, http.StatusBadRequest, "A user with this email already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logger.Error().Err(err).Msg("Failed to check email uniqueness")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if _, err := q.GetUserByUsername(ctx, req.Username); err == nil {
		apiutil.WriteError(w, http.StatusBadRequest, "A user with this username already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logger.Error().Err(err).Msg("Failed to check username uniqueness")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	created, err := q.CreateUser(ctx, dbgen.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		Phone:        sql.NullString{String: phone, Valid: phone != ""},
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create user")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	logger.Info().Int64("user_id", created.ID).Msg("User registered")
	apiutil.WriteSuccess(w, http.StatusCreated, users.NewResponse(created))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      users.Response `json:"user"`
}

// POST /api/v1/auth/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := queries
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "Server not ready")
		return
	}

	var req loginRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	ip := ratelimit.ClientIP(r)
	if limiter != nil {
		if result := limiter.CheckLogin(req.Username, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(req.Username, ip, result.Reason)
			apiutil.WriteError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	user, err := q.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Error().Err(err).Msg("Failed to load user for login")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to log in")
			return
		}
		if limiter != nil {
			limiter.RecordFailure(req.Username, ip)
		}
		// Same message as a bad password so usernames cannot be probed.
		apiutil.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if !VerifyPassword(user.PasswordHash, req.Password) {
		if limiter != nil {
			limiter.RecordFailure(req.Username, ip)
		}
		apiutil.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if limiter != nil {
		limiter.RecordSuccess(req.Username)
	}

	token, expiresAt, err := CreateSession(user.ID, user.Role)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create session")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	logger.Info().Int64("user_id", user.ID).Msg("User logged in")
	apiutil.WriteSuccess(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      users.NewResponse(user),
	})
}

// POST /api/v1/auth/logout
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := TokenFromRequest(r); token != "" {
		DeleteSession(token)
	}
	apiutil.WriteSuccess(w, http.StatusOK, nil)
}
