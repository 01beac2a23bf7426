package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/courtbook/courtbook/internal/api/authz"
)

const (
	defaultSessionTTL      = 8 * time.Hour
	sessionTokenBytes      = 32
	sessionCleanupInterval = 15 * time.Minute
)

type sessionRecord struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

var (
	sessionMu sync.RWMutex
	// In-memory sessions are intentionally ephemeral: a restart logs
	// everyone out, which is acceptable for a single-node deployment.
	sessionStore       = make(map[string]sessionRecord)
	sessionTTL         = defaultSessionTTL
	sessionCleanupOnce sync.Once
)

// ConfigureSessions sets the session lifetime. Zero keeps the default.
func ConfigureSessions(ttl time.Duration) {
	if ttl > 0 {
		sessionMu.Lock()
		sessionTTL = ttl
		sessionMu.Unlock()
	}
}

// CreateSession issues a bearer token for the given user, replacing any
// session the user already holds.
func CreateSession(userID int64, role string) (string, time.Time, error) {
	startSessionCleanup()

	token, err := newSessionToken()
	if err != nil {
		return "", time.Time{}, err
	}

	sessionMu.Lock()
	for existing, record := range sessionStore {
		if record.UserID == userID {
			delete(sessionStore, existing)
		}
	}
	expiresAt := time.Now().Add(sessionTTL)
	sessionStore[token] = sessionRecord{
		UserID:    userID,
		Role:      role,
		ExpiresAt: expiresAt,
	}
	sessionMu.Unlock()

	return token, expiresAt, nil
}

// DeleteSession revokes a bearer token. Unknown tokens are a no-op.
func DeleteSession(token string) {
	sessionMu.Lock()
	delete(sessionStore, token)
	sessionMu.Unlock()
}

// UserFromRequest resolves the caller from the Authorization header. A
// missing or unknown token yields (nil, nil): the request is simply
// unauthenticated.
func UserFromRequest(r *http.Request) (*authz.AuthUser, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, nil
	}

	sessionMu.RLock()
	record, ok := sessionStore[token]
	sessionMu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(record.ExpiresAt) {
		DeleteSession(token)
		return nil, nil
	}

	return &authz.AuthUser{ID: record.UserID, Role: record.Role}, nil
}

// TokenFromRequest returns the raw bearer token, if any.
func TokenFromRequest(r *http.Request) string {
	return bearerToken(r)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New("failed to generate session token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func startSessionCleanup() {
	sessionCleanupOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(sessionCleanupInterval)
			defer ticker.Stop()
			for range ticker.C {
				now := time.Now()
				sessionMu.Lock()
				for token, record := range sessionStore {
					if now.After(record.ExpiresAt) {
						delete(sessionStore, token)
					}
				}
				sessionMu.Unlock()
			}
		}()
	})
}

// ResetSessionsForTest clears all sessions. Test helper only.
func ResetSessionsForTest() {
	sessionMu.Lock()
	sessionStore = make(map[string]sessionRecord)
	sessionMu.Unlock()
}
