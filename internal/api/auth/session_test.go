package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func setupSessionTest(t *testing.T) {
	t.Helper()
	ResetSessionsForTest()
	ConfigureSessions(time.Hour)
	t.Cleanup(ResetSessionsForTest)
}

func requestWithBearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	setupSessionTest(t)

	token, expiresAt, err := CreateSession(42, "user")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiry in the past: %v", expiresAt)
	}

	user, err := UserFromRequest(requestWithBearer(token))
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if user == nil || user.ID != 42 || user.Role != "user" {
		t.Fatalf("resolved user: %+v", user)
	}
}

func TestSessionMissingOrUnknownToken(t *testing.T) {
	setupSessionTest(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	user, err := UserFromRequest(req)
	if err != nil || user != nil {
		t.Fatalf("no header: user %+v err %v", user, err)
	}

	user, err = UserFromRequest(requestWithBearer("bogus"))
	if err != nil || user != nil {
		t.Fatalf("unknown token: user %+v err %v", user, err)
	}
}

func TestSessionDelete(t *testing.T) {
	setupSessionTest(t)

	token, _, err := CreateSession(42, "user")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	DeleteSession(token)

	user, err := UserFromRequest(requestWithBearer(token))
	if err != nil || user != nil {
		t.Fatalf("deleted session resolved: user %+v err %v", user, err)
	}
}

func TestSessionReplacesExistingForUser(t *testing.T) {
	setupSessionTest(t)

	first, _, err := CreateSession(42, "user")
	if err != nil {
		t.Fatalf("first session: %v", err)
	}
	second, _, err := CreateSession(42, "user")
	if err != nil {
		t.Fatalf("second session: %v", err)
	}

	if user, _ := UserFromRequest(requestWithBearer(first)); user != nil {
		t.Fatal("first session should be invalidated by second login")
	}
	if user, _ := UserFromRequest(requestWithBearer(second)); user == nil {
		t.Fatal("second session should resolve")
	}
}

func TestSessionExpiry(t *testing.T) {
	setupSessionTest(t)

	token, _, err := CreateSession(42, "user")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Backdate the stored record so the token is already expired.
	sessionMu.Lock()
	record := sessionStore[token]
	record.ExpiresAt = time.Now().Add(-time.Minute)
	sessionStore[token] = record
	sessionMu.Unlock()

	user, err := UserFromRequest(requestWithBearer(token))
	if err != nil || user != nil {
		t.Fatalf("expired session resolved: user %+v err %v", user, err)
	}

	if _, ok := sessionStore[token]; ok {
		t.Fatal("expired session should be removed on access")
	}
}
