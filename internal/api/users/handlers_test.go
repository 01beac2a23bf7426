package users

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/testutil"
)

func setupUsersTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)

	queries = nil
	queriesOnce = sync.Once{}
	InitHandlers(database, "US")

	t.Cleanup(func() {
		queries = nil
		queriesOnce = sync.Once{}
	})

	return database
}

func withUser(req *http.Request, user dbgen.User) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: user.ID, Role: user.Role}))
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) apiutil.Envelope {
	t.Helper()
	var envelope apiutil.Envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, recorder.Body.String())
	}
	return envelope
}

func TestHandleUsersListAdminOnly(t *testing.T) {
	database := setupUsersTest(t)
	alice := testutil.SeedUser(t, database, "alice", "user")
	admin := testutil.SeedUser(t, database, "root", "admin")

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), alice)
	recorder := httptest.NewRecorder()
	HandleUsersList(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("non-admin status: %d", recorder.Code)
	}

	req = withUser(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), admin)
	recorder = httptest.NewRecorder()
	HandleUsersList(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("admin status: %d", recorder.Code)
	}

	rows, ok := decodeEnvelope(t, recorder).Data.([]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 users, got %d", len(rows))
	}
	// Password hashes never leave the server.
	if strings.Contains(recorder.Body.String(), "password") {
		t.Error("response leaks password material")
	}
}

func TestHandleUserGet(t *testing.T) {
	database := setupUsersTest(t)
	alice := testutil.SeedUser(t, database, "alice", "user")
	bob := testutil.SeedUser(t, database, "bob", "user")

	id := strconv.FormatInt(alice.ID, 10)

	// Owner fetches their own record.
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+id, nil), alice)
	req.SetPathValue(idParam, id)
	recorder := httptest.NewRecorder()
	HandleUserGet(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("owner status: %d", recorder.Code)
	}
	data, _ := decodeEnvelope(t, recorder).Data.(map[string]any)
	if data["username"] != "alice" {
		t.Errorf("username: %v", data["username"])
	}

	// A stranger may not.
	req = withUser(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+id, nil), bob)
	req.SetPathValue(idParam, id)
	recorder = httptest.NewRecorder()
	HandleUserGet(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("stranger status: %d", recorder.Code)
	}
}

func TestHandleUserUpdate(t *testing.T) {
	database := setupUsersTest(t)
	alice := testutil.SeedUser(t, database, "alice", "user")
	id := strconv.FormatInt(alice.ID, 10)

	body := `{"name": "Alice Updated", "phone": "(415) 555-2671"}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/users/"+id, strings.NewReader(body)), alice)
	req.SetPathValue(idParam, id)
	recorder := httptest.NewRecorder()

	HandleUserUpdate(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d\n%s", recorder.Code, recorder.Body.String())
	}
	data, _ := decodeEnvelope(t, recorder).Data.(map[string]any)
	if data["name"] != "Alice Updated" {
		t.Errorf("name: %v", data["name"])
	}
	if data["phone"] != "+14155552671" {
		t.Errorf("phone not normalized: %v", data["phone"])
	}
}

func TestHandleUserUpdateRoleEscalationBlocked(t *testing.T) {
	database := setupUsersTest(t)
	alice := testutil.SeedUser(t, database, "alice", "user")
	admin := testutil.SeedUser(t, database, "root", "admin")
	id := strconv.FormatInt(alice.ID, 10)

	body := `{"role": "admin"}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/users/"+id, strings.NewReader(body)), alice)
	req.SetPathValue(idParam, id)
	recorder := httptest.NewRecorder()
	HandleUserUpdate(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("self-promotion status: %d\n%s", recorder.Code, recorder.Body.String())
	}

	// An admin may promote.
	req = withUser(httptest.NewRequest(http.MethodPut, "/api/v1/users/"+id, strings.NewReader(body)), admin)
	req.SetPathValue(idParam, id)
	recorder = httptest.NewRecorder()
	HandleUserUpdate(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("admin promotion status: %d\n%s", recorder.Code, recorder.Body.String())
	}
	data, _ := decodeEnvelope(t, recorder).Data.(map[string]any)
	if data["role"] != "admin" {
		t.Errorf("role: %v", data["role"])
	}
}

func TestHandleUserUpdateDuplicateEmail(t *testing.T) {
	database := setupUsersTest(t)
	alice := testutil.SeedUser(t, database, "alice", "user")
	testutil.SeedUser(t, database, "bob", "user")
	id := strconv.FormatInt(alice.ID, 10)

	body := `{"email": "bob@example.com"}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/users/"+id, strings.NewReader(body)), alice)
	req.SetPathValue(idParam, id)
	recorder := httptest.NewRecorder()

	HandleUserUpdate(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d\n%s", recorder.Code, recorder.Body.String())
	}
}

func TestHandleUserDelete(t *testing.T) {
	database := setupUsersTest(t)
	alice := testutil.SeedUser(t, database, "alice", "user")
	admin := testutil.SeedUser(t, database, "root", "admin")
	court := testutil.SeedCourt(t, database, "Court A", 2)

	ctx := context.Background()
	res, err := database.Queries.CreateReservation(ctx, dbgen.CreateReservationParams{
		UserID:    alice.ID,
		CourtID:   court.ID,
		Date:      "2025-06-11",
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    "ACTIVE",
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	id := strconv.FormatInt(alice.ID, 10)
	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+id, nil), admin)
	req.SetPathValue(idParam, id)
	recorder := httptest.NewRecorder()

	HandleUserDelete(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d\n%s", recorder.Code, recorder.Body.String())
	}

	// The foreign key cascade removed the user's reservations.
	if _, err := database.Queries.GetReservation(ctx, res.ID); err == nil {
		t.Error("reservation should be removed with its owner")
	}

	// Deleting again reports not found.
	recorder = httptest.NewRecorder()
	req = withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+id, nil), admin)
	req.SetPathValue(idParam, id)
	HandleUserDelete(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("second delete status: %d", recorder.Code)
	}
}
