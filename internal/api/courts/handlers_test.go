package courts

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

func setupCourtsTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)

	store = nil
	storeOnce = sync.Once{}
	InitHandlers(database)

	t.Cleanup(func() {
		store = nil
		storeOnce = sync.Once{}
	})

	return database
}

func asAdmin(req *http.Request) *http.Request {
	user := &authz.AuthUser{ID: 1, Role: authz.RoleAdmin}
	return req.WithContext(authz.ContextWithUser(req.Context(), user))
}

func asUser(req *http.Request) *http.Request {
	user := &authz.AuthUser{ID: 2, Role: authz.RoleUser}
	return req.WithContext(authz.ContextWithUser(req.Context(), user))
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) apiutil.Envelope {
	t.Helper()
	var envelope apiutil.Envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, recorder.Body.String())
	}
	return envelope
}

const validCourtBody = `{
	"name": "Center Court",
	"sport": "tennis",
	"location": "North Hall",
	"capacity": 4,
	"open_time": "08:00",
	"close_time": "22:00"
}`

func TestHandleCourtCreate(t *testing.T) {
	setupCourtsTest(t)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(validCourtBody)))
	recorder := httptest.NewRecorder()

	HandleCourtCreate(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d\n%s", recorder.Code, recorder.Body.String())
	}
	envelope := decodeEnvelope(t, recorder)
	if !envelope.Success {
		t.Fatalf("expected success envelope: %s", recorder.Body.String())
	}
	court, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("data shape: %T", envelope.Data)
	}
	if court["name"] != "Center Court" {
		t.Errorf("name: %v", court["name"])
	}
	if court["status"] != "ACTIVE" {
		t.Errorf("default status: %v", court["status"])
	}
}

func TestHandleCourtCreateValidation(t *testing.T) {
	setupCourtsTest(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"capacity": 4, "open_time": "08:00", "close_time": "22:00"}`},
		{"zero capacity", `{"name": "C", "capacity": 0, "open_time": "08:00", "close_time": "22:00"}`},
		{"capacity too large", `{"name": "C", "capacity": 101, "open_time": "08:00", "close_time": "22:00"}`},
		{"bad open time", `{"name": "C", "capacity": 4, "open_time": "8am", "close_time": "22:00"}`},
		{"close before open", `{"name": "C", "capacity": 4, "open_time": "22:00", "close_time": "08:00"}`},
		{"window too short", `{"name": "C", "capacity": 4, "open_time": "08:00", "close_time": "08:30"}`},
		{"unknown status", `{"name": "C", "capacity": 4, "open_time": "08:00", "close_time": "22:00", "status": "CLOSED"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(tc.body)))
			recorder := httptest.NewRecorder()

			HandleCourtCreate(recorder, req)

			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status: %d\n%s", recorder.Code, recorder.Body.String())
			}
			if envelope := decodeEnvelope(t, recorder); envelope.Success || envelope.Message == "" {
				t.Fatalf("expected failure envelope with message: %s", recorder.Body.String())
			}
		})
	}
}

func TestHandleCourtCreateAccessControl(t *testing.T) {
	setupCourtsTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(validCourtBody))
	recorder := httptest.NewRecorder()
	HandleCourtCreate(recorder, req)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status: %d", recorder.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(validCourtBody)))
	recorder = httptest.NewRecorder()
	HandleCourtCreate(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("non-admin status: %d", recorder.Code)
	}
}

func TestHandleCourtsListIsPublic(t *testing.T) {
	database := setupCourtsTest(t)
	testutil.SeedCourt(t, database, "Court A", 2)
	testutil.SeedCourt(t, database, "Court B", 2)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts", nil)
	recorder := httptest.NewRecorder()

	HandleCourtsList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	envelope := decodeEnvelope(t, recorder)
	courts, ok := envelope.Data.([]any)
	if !ok {
		t.Fatalf("data shape: %T", envelope.Data)
	}
	if len(courts) != 2 {
		t.Errorf("courts: %d", len(courts))
	}
}

func TestHandleCourtGet(t *testing.T) {
	database := setupCourtsTest(t)
	court := testutil.SeedCourt(t, database, "Court A", 2)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts/"+strconv.FormatInt(court.ID, 10), nil)
	req.SetPathValue(idParam, strconv.FormatInt(court.ID, 10))
	recorder := httptest.NewRecorder()

	HandleCourtGet(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/courts/9999", nil)
	req.SetPathValue(idParam, "9999")
	recorder = httptest.NewRecorder()

	HandleCourtGet(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("missing court status: %d", recorder.Code)
	}
}

func TestHandleCourtUpdate(t *testing.T) {
	database := setupCourtsTest(t)
	court := testutil.SeedCourt(t, database, "Court A", 2)

	body := `{
		"name": "Court A",
		"sport": "tennis",
		"location": "North Hall",
		"capacity": 2,
		"open_time": "08:00",
		"close_time": "22:00",
		"status": "INACTIVE"
	}`
	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/v1/courts/1", strings.NewReader(body)))
	req.SetPathValue(idParam, strconv.FormatInt(court.ID, 10))
	recorder := httptest.NewRecorder()

	HandleCourtUpdate(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d\n%s", recorder.Code, recorder.Body.String())
	}
	envelope := decodeEnvelope(t, recorder)
	updated, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("data shape: %T", envelope.Data)
	}
	if updated["status"] != "INACTIVE" {
		t.Errorf("status: %v", updated["status"])
	}
}

func TestHandleCourtDeleteCascades(t *testing.T) {
	database := setupCourtsTest(t)
	court := testutil.SeedCourt(t, database, "Court A", 2)
	user := testutil.SeedUser(t, database, "alice", "user")

	ctx := context.Background()
	res, err := database.Queries.CreateReservation(ctx, dbgen.CreateReservationParams{
		UserID:    user.ID,
		CourtID:   court.ID,
		Date:      "2025-06-11",
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    "ACTIVE",
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	delReq := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/v1/courts/1", nil))
	delReq.SetPathValue(idParam, strconv.FormatInt(court.ID, 10))
	recorder := httptest.NewRecorder()

	HandleCourtDelete(recorder, delReq)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d\n%s", recorder.Code, recorder.Body.String())
	}

	if _, err := database.Queries.GetReservation(ctx, res.ID); err == nil {
		t.Error("reservation should be removed with its court")
	}
	if _, err := database.Queries.GetCourt(ctx, court.ID); err == nil {
		t.Error("court should be removed")
	}
}

func TestHandleCourtDeleteMissing(t *testing.T) {
	setupCourtsTest(t)

	delReq := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/v1/courts/9999", nil))
	delReq.SetPathValue(idParam, "9999")
	recorder := httptest.NewRecorder()

	HandleCourtDelete(recorder, delReq)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status: %d", recorder.Code)
	}
}
