package booking

import (
	"testing"

	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

func activeRes(id int64, date, start, end string) dbgen.Reservation {
	return dbgen.Reservation{
		ID:        id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    ReservationStatusActive,
	}
}

func TestEvaluateCountsOverlaps(t *testing.T) {
	court := dbgen.Court{ID: 1, Capacity: 2, Status: CourtStatusActive}
	win := Window{Date: "2025-06-10", Start: 600, End: 660}

	active := []dbgen.Reservation{
		activeRes(1, "2025-06-10", "10:00", "11:00"),
		activeRes(2, "2025-06-10", "09:00", "10:00"), // adjacent, no overlap
	}

	avail := Evaluate(court, win, active, 0)
	if avail.ActiveOverlapCount != 1 {
		t.Errorf("overlap count: %d", avail.ActiveOverlapCount)
	}
	if avail.SlotsAvailable != 1 {
		t.Errorf("slots: %d", avail.SlotsAvailable)
	}
	if !avail.Admissible {
		t.Error("expected admissible with one free slot")
	}
}

func TestEvaluateFullCourt(t *testing.T) {
	court := dbgen.Court{ID: 1, Capacity: 2, Status: CourtStatusActive}
	win := Window{Date: "2025-06-10", Start: 600, End: 660}

	active := []dbgen.Reservation{
		activeRes(1, "2025-06-10", "10:00", "11:00"),
		activeRes(2, "2025-06-10", "10:30", "11:30"),
	}

	avail := Evaluate(court, win, active, 0)
	if avail.Admissible {
		t.Error("expected full court to be inadmissible")
	}
	if avail.SlotsAvailable != 0 {
		t.Errorf("slots: %d", avail.SlotsAvailable)
	}
}

func TestEvaluateExcludesOwnReservation(t *testing.T) {
	court := dbgen.Court{ID: 1, Capacity: 1, Status: CourtStatusActive}
	win := Window{Date: "2025-06-10", Start: 630, End: 690}

	active := []dbgen.Reservation{
		activeRes(7, "2025-06-10", "10:00", "11:00"),
	}

	if avail := Evaluate(court, win, active, 0); avail.Admissible {
		t.Error("expected overlap with a stranger's reservation to block")
	}
	if avail := Evaluate(court, win, active, 7); !avail.Admissible {
		t.Error("expected own reservation to be excluded when editing")
	}
}

func TestEvaluateInactiveCourt(t *testing.T) {
	court := dbgen.Court{ID: 1, Capacity: 5, Status: CourtStatusInactive}
	win := Window{Date: "2025-06-10", Start: 600, End: 660}

	avail := Evaluate(court, win, nil, 0)
	if avail.Admissible {
		t.Error("inactive court must never be admissible")
	}
	if avail.SlotsAvailable != 5 {
		t.Errorf("slots still report capacity: %d", avail.SlotsAvailable)
	}
}

func TestEvaluateSkipsMalformedRows(t *testing.T) {
	court := dbgen.Court{ID: 1, Capacity: 1, Status: CourtStatusActive}
	win := Window{Date: "2025-06-10", Start: 600, End: 660}

	active := []dbgen.Reservation{
		activeRes(1, "2025-06-10", "not-a-time", "11:00"),
	}

	avail := Evaluate(court, win, active, 0)
	if avail.ActiveOverlapCount != 0 {
		t.Errorf("malformed row counted: %d", avail.ActiveOverlapCount)
	}
	if !avail.Admissible {
		t.Error("expected admissible when only row is malformed")
	}
}
