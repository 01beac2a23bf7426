package booking

import (
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

// Availability is the result of evaluating a candidate window against a
// court's active reservations.
type Availability struct {
	ActiveOverlapCount int64 `json:"active_overlap_count"`
	CapacityTotal      int64 `json:"capacity_total"`
	SlotsAvailable     int64 `json:"slots_available"`
	Admissible         bool  `json:"admissible"`
}

// Evaluate counts the ACTIVE reservations overlapping the candidate window
// and decides admissibility against the court's capacity. It is pure: safe
// to call repeatedly for live feedback without synchronization.
//
// active must hold the court's ACTIVE reservations for the window's date;
// FINISHED and CANCELLED rows never count. excludeID skips the caller's own
// reservation when re-validating an edit (0 excludes nothing). An INACTIVE
// court is never admissible regardless of count.
func Evaluate(court dbgen.Court, win Window, active []dbgen.Reservation, excludeID int64) Availability {
	var overlaps int64
	for _, res := range active {
		if excludeID != 0 && res.ID == excludeID {
			continue
		}
		existing, err := ParseWindow(res.Date, res.StartTime, res.EndTime)
		if err != nil {
			// Stored rows are validated on the way in; a malformed one
			// cannot be admitted against, so it does not count.
			continue
		}
		if win.Overlaps(existing) {
			overlaps++
		}
	}

	slots := court.Capacity - overlaps
	if slots < 0 {
		slots = 0
	}

	return Availability{
		ActiveOverlapCount: overlaps,
		CapacityTotal:      court.Capacity,
		SlotsAvailable:     slots,
		Admissible:         court.Status == CourtStatusActive && slots > 0,
	}
}
