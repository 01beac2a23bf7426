package booking

// Court statuses. INACTIVE courts reject new reservations but keep their
// history.
const (
	CourtStatusActive   = "ACTIVE"
	CourtStatusInactive = "INACTIVE"
)

// Reservation statuses. ACTIVE is the only non-terminal state: it moves to
// FINISHED automatically once the window has passed, or to CANCELLED
// explicitly. Both are terminal.
const (
	ReservationStatusActive    = "ACTIVE"
	ReservationStatusFinished  = "FINISHED"
	ReservationStatusCancelled = "CANCELLED"
)
