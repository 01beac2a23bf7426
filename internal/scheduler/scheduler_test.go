package scheduler

import (
	"errors"
	"testing"

	"github.com/courtbook/courtbook/internal/booking"
	"github.com/courtbook/courtbook/internal/testutil"
)

func newTestScheduler(t *testing.T) *Service {
	t.Helper()
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Stop(); err != nil {
			t.Errorf("stop: %v", err)
		}
	})
	return svc
}

func TestRegisterSweep(t *testing.T) {
	svc := newTestScheduler(t)
	engine := booking.NewService(testutil.NewTestDB(t), nil)

	if err := svc.RegisterSweep(engine, "* * * * *"); err != nil {
		t.Fatalf("register sweep: %v", err)
	}
}

func TestRegisterSweepRejectsBadInput(t *testing.T) {
	svc := newTestScheduler(t)
	engine := booking.NewService(testutil.NewTestDB(t), nil)

	if err := svc.RegisterSweep(nil, "* * * * *"); err == nil {
		t.Error("expected error for nil engine")
	}
	if err := svc.RegisterSweep(engine, "   "); !errors.Is(err, ErrEmptyCronExpr) {
		t.Errorf("expected ErrEmptyCronExpr, got %v", err)
	}
	if err := svc.RegisterSweep(engine, "not a cron"); err == nil {
		t.Error("expected error for malformed cron expression")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	svc.Start()

	for i := 0; i < 2; i++ {
		if err := svc.Stop(); err != nil {
			t.Fatalf("stop %d: %v", i, err)
		}
	}
}
