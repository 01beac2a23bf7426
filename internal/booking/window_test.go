package booking

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	win, err := ParseWindow("2025-06-10", "09:00", "10:30")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	if win.Date != "2025-06-10" {
		t.Errorf("date: %s", win.Date)
	}
	if win.Start != 9*60 || win.End != 10*60+30 {
		t.Errorf("minutes: %d-%d", win.Start, win.End)
	}
	if win.Duration() != 90 {
		t.Errorf("duration: %d", win.Duration())
	}
}

func TestParseWindowRejectsBadInput(t *testing.T) {
	cases := []struct {
		name             string
		date, start, end string
	}{
		{"bad date", "10-06-2025", "09:00", "10:00"},
		{"bad start", "2025-06-10", "9am", "10:00"},
		{"bad end", "2025-06-10", "09:00", "25:61"},
		{"empty date", "", "09:00", "10:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseWindow(tc.date, tc.start, tc.end); err == nil {
				t.Fatalf("expected error for %s/%s/%s", tc.date, tc.start, tc.end)
			}
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	base := Window{Date: "2025-06-10", Start: 600, End: 660} // 10:00-11:00

	cases := []struct {
		name  string
		other Window
		want  bool
	}{
		{"identical", Window{Date: "2025-06-10", Start: 600, End: 660}, true},
		{"contained", Window{Date: "2025-06-10", Start: 615, End: 645}, true},
		{"straddles start", Window{Date: "2025-06-10", Start: 570, End: 630}, true},
		{"straddles end", Window{Date: "2025-06-10", Start: 630, End: 690}, true},
		{"adjacent before", Window{Date: "2025-06-10", Start: 540, End: 600}, false},
		{"adjacent after", Window{Date: "2025-06-10", Start: 660, End: 720}, false},
		{"different date", Window{Date: "2025-06-11", Start: 600, End: 660}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps(%+v) = %v, want %v", tc.other, got, tc.want)
			}
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Errorf("symmetric Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, value := range []string{"00:00", "08:05", "13:30", "23:59"} {
		minutes, err := ParseClock(value)
		if err != nil {
			t.Fatalf("parse %s: %v", value, err)
		}
		if got := FormatClock(minutes); got != value {
			t.Errorf("round trip %s: got %s", value, got)
		}
	}
}

func TestWindowInstants(t *testing.T) {
	win := Window{Date: "2025-06-10", Start: 9 * 60, End: 10 * 60}
	loc := time.UTC

	start := win.StartInstant(loc)
	want := time.Date(2025, 6, 10, 9, 0, 0, 0, loc)
	if !start.Equal(want) {
		t.Errorf("start instant: %v, want %v", start, want)
	}
	if !win.EndInstant(loc).Equal(want.Add(time.Hour)) {
		t.Errorf("end instant: %v", win.EndInstant(loc))
	}
}
