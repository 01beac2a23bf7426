package users

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"empty is allowed", "", "US", ""},
		{"whitespace only", "   ", "US", ""},
		{"national US", "(415) 555-2671", "US", "+14155552671"},
		{"already E164", "+14155552671", "US", "+14155552671"},
		{"spanish national", "612 34 56 78", "ES", "+34612345678"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.raw, tc.region)
			if err != nil {
				t.Fatalf("normalize %q: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("normalize %q = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"123", "not-a-phone", "+1 555"} {
		if _, err := NormalizePhone(raw, "US"); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}
