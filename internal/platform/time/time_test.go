package time

import (
	"testing"
	"time"
)

func TestDayBoundaries(t *testing.T) {
	// 01:30 in UTC+3 is still the previous day in UTC
	loc := time.FixedZone("msk", 3*3600)
	in := time.Date(2025, 3, 1, 1, 30, 0, 0, loc)

	if got, want := StartOfDay(in), time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}
	if got, want := EndOfDay(in), time.Date(2025, 2, 28, 23, 59, 59, int(999*time.Millisecond), time.UTC); !got.Equal(want) {
		t.Fatalf("EndOfDay = %v, want %v", got, want)
	}
	if got, want := Yesterday(in), time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("Yesterday = %v, want %v", got, want)
	}
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	w := Today(now)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"start inclusive", w.Start, true},
		{"end inclusive", w.End, true},
		{"midday", now, true},
		{"before", w.Start.Add(-time.Nanosecond), false},
		{"next day", w.Start.AddDate(0, 0, 1), false},
	}
	for _, tc := range cases {
		if got := w.Contains(tc.at); got != tc.want {
			t.Fatalf("%s: Contains = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPtr(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatalf("zero time should be nil")
	}
	now := time.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatalf("Ptr = %v", p)
	}
}
