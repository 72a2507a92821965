package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year != 2025 || d.Month != time.December || d.Day != 15 {
		t.Fatalf("got %+v", d)
	}

	if _, err := ParseDate("15/12/2025"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestDaysApart(t *testing.T) {
	tests := []struct {
		a, b Date
		want int
	}{
		{NewDate(2025, time.December, 15), NewDate(2025, time.December, 15), 0},
		{NewDate(2025, time.December, 15), NewDate(2025, time.December, 16), 1},
		{NewDate(2025, time.December, 16), NewDate(2025, time.December, 15), 1},
		{NewDate(2025, time.December, 15), NewDate(2025, time.December, 17), 2},
		{NewDate(2025, time.November, 30), NewDate(2025, time.December, 1), 1},
		{NewDate(2025, time.December, 31), NewDate(2026, time.January, 1), 1},
	}
	for _, tt := range tests {
		if got := DaysApart(tt.a, tt.b); got != tt.want {
			t.Errorf("DaysApart(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type wrap struct {
		D Date `json:"d"`
	}
	in := wrap{D: NewDate(2026, time.May, 1)}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"d":"2026-05-01"}` {
		t.Fatalf("marshal: %s", b)
	}
	var out wrap
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.D != in.D {
		t.Fatalf("round trip: %+v != %+v", out.D, in.D)
	}
}

func TestDateUnmarshalEmpty(t *testing.T) {
	var d Date
	if err := d.UnmarshalJSON([]byte(`""`)); err != nil {
		t.Fatal(err)
	}
	if !d.IsZero() {
		t.Fatalf("expected zero date, got %+v", d)
	}
}
