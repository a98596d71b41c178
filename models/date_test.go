package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2024-01-10", NewDate(2024, time.January, 10), true},
		{" 2024-03-05 ", NewDate(2024, time.March, 5), true},
		{"2024-03-05T23:30:00Z", NewDate(2024, time.March, 5), true},
		{"2024-03-05T00:30:00+02:00", NewDate(2024, time.March, 5), true},
		{"05/03/2024", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("ParseDate(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if got != tc.want {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDateOrderingAndFormat(t *testing.T) {
	a := NewDate(2024, time.January, 31)
	b := NewDate(2024, time.February, 1)
	if !a.Before(b) || a.After(b) || !b.After(a) {
		t.Fatalf("ordering broken for %v and %v", a, b)
	}
	if a.Before(a) || a.After(a) {
		t.Fatalf("a date is neither before nor after itself")
	}
	if got := NewDate(2024, time.January, 10).Display(); got != "10/01/2024" {
		t.Fatalf("Display = %q", got)
	}
	if got := NewDate(2024, time.January, 10).String(); got != "2024-01-10" {
		t.Fatalf("String = %q", got)
	}
	if got := NewDate(2024, time.February, 30); got != NewDate(2024, time.March, 1) {
		t.Fatalf("overflow not normalized: %v", got)
	}
	if !(Date{}).IsZero() || a.IsZero() {
		t.Fatalf("IsZero wrong")
	}
}

func TestTodayUsesLocation(t *testing.T) {
	lisbon := time.FixedZone("WET", 0)
	tokyo := time.FixedZone("JST", 9*3600)
	now := time.Date(2024, time.January, 10, 20, 0, 0, 0, time.UTC)
	if got := Today(now, lisbon); got != NewDate(2024, time.January, 10) {
		t.Fatalf("Today(lisbon) = %v", got)
	}
	if got := Today(now, tokyo); got != NewDate(2024, time.January, 11) {
		t.Fatalf("Today(tokyo) = %v", got)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.March, 1))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-03-01"` {
		t.Fatalf("marshal = %s", b)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-01T10:00:00.000Z"`), &d); err != nil {
		t.Fatal(err)
	}
	if d != NewDate(2024, time.March, 1) {
		t.Fatalf("unmarshal = %v", d)
	}
	if err := json.Unmarshal([]byte(`20240301`), &d); err == nil {
		t.Fatalf("expected error for a number")
	}
}
