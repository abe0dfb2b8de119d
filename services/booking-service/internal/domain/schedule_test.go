package domain

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func clock(t *testing.T, raw string) civil.Time {
	t.Helper()
	c, err := ParseClock(raw)
	if err != nil {
		t.Fatalf("ParseClock(%q): %v", raw, err)
	}
	return c
}

func hours(t *testing.T, start, end string) WorkingHours {
	t.Helper()
	h, err := NewWorkingHours(clock(t, start), clock(t, end))
	if err != nil {
		t.Fatalf("NewWorkingHours(%s, %s): %v", start, end, err)
	}
	return h
}

func weekdays(t *testing.T, start, end string) WeeklySchedule {
	t.Helper()
	days := map[time.Weekday]WorkingHours{}
	for d := time.Monday; d <= time.Friday; d++ {
		days[d] = hours(t, start, end)
	}
	s, err := NewWeeklySchedule(days)
	if err != nil {
		t.Fatalf("NewWeeklySchedule: %v", err)
	}
	return s
}

func TestWorkingHours_RejectsEndNotAfterStart(t *testing.T) {
	if _, err := NewWorkingHours(clock(t, "17:00"), clock(t, "09:00")); err == nil {
		t.Fatalf("expected error when end is before start")
	}
	if _, err := NewWorkingHours(clock(t, "09:00"), clock(t, "09:00")); err == nil {
		t.Fatalf("expected error when end equals start")
	}
}

func TestWorkingHours_ContainsIsHalfOpen(t *testing.T) {
	h := hours(t, "09:00", "17:00")
	cases := map[string]bool{
		"08:59:59": false,
		"09:00":    true,
		"12:30":    true,
		"16:59:59": true,
		"17:00":    false,
	}
	for raw, want := range cases {
		if got := h.Contains(clock(t, raw)); got != want {
			t.Fatalf("Contains(%s) = %v, want %v", raw, got, want)
		}
	}
	if !h.Covers(clock(t, "16:00"), clock(t, "17:00")) {
		t.Fatalf("a range ending exactly at close should be covered")
	}
	if h.Covers(clock(t, "16:30"), clock(t, "17:30")) {
		t.Fatalf("a range running past close should not be covered")
	}
}

func TestWeeklySchedule_WorkingDays(t *testing.T) {
	s := weekdays(t, "09:00", "17:00")
	if !s.IsWorkingDay(time.Wednesday) {
		t.Fatalf("expected wednesday to be a working day")
	}
	if s.IsWorkingDay(time.Sunday) {
		t.Fatalf("expected sunday to be a day off")
	}
	if _, ok := s.GetHours(time.Saturday); ok {
		t.Fatalf("expected no hours on saturday")
	}
	h, ok := s.GetHours(time.Monday)
	if !ok || h.Start() != clock(t, "09:00") {
		t.Fatalf("expected monday hours from 09:00, got %v %v", h.Start(), ok)
	}

	days := s.Days()
	delete(days, time.Monday)
	if !s.IsWorkingDay(time.Monday) {
		t.Fatalf("mutating Days() must not change the schedule")
	}
}

func TestWeeklySchedule_JSON(t *testing.T) {
	s := weekdays(t, "09:00", "17:30")
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded WeeklySchedule
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	h, ok := decoded.GetHours(time.Friday)
	if !ok || h.End() != clock(t, "17:30") {
		t.Fatalf("expected friday until 17:30, got %v %v", h.End(), ok)
	}
	if decoded.IsWorkingDay(time.Sunday) {
		t.Fatalf("sunday should stay a day off")
	}

	bad := []byte(`{"monday":{"start":"18:00","end":"09:00"}}`)
	if err := json.Unmarshal(bad, &decoded); err == nil {
		t.Fatalf("expected error for inverted hours")
	}
	if err := json.Unmarshal([]byte(`{"funday":null}`), &decoded); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
}

func TestClockAdd(t *testing.T) {
	got, ok := ClockAdd(clock(t, "09:30"), 45*time.Minute)
	if !ok || got != clock(t, "10:15") {
		t.Fatalf("expected 10:15, got %s %v", got, ok)
	}
	if _, ok := ClockAdd(clock(t, "23:30"), time.Hour); ok {
		t.Fatalf("expected overflow past midnight to be rejected")
	}
	if d := ClockSince(clock(t, "09:00"), clock(t, "10:30")); d != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", d)
	}
}
