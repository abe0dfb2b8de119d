package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// WorkingHours is a single contiguous interval within one day, start
// inclusive and end exclusive.
type WorkingHours struct {
	start civil.Time
	end   civil.Time
}

func NewWorkingHours(start, end civil.Time) (WorkingHours, error) {
	if !start.IsValid() || !end.IsValid() {
		return WorkingHours{}, ruleViolation("working hours must be valid times of day")
	}
	if !end.After(start) {
		return WorkingHours{}, ruleViolation("working hours end (%s) must be after start (%s)", end, start)
	}
	return WorkingHours{start: start, end: end}, nil
}

func (h WorkingHours) Start() civil.Time { return h.start }
func (h WorkingHours) End() civil.Time { return h.end }

// Contains reports start <= t < end.
func (h WorkingHours) Contains(t civil.Time) bool {
	return !t.Before(h.start) && t.Before(h.end)
}

// Covers reports whether [start, end) lies entirely within the hours.
func (h WorkingHours) Covers(start, end civil.Time) bool {
	return start.Before(end) && !start.Before(h.start) && !end.After(h.end)
}

// WeeklySchedule maps weekdays to optional working hours. It is immutable;
// Days returns a copy.
type WeeklySchedule struct {
	days map[time.Weekday]WorkingHours
}

func NewWeeklySchedule(days map[time.Weekday]WorkingHours) (WeeklySchedule, error) {
	copied := make(map[time.Weekday]WorkingHours, len(days))
	for d, h := range days {
		if d < time.Sunday || d > time.Saturday {
			return WeeklySchedule{}, ruleViolation("invalid weekday %d", int(d))
		}
		if !h.end.After(h.start) {
			return WeeklySchedule{}, ruleViolation("working hours for %s are invalid", d)
		}
		copied[d] = h
	}
	return WeeklySchedule{days: copied}, nil
}

func (s WeeklySchedule) IsWorkingDay(d time.Weekday) bool {
	_, ok := s.days[d]
	return ok
}

func (s WeeklySchedule) GetHours(d time.Weekday) (WorkingHours, bool) {
	h, ok := s.days[d]
	return h, ok
}

func (s WeeklySchedule) Days() map[time.Weekday]WorkingHours {
	return maps.Clone(s.days)
}

type hoursJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MarshalJSON writes lowercase weekday keys with "HH:MM:SS" bounds. Days
// off are written as null so the shape is always the full week.
func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := make(map[string]*hoursJSON, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		key := strings.ToLower(d.String())
		h, ok := s.days[d]
		if !ok {
			out[key] = nil
			continue
		}
		out[key] = &hoursJSON{Start: h.start.String(), End: h.end.String()}
	}
	return json.Marshal(out)
}

func (s *WeeklySchedule) UnmarshalJSON(b []byte) error {
	var raw map[string]*hoursJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	days := make(map[time.Weekday]WorkingHours, len(raw))
	for key, h := range raw {
		d, err := ParseWeekday(key)
		if err != nil {
			return err
		}
		if h == nil {
			continue
		}
		start, err := ParseClock(h.Start)
		if err != nil {
			return err
		}
		end, err := ParseClock(h.End)
		if err != nil {
			return err
		}
		wh, err := NewWorkingHours(start, end)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		days[d] = wh
	}
	parsed, err := NewWeeklySchedule(days)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseWeekday(raw string) (time.Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return d, nil
		}
	}
	return 0, ruleViolation("unknown weekday %q", raw)
}

// ParseClock accepts "HH:MM" or "HH:MM:SS".
func ParseClock(raw string) (civil.Time, error) {
	v := strings.TrimSpace(raw)
	if strings.Count(v, ":") == 1 {
		v += ":00"
	}
	t, err := civil.ParseTime(v)
	if err != nil || !t.IsValid() {
		return civil.Time{}, ruleViolation("invalid time of day %q", raw)
	}
	return t, nil
}

// ClockAdd adds d to t and reports false when the result leaves the day.
func ClockAdd(t civil.Time, d time.Duration) (civil.Time, bool) {
	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2000, time.January, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC).Add(d)
	if at.Before(base) || !at.Before(base.AddDate(0, 0, 1)) {
		return civil.Time{}, false
	}
	return civil.TimeOf(at), true
}

// ClockSince returns end - start.
func ClockSince(start, end civil.Time) time.Duration {
	return clockOffset(end) - clockOffset(start)
}

func clockOffset(t civil.Time) time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)
}
