package domain

import (
	"testing"
	"time"
)

func newTestService(t *testing.T, mode BookingMode) *Service {
	t.Helper()
	s, err := CreateService(NewProviderID(), "Deep Tissue Massage", 60, 8000, "eur", mode)
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	return s
}

func TestCreateService_Defaults(t *testing.T) {
	s := newTestService(t, BookingModeDirect)
	if s.MaxConcurrentBookings() != 1 {
		t.Fatalf("expected default capacity 1, got %d", s.MaxConcurrentBookings())
	}
	if s.Currency() != "EUR" {
		t.Fatalf("expected currency upper-cased, got %q", s.Currency())
	}
	if s.Duration() != time.Hour {
		t.Fatalf("expected 1h duration, got %s", s.Duration())
	}
	if s.RequiresStaff() {
		t.Fatalf("direct services do not require staff")
	}
	if _, ok := s.Schedule(); ok {
		t.Fatalf("new services have no schedule")
	}
}

func TestCreateService_Validation(t *testing.T) {
	pid := NewProviderID()
	if _, err := CreateService(pid, "X", 0, 100, "EUR", BookingModeDirect); err == nil {
		t.Fatalf("expected error for zero duration")
	}
	if _, err := CreateService(pid, "X", 30, -1, "EUR", BookingModeDirect); err == nil {
		t.Fatalf("expected error for negative price")
	}
	if _, err := CreateService(pid, "X", 30, 100, " ", BookingModeDirect); err == nil {
		t.Fatalf("expected error for blank currency")
	}
	if _, err := CreateService(pid, "", 30, 100, "EUR", BookingModeDirect); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := CreateService(ProviderID{}, "X", 30, 100, "EUR", BookingModeDirect); err == nil {
		t.Fatalf("expected error for missing provider")
	}
	if s, err := CreateService(pid, "Free consult", 15, 0, "EUR", BookingModeDirect); err != nil || s.PriceMinor() != 0 {
		t.Fatalf("zero price is allowed: %v", err)
	}
}

func TestService_SetScheduleRejectedForStaffBased(t *testing.T) {
	s := newTestService(t, BookingModeStaffBased)
	s.ClearDomainEvents()
	if err := s.SetSchedule(weekdays(t, "09:00", "17:00")); err == nil {
		t.Fatalf("expected error")
	} else if !IsRuleViolation(err) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if _, ok := s.Schedule(); ok {
		t.Fatalf("schedule must stay unset")
	}
	if len(s.DomainEvents()) != 0 {
		t.Fatalf("no events on failure")
	}
}

func TestService_SetScheduleAndCapacity(t *testing.T) {
	s := newTestService(t, BookingModeDirect)
	if err := s.SetSchedule(weekdays(t, "10:00", "18:00")); err != nil {
		t.Fatalf("SetSchedule: %v", err)
	}
	if sched, ok := s.Schedule(); !ok || !sched.IsWorkingDay(time.Tuesday) {
		t.Fatalf("expected schedule with tuesday")
	}
	if err := s.SetMaxConcurrentBookings(0); err == nil {
		t.Fatalf("expected error for capacity 0")
	}
	if err := s.SetMaxConcurrentBookings(3); err != nil {
		t.Fatalf("SetMaxConcurrentBookings: %v", err)
	}
	if s.Capacity() != 3 {
		t.Fatalf("expected capacity 3, got %d", s.Capacity())
	}
	events := s.DomainEvents()
	if got := events[len(events)-1].EventName(); got != EventServiceCapacityChanged {
		t.Fatalf("expected capacity event last, got %s", got)
	}
}

func TestService_StaffBasedCapacityIsOne(t *testing.T) {
	s := newTestService(t, BookingModeStaffBased)
	if err := s.SetMaxConcurrentBookings(4); !IsRuleViolation(err) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if len(s.DomainEvents()) != 1 {
		t.Fatalf("rejected capacity change must not raise an event, got %d events", len(s.DomainEvents()))
	}
	if s.Capacity() != 1 {
		t.Fatalf("staff-based services are exclusive per staff member, got %d", s.Capacity())
	}
}

func TestService_UpdateAndActivation(t *testing.T) {
	s := newTestService(t, BookingModeDirect)
	if err := s.Update("Hot Stone", "warm", 90, 12000); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.Name() != "Hot Stone" || s.DurationMinutes() != 90 || s.PriceMinor() != 12000 {
		t.Fatalf("update not applied: %+v", s.Snapshot())
	}
	if err := s.Update("Hot Stone", "warm", -5, 12000); err == nil {
		t.Fatalf("expected error for negative duration")
	}
	if s.DurationMinutes() != 90 {
		t.Fatalf("failed update changed duration")
	}
	if err := s.Activate(); err == nil {
		t.Fatalf("expected error activating active service")
	}
	if err := s.Deactivate(); err != nil || s.IsActive() {
		t.Fatalf("Deactivate failed: %v", err)
	}
}

func TestParseBookingMode(t *testing.T) {
	if m, err := ParseBookingMode("staff_based"); err != nil || m != BookingModeStaffBased {
		t.Fatalf("expected staff_based, got %q %v", m, err)
	}
	if m, err := ParseBookingMode(""); err != nil || m != BookingModeDirect {
		t.Fatalf("expected default direct, got %q %v", m, err)
	}
	if _, err := ParseBookingMode("walk-in"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
