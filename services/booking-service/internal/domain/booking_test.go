package domain

import (
	"testing"

	"cloud.google.com/go/civil"
)

func bookingParams(t *testing.T, start, end string) BookingParams {
	t.Helper()
	return BookingParams{
		Number:          "BK-20260302-ABC123",
		ProviderID:      NewProviderID(),
		ServiceID:       NewServiceID(),
		CustomerID:      NewCustomerID(),
		Date:            civil.Date{Year: 2026, Month: 3, Day: 2},
		StartTime:       clock(t, start),
		EndTime:         clock(t, end),
		ServiceName:     "Haircut",
		ServicePrice:    2500,
		ServiceCurrency: "EUR",
	}
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := CreateDirect(bookingParams(t, "10:00", "10:30"))
	if err != nil {
		t.Fatalf("CreateDirect: %v", err)
	}
	return b
}

func TestCreateDirect_StartsPending(t *testing.T) {
	b := newTestBooking(t)
	if b.Status() != StatusPending {
		t.Fatalf("expected pending, got %s", b.Status())
	}
	if b.HasStaff() {
		t.Fatalf("direct booking has no staff")
	}
	events := b.DomainEvents()
	if len(events) != 1 || events[0].EventName() != EventBookingCreated {
		t.Fatalf("expected booking.created, got %v", events)
	}
}

func TestCreateDirect_Validation(t *testing.T) {
	mutate := []func(*BookingParams){
		func(p *BookingParams) { p.Number = " " },
		func(p *BookingParams) { p.ServiceName = "" },
		func(p *BookingParams) { p.ServicePrice = -1 },
		func(p *BookingParams) { p.ServiceCurrency = "" },
		func(p *BookingParams) { p.EndTime = p.StartTime },
		func(p *BookingParams) { p.Date = civil.Date{} },
		func(p *BookingParams) { p.CustomerID = CustomerID{} },
	}
	for i, m := range mutate {
		p := bookingParams(t, "10:00", "10:30")
		m(&p)
		if b, err := CreateDirect(p); err == nil || b != nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestCreateWithStaff_RequiresStaff(t *testing.T) {
	p := bookingParams(t, "10:00", "11:00")
	if _, err := CreateWithStaff(p, StaffID{}, "Ana"); err == nil {
		t.Fatalf("expected error for missing staff id")
	}
	if _, err := CreateWithStaff(p, NewStaffID(), " "); err == nil {
		t.Fatalf("expected error for missing staff name")
	}
	b, err := CreateWithStaff(p, NewStaffID(), "Ana")
	if err != nil {
		t.Fatalf("CreateWithStaff: %v", err)
	}
	if !b.HasStaff() || b.StaffName() != "Ana" {
		t.Fatalf("staff not recorded")
	}
	created := b.DomainEvents()[0].(BookingCreated)
	if created.StaffID != b.StaffID() {
		t.Fatalf("created event should carry staff id")
	}
}

func TestBooking_StateMachine(t *testing.T) {
	type op struct {
		name string
		run  func(*Booking) error
	}
	ops := []op{
		{"confirm", (*Booking).Confirm},
		{"cancel", func(b *Booking) error { return b.Cancel("changed plans") }},
		{"complete", (*Booking).Complete},
		{"no-show", (*Booking).MarkAsNoShow},
	}
	// allowed[from][op] = resulting status
	allowed := map[BookingStatus]map[string]BookingStatus{
		StatusPending:   {"confirm": StatusConfirmed, "cancel": StatusCancelled},
		StatusConfirmed: {"cancel": StatusCancelled, "complete": StatusCompleted, "no-show": StatusNoShow},
		StatusCancelled: {},
		StatusCompleted: {},
		StatusNoShow:    {},
	}
	reach := map[BookingStatus][]func(*Booking) error{
		StatusPending:   nil,
		StatusConfirmed: {(*Booking).Confirm},
		StatusCancelled: {func(b *Booking) error { return b.Cancel("") }},
		StatusCompleted: {(*Booking).Confirm, (*Booking).Complete},
		StatusNoShow:    {(*Booking).Confirm, (*Booking).MarkAsNoShow},
	}

	for from, steps := range reach {
		for _, o := range ops {
			b := newTestBooking(t)
			for _, step := range steps {
				if err := step(b); err != nil {
					t.Fatalf("reaching %s: %v", from, err)
				}
			}
			before := len(b.DomainEvents())
			err := o.run(b)
			want, ok := allowed[from][o.name]
			if ok {
				if err != nil {
					t.Fatalf("%s from %s: unexpected error %v", o.name, from, err)
				}
				if b.Status() != want {
					t.Fatalf("%s from %s: expected %s, got %s", o.name, from, want, b.Status())
				}
				if len(b.DomainEvents()) != before+1 {
					t.Fatalf("%s from %s: expected one new event", o.name, from)
				}
				continue
			}
			if err == nil {
				t.Fatalf("%s from %s: expected error, transition is not allowed", o.name, from)
			}
			if !IsRuleViolation(err) {
				t.Fatalf("%s from %s: expected rule violation, got %v", o.name, from, err)
			}
			if b.Status() != from {
				t.Fatalf("%s from %s: status changed to %s on failure", o.name, from, b.Status())
			}
			if len(b.DomainEvents()) != before {
				t.Fatalf("%s from %s: failed transition raised an event", o.name, from)
			}
		}
	}
}

func TestBooking_CancelMessages(t *testing.T) {
	completed := newTestBooking(t)
	_ = completed.Confirm()
	_ = completed.Complete()
	if err := completed.Cancel("x"); err == nil || err.Error() != "cannot cancel a completed booking" {
		t.Fatalf("unexpected error: %v", err)
	}

	cancelled := newTestBooking(t)
	_ = cancelled.Cancel("first")
	if err := cancelled.Cancel("again"); err == nil || err.Error() != "booking is already cancelled" {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.CancellationReason() != "first" || cancelled.CancelledAt().IsZero() {
		t.Fatalf("first cancellation details should be kept")
	}

	noShow := newTestBooking(t)
	_ = noShow.Confirm()
	_ = noShow.MarkAsNoShow()
	if err := noShow.Cancel("x"); err == nil || err.Error() != "cannot cancel a no-show booking" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBooking_ConfirmNamesCurrentStatus(t *testing.T) {
	b := newTestBooking(t)
	_ = b.Confirm()
	err := b.Confirm()
	if err == nil || err.Error() != "cannot confirm booking with status confirmed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBooking_SnapshotRoundTrip(t *testing.T) {
	b := newTestBooking(t)
	_ = b.Confirm()
	r, err := RestoreBooking(b.Snapshot())
	if err != nil {
		t.Fatalf("RestoreBooking: %v", err)
	}
	if r.Status() != StatusConfirmed || r.Number() != b.Number() || r.Date() != b.Date() {
		t.Fatalf("restore mismatch: %+v", r.Snapshot())
	}
	bad := b.Snapshot()
	bad.Status = "archived"
	if _, err := RestoreBooking(bad); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
