package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/app"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/storage/memstore"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

// Monday 2026-03-02 08:00 UTC.
var testNow = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

var (
	monday  = civil.Date{Year: 2026, Month: time.March, Day: 2}
	tuesday = civil.Date{Year: 2026, Month: time.March, Day: 3}
	sunday  = civil.Date{Year: 2026, Month: time.March, Day: 8}
)

type fixture struct {
	svc      *app.Service
	store    *memstore.Store
	provider app.ProviderView
	customer app.CustomerView
}

func newFixture(t *testing.T, dispatcherHooks ...func(*uow.Dispatcher)) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return testNow }
	store := memstore.New()
	d := uow.NewDispatcher(logger)
	for _, hook := range dispatcherHooks {
		hook(d)
	}
	pipeline := uow.NewPipeline(store, d, logger, uow.WithClock(clock))
	svc := app.New(pipeline, app.Options{Now: clock, Logger: logger, SlotStep: 30 * time.Minute})

	ctx := context.Background()
	provider, err := svc.CreateProvider(ctx, app.CreateProviderInput{
		Name:     "Sunshine Spa",
		Slug:     "sunshine-spa",
		Email:    "hello@sunshine.example",
		TimeZone: "UTC",
	})
	if err != nil {
		t.Fatalf("CreateProvider: %v", err)
	}
	customer, err := svc.RegisterCustomer(ctx, app.RegisterCustomerInput{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("RegisterCustomer: %v", err)
	}
	return &fixture{svc: svc, store: store, provider: provider, customer: customer}
}

func clock(h, m int) civil.Time { return civil.Time{Hour: h, Minute: m} }

func weekdays(t *testing.T, start, end civil.Time) domain.WeeklySchedule {
	t.Helper()
	hours, err := domain.NewWorkingHours(start, end)
	if err != nil {
		t.Fatalf("NewWorkingHours: %v", err)
	}
	days := map[time.Weekday]domain.WorkingHours{}
	for d := time.Monday; d <= time.Friday; d++ {
		days[d] = hours
	}
	sched, err := domain.NewWeeklySchedule(days)
	if err != nil {
		t.Fatalf("NewWeeklySchedule: %v", err)
	}
	return sched
}

func expectCode(t *testing.T, err error, kind app.Kind, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	ae := app.AsError(err)
	if ae.Kind != kind || ae.Code != code {
		t.Fatalf("expected %s/%s, got %s/%s (%v)", kind, code, ae.Kind, ae.Code, err)
	}
}

func (f *fixture) directService(t *testing.T, capacity int, sched *domain.WeeklySchedule) app.ServiceView {
	t.Helper()
	ctx := context.Background()
	svc, err := f.svc.CreateService(ctx, f.provider.ID, app.CreateServiceInput{
		Name:                  "Sauna",
		DurationMinutes:       60,
		PriceMinor:            2500,
		Currency:              "usd",
		BookingMode:           "direct",
		MaxConcurrentBookings: capacity,
	})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	if sched != nil {
		if svc, err = f.svc.SetServiceSchedule(ctx, svc.ID, *sched); err != nil {
			t.Fatalf("SetServiceSchedule: %v", err)
		}
	}
	return svc
}

func (f *fixture) staffService(t *testing.T) (app.ServiceView, app.StaffView) {
	t.Helper()
	ctx := context.Background()
	svc, err := f.svc.CreateService(ctx, f.provider.ID, app.CreateServiceInput{
		Name:            "Massage",
		DurationMinutes: 30,
		PriceMinor:      5000,
		Currency:        "USD",
		BookingMode:     "staff_based",
	})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	st, err := f.svc.CreateStaff(ctx, f.provider.ID, app.CreateStaffInput{Name: "Grace"})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if _, err := f.svc.SetStaffSchedule(ctx, st.ID, weekdays(t, clock(9, 0), clock(12, 0))); err != nil {
		t.Fatalf("SetStaffSchedule: %v", err)
	}
	if st, err = f.svc.AssignStaffService(ctx, st.ID, svc.ID); err != nil {
		t.Fatalf("AssignStaffService: %v", err)
	}
	return svc, st
}

func (f *fixture) book(svc domain.ServiceID, staff domain.StaffID, date civil.Date, start civil.Time) (app.BookingView, error) {
	return f.svc.CreateBooking(context.Background(), app.CreateBookingInput{
		ServiceID:  svc,
		StaffID:    staff,
		CustomerID: f.customer.ID,
		Date:       date,
		StartTime:  start,
	})
}

func TestCreateProvider_SlugConflict(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateProvider(context.Background(), app.CreateProviderInput{
		Name:     "Other Spa",
		Slug:     "sunshine-spa",
		Email:    "other@example.com",
		TimeZone: "Europe/Berlin",
	})
	expectCode(t, err, app.KindConflict, app.CodeSlugExists)
	if f.store.Commits() != 2 {
		t.Fatalf("expected no extra commit, got %d", f.store.Commits())
	}
}

func TestCreateProvider_RuleViolation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateProvider(context.Background(), app.CreateProviderInput{
		Name: "Bad", Slug: "bad", Email: "bad@example.com", TimeZone: "Mars/Olympus",
	})
	expectCode(t, err, app.KindValidation, app.CodeRuleViolation)
}

func TestProviderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.svc.UpdateProvider(ctx, f.provider.ID, app.UpdateProviderInput{
		Name: "Sunshine Day Spa", Description: "Relax", Email: "desk@sunshine.example",
	})
	if err != nil {
		t.Fatalf("UpdateProvider: %v", err)
	}
	if updated.Name != "Sunshine Day Spa" || updated.Version != f.provider.Version+1 {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if _, err := f.svc.DeactivateProvider(ctx, f.provider.ID); err != nil {
		t.Fatalf("DeactivateProvider: %v", err)
	}
	_, err = f.svc.DeactivateProvider(ctx, f.provider.ID)
	expectCode(t, err, app.KindValidation, app.CodeRuleViolation)

	bySlug, err := f.svc.GetProviderBySlug(ctx, "sunshine-spa")
	if err != nil {
		t.Fatalf("GetProviderBySlug: %v", err)
	}
	if bySlug.Active {
		t.Fatal("expected provider to be inactive")
	}
	_, err = f.svc.GetProviderByID(ctx, domain.NewProviderID())
	expectCode(t, err, app.KindNotFound, "Provider.NotFound")
}

func TestRegisterCustomer_EmailConflict(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RegisterCustomer(context.Background(), app.RegisterCustomerInput{Name: "Ada L", Email: "ADA@example.com"})
	expectCode(t, err, app.KindConflict, app.CodeEmailExists)
}

func TestCreateBooking_DirectCapacity(t *testing.T) {
	f := newFixture(t)
	sched := weekdays(t, clock(9, 0), clock(17, 0))
	svc := f.directService(t, 2, &sched)

	for i := 0; i < 2; i++ {
		if _, err := f.book(svc.ID, domain.StaffID{}, tuesday, clock(10, 0)); err != nil {
			t.Fatalf("booking %d: %v", i, err)
		}
	}
	_, err := f.book(svc.ID, domain.StaffID{}, tuesday, clock(10, 30))
	expectCode(t, err, app.KindConflict, app.CodeSlotUnavailable)

	// Back to back with the full hour is fine.
	if _, err := f.book(svc.ID, domain.StaffID{}, tuesday, clock(11, 0)); err != nil {
		t.Fatalf("back-to-back booking: %v", err)
	}
}

func TestCreateBooking_DirectScheduleAndStaff(t *testing.T) {
	f := newFixture(t)
	sched := weekdays(t, clock(9, 0), clock(17, 0))
	svc := f.directService(t, 1, &sched)

	_, err := f.book(svc.ID, domain.StaffID{}, tuesday, clock(16, 30))
	expectCode(t, err, app.KindValidation, "Booking.OutsideWorkingHours")
	_, err = f.book(svc.ID, domain.StaffID{}, sunday, clock(10, 0))
	expectCode(t, err, app.KindValidation, "Booking.OutsideWorkingHours")
	_, err = f.book(svc.ID, domain.NewStaffID(), tuesday, clock(10, 0))
	expectCode(t, err, app.KindValidation, "Booking.StaffNotAllowed")
}

func TestCreateBooking_DirectWithoutSchedule(t *testing.T) {
	f := newFixture(t)
	svc := f.directService(t, 1, nil)
	b, err := f.book(svc.ID, domain.StaffID{}, sunday, clock(22, 0))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.EndTime != clock(23, 0) || b.Status != domain.StatusPending {
		t.Fatalf("unexpected booking %+v", b)
	}
	_, err = f.book(svc.ID, domain.StaffID{}, sunday, clock(23, 30))
	expectCode(t, err, app.KindValidation, "Booking.CrossesMidnight")
}

func TestCreateBooking_InPast(t *testing.T) {
	f := newFixture(t)
	svc := f.directService(t, 1, nil)
	_, err := f.book(svc.ID, domain.StaffID{}, monday, clock(7, 0))
	expectCode(t, err, app.KindValidation, "Booking.InPast")
}

func TestCreateBooking_StaffRules(t *testing.T) {
	f := newFixture(t)
	svc, st := f.staffService(t)
	ctx := context.Background()

	_, err := f.book(svc.ID, domain.StaffID{}, tuesday, clock(9, 0))
	expectCode(t, err, app.KindValidation, "Booking.StaffRequired")
	_, err = f.book(svc.ID, st.ID, tuesday, clock(11, 45))
	expectCode(t, err, app.KindValidation, "Booking.OutsideWorkingHours")

	first, err := f.book(svc.ID, st.ID, tuesday, clock(9, 0))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if first.StaffID != st.ID || first.StaffName != "Grace" || first.ServiceName != "Massage" {
		t.Fatalf("unexpected booking %+v", first)
	}
	_, err = f.book(svc.ID, st.ID, tuesday, clock(9, 15))
	expectCode(t, err, app.KindConflict, app.CodeSlotUnavailable)

	if _, err := f.svc.CancelBooking(ctx, first.ID, "changed plans"); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if _, err := f.book(svc.ID, st.ID, tuesday, clock(9, 15)); err != nil {
		t.Fatalf("expected cancelled booking to free the slot: %v", err)
	}

	if _, err := f.svc.UnassignStaffService(ctx, st.ID, svc.ID); err != nil {
		t.Fatalf("UnassignStaffService: %v", err)
	}
	_, err = f.book(svc.ID, st.ID, tuesday, clock(11, 0))
	expectCode(t, err, app.KindValidation, "Staff.NotAssigned")
}

func TestBookingTransitions(t *testing.T) {
	f := newFixture(t)
	svc := f.directService(t, 1, nil)
	ctx := context.Background()

	b, err := f.book(svc.ID, domain.StaffID{}, tuesday, clock(10, 0))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if !regexp.MustCompile(`^BK-20260302-[A-Z2-9]{6}$`).MatchString(b.Number) {
		t.Fatalf("unexpected booking number %q", b.Number)
	}
	if b, err = f.svc.ConfirmBooking(ctx, b.ID); err != nil || b.Status != domain.StatusConfirmed {
		t.Fatalf("ConfirmBooking: %v (%s)", err, b.Status)
	}
	_, err = f.svc.ConfirmBooking(ctx, b.ID)
	expectCode(t, err, app.KindValidation, app.CodeRuleViolation)

	if b, err = f.svc.CompleteBooking(ctx, b.ID); err != nil || b.Status != domain.StatusCompleted {
		t.Fatalf("CompleteBooking: %v (%s)", err, b.Status)
	}
	_, err = f.svc.CancelBooking(ctx, b.ID, "too late")
	expectCode(t, err, app.KindValidation, app.CodeRuleViolation)

	byNumber, err := f.svc.GetBookingByNumber(ctx, b.Number)
	if err != nil || byNumber.ID != b.ID {
		t.Fatalf("GetBookingByNumber: %v", err)
	}
	list, err := f.svc.ListCustomerBookings(ctx, f.customer.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListCustomerBookings: %v (%d)", err, len(list))
	}
	_, err = f.svc.GetBooking(ctx, domain.NewBookingID())
	expectCode(t, err, app.KindNotFound, "Booking.NotFound")
}

func TestListSlots_DirectCapacity(t *testing.T) {
	f := newFixture(t)
	sched := weekdays(t, clock(9, 0), clock(11, 0))
	svc := f.directService(t, 2, &sched)
	ctx := context.Background()

	if _, err := f.book(svc.ID, domain.StaffID{}, tuesday, clock(9, 0)); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	view, err := f.svc.ListSlots(ctx, svc.ID, domain.StaffID{}, tuesday)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	// 60 minute slots every 30 minutes: 09:00, 09:30, 10:00.
	if len(view.Slots) != 3 {
		t.Fatalf("expected 3 slots, got %+v", view.Slots)
	}
	if view.Slots[0].Remaining != 1 || view.Slots[2].Remaining != 2 {
		t.Fatalf("unexpected remaining capacity %+v", view.Slots)
	}
}

func TestListSlots_TodaySkipsStartedSlots(t *testing.T) {
	f := newFixture(t)
	svc := f.directService(t, 1, nil)
	view, err := f.svc.ListSlots(context.Background(), svc.ID, domain.StaffID{}, monday)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(view.Slots) == 0 || view.Slots[0].Start != clock(8, 0) {
		t.Fatalf("expected first slot at 08:00, got %+v", view.Slots)
	}
	past, err := f.svc.ListSlots(context.Background(), svc.ID, domain.StaffID{}, civil.Date{Year: 2026, Month: time.March, Day: 1})
	if err != nil || len(past.Slots) != 0 {
		t.Fatalf("expected no slots in the past, got %v %+v", err, past.Slots)
	}
}

func TestListSlots_Staff(t *testing.T) {
	f := newFixture(t)
	svc, st := f.staffService(t)
	ctx := context.Background()

	if _, err := f.book(svc.ID, st.ID, tuesday, clock(10, 0)); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	view, err := f.svc.ListSlots(ctx, svc.ID, st.ID, tuesday)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	// 09:00-12:00 in 30 minute steps minus 10:00.
	if len(view.Slots) != 5 {
		t.Fatalf("expected 5 slots, got %+v", view.Slots)
	}
	for _, s := range view.Slots {
		if s.Start == clock(10, 0) {
			t.Fatal("booked slot listed as free")
		}
	}
	weekend, err := f.svc.ListSlots(ctx, svc.ID, st.ID, sunday)
	if err != nil || len(weekend.Slots) != 0 {
		t.Fatalf("expected no weekend slots, got %v %+v", err, weekend.Slots)
	}
}

func TestAssignStaffService_OtherProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other, err := f.svc.CreateProvider(ctx, app.CreateProviderInput{
		Name: "Moon Spa", Slug: "moon-spa", Email: "moon@example.com", TimeZone: "UTC",
	})
	if err != nil {
		t.Fatalf("CreateProvider: %v", err)
	}
	svc, err := f.svc.CreateService(ctx, other.ID, app.CreateServiceInput{
		Name: "Facial", DurationMinutes: 45, PriceMinor: 100, Currency: "EUR", BookingMode: "staff_based",
	})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	st, err := f.svc.CreateStaff(ctx, f.provider.ID, app.CreateStaffInput{Name: "Lin", Email: "lin@example.com"})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	_, err = f.svc.AssignStaffService(ctx, st.ID, svc.ID)
	expectCode(t, err, app.KindValidation, "Staff.ProviderMismatch")
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	f := newFixture(t)
	f.store.FailNextSave(errors.New("disk full"))
	_, err := f.svc.UpdateProvider(context.Background(), f.provider.ID, app.UpdateProviderInput{
		Name: "Renamed", Email: "hello@sunshine.example",
	})
	expectCode(t, err, app.KindFailure, app.CodePersistence)
}

func TestAuditLogsCommittedEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	newFixture(t, func(d *uow.Dispatcher) { app.RegisterAudit(d, logger) })
	out := buf.String()
	for _, name := range []string{domain.EventProviderCreated, domain.EventCustomerCreated} {
		if !strings.Contains(out, "event_type="+name) {
			t.Fatalf("expected audit line for %s in %q", name, out)
		}
	}
}

func TestSetServiceCapacity_StaffBasedRejected(t *testing.T) {
	f := newFixture(t)
	svc, _ := f.staffService(t)
	_, err := f.svc.SetServiceCapacity(context.Background(), svc.ID, 3)
	expectCode(t, err, app.KindValidation, app.CodeRuleViolation)
}
