package app

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

// wholeDay is the window of a direct service without a schedule.
var wholeDay = domain.TimeRange{
	Start: civil.Time{},
	End:   civil.Time{Hour: 23, Minute: 59, Second: 59, Nanosecond: 999999999},
}

type SlotsView struct {
	ServiceID domain.ServiceID    `json:"service_id"`
	StaffID   domain.StaffID      `json:"staff_id,omitzero"`
	Date      civil.Date          `json:"date"`
	TimeZone  string              `json:"time_zone"`
	Slots     []availability.Slot `json:"slots"`
}

// ListSlots returns the free slots of a service on date. Staff-based
// services need staffID and use that staff member's hours and bookings.
// Slots that already started at the provider are left out.
func (s *Service) ListSlots(ctx context.Context, serviceID domain.ServiceID, staffID domain.StaffID, date civil.Date) (SlotsView, error) {
	return query(ctx, s, "ListSlots", func(ctx context.Context, sess uow.Session) (SlotsView, error) {
		if !date.IsValid() {
			return SlotsView{}, invalid(CodeValidation, "date is required")
		}
		svc, err := getService(ctx, sess, serviceID)
		if err != nil {
			return SlotsView{}, err
		}
		provider, err := getProvider(ctx, sess, svc.ProviderID())
		if err != nil {
			return SlotsView{}, err
		}
		view := SlotsView{
			ServiceID: serviceID,
			StaffID:   staffID,
			Date:      date,
			TimeZone:  provider.TimeZone().String(),
			Slots:     []availability.Slot{},
		}
		if !svc.IsActive() || !provider.IsActive() {
			return view, nil
		}

		var staff *domain.Staff
		if svc.RequiresStaff() {
			if staff, err = s.bookableStaff(ctx, sess, svc, staffID); err != nil {
				return SlotsView{}, err
			}
		} else if !staffID.IsZero() {
			return SlotsView{}, invalid("Booking.StaffNotAllowed", "direct services are booked without a staff member")
		}

		now := s.localNow(provider)
		if date.Before(now.Date) {
			return view, nil
		}
		var notBefore civil.Time
		if date == now.Date {
			notBefore = now.Time
		}

		slots, err := s.daySlots(ctx, sess, svc, staff, date)
		if err != nil {
			return SlotsView{}, err
		}
		for _, slot := range slots {
			if !slot.Start.Before(notBefore) {
				view.Slots = append(view.Slots, slot)
			}
		}
		return view, nil
	})
}

// daySlots computes, or reads from the cache, every free slot of the day.
func (s *Service) daySlots(ctx context.Context, sess uow.Session, svc *domain.Service, staff *domain.Staff, date civil.Date) ([]availability.Slot, error) {
	key := availability.Key{ServiceID: svc.ID(), Date: date}
	if staff != nil {
		key.StaffID = staff.ID()
	}
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("slot cache read failed", "key", key.String(), "err", err)
	} else if ok {
		return cached, nil
	}

	window, working := s.window(svc, staff, weekday(date))
	var slots []availability.Slot
	if working {
		var existing []*domain.Booking
		var err error
		if staff != nil {
			existing, err = sess.Bookings().GetByStaffAndDate(ctx, staff.ID(), date)
		} else {
			existing, err = sess.Bookings().GetByServiceAndDate(ctx, svc.ID(), date)
		}
		if err != nil {
			return nil, err
		}
		busy := domain.BlockingSpans(existing, domain.BookingID{})
		slots = availability.AvailableSlots(window, svc.Duration(), s.slotStep, busy, svc.Capacity(), civil.Time{})
	}

	if err := s.cache.Put(ctx, key, slots); err != nil {
		s.logger.Warn("slot cache write failed", "key", key.String(), "err", err)
	}
	return slots, nil
}

func (s *Service) window(svc *domain.Service, staff *domain.Staff, day time.Weekday) (domain.TimeRange, bool) {
	var sched domain.WeeklySchedule
	var ok bool
	if staff != nil {
		sched, ok = staff.Schedule()
		if !ok {
			return domain.TimeRange{}, false
		}
	} else if sched, ok = svc.Schedule(); !ok {
		return wholeDay, true
	}
	hours, working := sched.GetHours(day)
	if !working {
		return domain.TimeRange{}, false
	}
	return domain.TimeRange{Start: hours.Start(), End: hours.End()}, true
}
