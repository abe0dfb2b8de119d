package app

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

type CreateBookingInput struct {
	ServiceID  domain.ServiceID
	StaffID    domain.StaffID
	CustomerID domain.CustomerID
	Date       civil.Date
	StartTime  civil.Time
	Notes      string
}

// CreateBooking books the service at Date/StartTime for the service's
// duration. Staff-based services need StaffID; direct services reject it.
// Times are wall-clock times in the provider's time zone.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (BookingView, error) {
	b, err := command(ctx, s, "CreateBooking", func(ctx context.Context, sess uow.Session) (*domain.Booking, error) {
		// The service row lock serializes concurrent direct bookings.
		svc, err := getService(ctx, sess, in.ServiceID)
		if err != nil {
			return nil, err
		}
		if !svc.IsActive() {
			return nil, invalid("Service.Inactive", "service is not accepting bookings")
		}
		// Provider and customer are only checked, so they stay unlocked.
		peek := uow.WithoutRowLock(ctx)
		provider, err := getProvider(peek, sess, svc.ProviderID())
		if err != nil {
			return nil, err
		}
		if !provider.IsActive() {
			return nil, invalid("Provider.Inactive", "provider is not accepting bookings")
		}
		if _, err := getCustomer(peek, sess, in.CustomerID); err != nil {
			return nil, err
		}
		if !in.Date.IsValid() || !in.StartTime.IsValid() {
			return nil, invalid(CodeValidation, "date and start_time are required")
		}
		end, ok := domain.ClockAdd(in.StartTime, svc.Duration())
		if !ok {
			return nil, invalid("Booking.CrossesMidnight", "booking must end on the day it starts")
		}
		if s.inPast(provider, in.Date, in.StartTime) {
			return nil, invalid("Booking.InPast", "bookings cannot start in the past")
		}

		now := s.now()
		number, err := s.numbers.Next(ctx, now)
		if err != nil {
			return nil, err
		}
		params := domain.BookingParams{
			Number:          number,
			ProviderID:      svc.ProviderID(),
			ServiceID:       svc.ID(),
			CustomerID:      in.CustomerID,
			Date:            in.Date,
			StartTime:       in.StartTime,
			EndTime:         end,
			ServiceName:     svc.Name(),
			ServicePrice:    svc.PriceMinor(),
			ServiceCurrency: svc.Currency(),
			CustomerNotes:   in.Notes,
		}
		span := domain.TimeRange{Start: in.StartTime, End: end}
		day := weekday(in.Date)

		var b *domain.Booking
		if svc.RequiresStaff() {
			st, err := s.bookableStaff(ctx, sess, svc, in.StaffID)
			if err != nil {
				return nil, err
			}
			if !st.IsAvailableFor(day, in.StartTime, end) {
				return nil, invalid("Booking.OutsideWorkingHours", "staff member is not working at the requested time")
			}
			existing, err := sess.Bookings().GetByStaffAndDate(ctx, st.ID(), in.Date)
			if err != nil {
				return nil, err
			}
			if err := domain.EnsureCapacity(existing, span, 1, domain.BookingID{}); err != nil {
				return nil, err
			}
			b, err = domain.CreateWithStaff(params, st.ID(), st.Name())
			if err != nil {
				return nil, err
			}
		} else {
			if !in.StaffID.IsZero() {
				return nil, invalid("Booking.StaffNotAllowed", "direct services are booked without a staff member")
			}
			if sched, ok := svc.Schedule(); ok {
				hours, working := sched.GetHours(day)
				if !working || !hours.Covers(in.StartTime, end) {
					return nil, invalid("Booking.OutsideWorkingHours", "service is not available at the requested time")
				}
			}
			existing, err := sess.Bookings().GetByServiceAndDate(ctx, svc.ID(), in.Date)
			if err != nil {
				return nil, err
			}
			if err := domain.EnsureCapacity(existing, span, svc.Capacity(), domain.BookingID{}); err != nil {
				return nil, err
			}
			b, err = domain.CreateDirect(params)
			if err != nil {
				return nil, err
			}
		}
		return b, sess.Bookings().Add(ctx, b)
	})
	if err != nil {
		return BookingView{}, err
	}
	return bookingView(b), nil
}

// bookableStaff loads the staff member for a staff-based booking and checks
// they can perform svc.
func (s *Service) bookableStaff(ctx context.Context, sess uow.Session, svc *domain.Service, id domain.StaffID) (*domain.Staff, error) {
	if id.IsZero() {
		return nil, invalid("Booking.StaffRequired", "this service must be booked with a staff member")
	}
	st, err := getStaff(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if st.ProviderID() != svc.ProviderID() || !st.IsAssignedTo(svc.ID()) {
		return nil, invalid("Staff.NotAssigned", "staff member does not perform this service")
	}
	if !st.IsActive() {
		return nil, invalid("Staff.Inactive", "staff member is not accepting bookings")
	}
	return st, nil
}

// localNow is the current wall-clock time at the provider.
func (s *Service) localNow(p *domain.Provider) civil.DateTime {
	return civil.DateTimeOf(s.now().In(p.TimeZone().Location()))
}

func (s *Service) inPast(p *domain.Provider, date civil.Date, start civil.Time) bool {
	return civil.DateTime{Date: date, Time: start}.Before(s.localNow(p))
}

func weekday(d civil.Date) time.Weekday { return d.In(time.UTC).Weekday() }

func (s *Service) ConfirmBooking(ctx context.Context, id domain.BookingID) (BookingView, error) {
	return s.changeBooking(ctx, "ConfirmBooking", id, (*domain.Booking).Confirm)
}

func (s *Service) CancelBooking(ctx context.Context, id domain.BookingID, reason string) (BookingView, error) {
	return s.changeBooking(ctx, "CancelBooking", id, func(b *domain.Booking) error {
		return b.Cancel(reason)
	})
}

func (s *Service) CompleteBooking(ctx context.Context, id domain.BookingID) (BookingView, error) {
	return s.changeBooking(ctx, "CompleteBooking", id, (*domain.Booking).Complete)
}

func (s *Service) MarkBookingNoShow(ctx context.Context, id domain.BookingID) (BookingView, error) {
	return s.changeBooking(ctx, "MarkBookingNoShow", id, (*domain.Booking).MarkAsNoShow)
}

func (s *Service) changeBooking(ctx context.Context, name string, id domain.BookingID, change func(*domain.Booking) error) (BookingView, error) {
	b, err := command(ctx, s, name, func(ctx context.Context, sess uow.Session) (*domain.Booking, error) {
		b, err := getBooking(ctx, sess, id)
		if err != nil {
			return nil, err
		}
		if err := change(b); err != nil {
			return nil, err
		}
		return b, sess.Bookings().Update(ctx, b)
	})
	if err != nil {
		return BookingView{}, err
	}
	return bookingView(b), nil
}

func (s *Service) GetBooking(ctx context.Context, id domain.BookingID) (BookingView, error) {
	return query(ctx, s, "GetBooking", func(ctx context.Context, sess uow.Session) (BookingView, error) {
		b, err := getBooking(ctx, sess, id)
		if err != nil {
			return BookingView{}, err
		}
		return bookingView(b), nil
	})
}

func (s *Service) GetBookingByNumber(ctx context.Context, number string) (BookingView, error) {
	return query(ctx, s, "GetBookingByNumber", func(ctx context.Context, sess uow.Session) (BookingView, error) {
		b, err := sess.Bookings().GetByBookingNumber(ctx, number)
		if b, err = must(b, err, "Booking.NotFound", "booking not found"); err != nil {
			return BookingView{}, err
		}
		return bookingView(b), nil
	})
}

func (s *Service) ListCustomerBookings(ctx context.Context, customerID domain.CustomerID) ([]BookingView, error) {
	return query(ctx, s, "ListCustomerBookings", func(ctx context.Context, sess uow.Session) ([]BookingView, error) {
		if _, err := getCustomer(ctx, sess, customerID); err != nil {
			return nil, err
		}
		list, err := sess.Bookings().GetByCustomerID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		return mapViews(list, bookingView), nil
	})
}
