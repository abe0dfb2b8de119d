// Package app holds the command and query handlers of the booking service.
// Every operation runs inside a uow pipeline session and returns *Error on
// failure.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

const defaultSlotStep = 15 * time.Minute

type Options struct {
	// Numbers issues booking numbers. Defaults to RandomNumbers.
	Numbers BookingNumberGenerator
	// Cache stores computed slot lists. Nil disables caching.
	Cache    *availability.Cache
	SlotStep time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

type Service struct {
	pipeline *uow.Pipeline
	numbers  BookingNumberGenerator
	cache    *availability.Cache
	slotStep time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func New(pipeline *uow.Pipeline, opts Options) *Service {
	s := &Service{
		pipeline: pipeline,
		numbers:  opts.Numbers,
		cache:    opts.Cache,
		slotStep: opts.SlotStep,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if s.numbers == nil {
		s.numbers = RandomNumbers{}
	}
	if s.slotStep <= 0 {
		s.slotStep = defaultSlotStep
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// command runs fn as a pipeline command and translates its error.
func command[T any](ctx context.Context, s *Service, name string, fn func(ctx context.Context, sess uow.Session) (T, error)) (T, error) {
	v, err := uow.Command(ctx, s.pipeline, name, fn)
	return v, translate(err)
}

func query[T any](ctx context.Context, s *Service, name string, fn func(ctx context.Context, sess uow.Session) (T, error)) (T, error) {
	v, err := uow.Query(ctx, s.pipeline, name, fn)
	return v, translate(err)
}

// must replaces ErrNotFound with a coded not-found error.
func must[T any](v T, err error, code, message string) (T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return v, notFound(code, message)
	}
	return v, err
}

func getProvider(ctx context.Context, sess uow.Session, id domain.ProviderID) (*domain.Provider, error) {
	p, err := sess.Providers().GetByID(ctx, id)
	return must(p, err, "Provider.NotFound", "provider not found")
}

func getService(ctx context.Context, sess uow.Session, id domain.ServiceID) (*domain.Service, error) {
	svc, err := sess.Services().GetByID(ctx, id)
	return must(svc, err, "Service.NotFound", "service not found")
}

func getStaff(ctx context.Context, sess uow.Session, id domain.StaffID) (*domain.Staff, error) {
	st, err := sess.Staff().GetByID(ctx, id)
	return must(st, err, "Staff.NotFound", "staff member not found")
}

func getCustomer(ctx context.Context, sess uow.Session, id domain.CustomerID) (*domain.Customer, error) {
	c, err := sess.Customers().GetByID(ctx, id)
	return must(c, err, "Customer.NotFound", "customer not found")
}

func getBooking(ctx context.Context, sess uow.Session, id domain.BookingID) (*domain.Booking, error) {
	b, err := sess.Bookings().GetByID(ctx, id)
	return must(b, err, "Booking.NotFound", "booking not found")
}
