package memstore

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

// load returns the session's tracked instance when there is one, otherwise
// rebuilds the aggregate from its stored snapshot and starts tracking it.
func load[S any, A domain.Aggregate](s *session, typ string, id uuid.UUID, snap S, found bool, restore func(S) (A, error)) (A, error) {
	var zero A
	if s.tracker.Deleted(typ, id) {
		return zero, domain.ErrNotFound
	}
	if a, ok := s.tracker.Lookup(typ, id); ok {
		return a.(A), nil
	}
	if !found {
		return zero, domain.ErrNotFound
	}
	a, err := restore(snap)
	if err != nil {
		return zero, err
	}
	return s.tracker.Attach(a).(A), nil
}

func loadAll[S any, A domain.Aggregate](s *session, typ string, snaps []S, id func(S) uuid.UUID, restore func(S) (A, error)) ([]A, error) {
	out := make([]A, 0, len(snaps))
	for _, snap := range snaps {
		a, err := load(s, typ, id(snap), snap, true, restore)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

type providerRepo struct{ s *session }

func (r providerRepo) GetByID(ctx context.Context, id domain.ProviderID) (*domain.Provider, error) {
	var snap domain.ProviderSnapshot
	var found bool
	r.s.store.read(func(t tables) { snap, found = t.providers[id] })
	return load(r.s, domain.AggregateProvider, id.UUID(), snap, found, domain.RestoreProvider)
}

func (r providerRepo) GetBySlug(ctx context.Context, slug domain.Slug) (*domain.Provider, error) {
	var snap domain.ProviderSnapshot
	var found bool
	r.s.store.read(func(t tables) {
		for _, p := range t.providers {
			if p.Slug == slug.String() {
				snap, found = p, true
				return
			}
		}
	})
	return load(r.s, domain.AggregateProvider, snap.ID.UUID(), snap, found, domain.RestoreProvider)
}

func (r providerRepo) SlugExists(ctx context.Context, slug domain.Slug) (bool, error) {
	_, err := r.GetBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r providerRepo) Add(ctx context.Context, p *domain.Provider) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(p)
	return nil
}

func (r providerRepo) Update(ctx context.Context, p *domain.Provider) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(p)
	return nil
}

func (r providerRepo) Delete(ctx context.Context, id domain.ProviderID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateProvider, id.UUID())
	return nil
}

type serviceRepo struct{ s *session }

func (r serviceRepo) GetByID(ctx context.Context, id domain.ServiceID) (*domain.Service, error) {
	var snap domain.ServiceSnapshot
	var found bool
	r.s.store.read(func(t tables) { snap, found = t.services[id] })
	return load(r.s, domain.AggregateService, id.UUID(), snap, found, domain.RestoreService)
}

func (r serviceRepo) GetByProviderID(ctx context.Context, providerID domain.ProviderID) ([]*domain.Service, error) {
	var snaps []domain.ServiceSnapshot
	r.s.store.read(func(t tables) {
		for _, s := range t.services {
			if s.ProviderID == providerID {
				snaps = append(snaps, s)
			}
		}
	})
	slices.SortFunc(snaps, func(a, b domain.ServiceSnapshot) int { return cmp.Compare(a.Name, b.Name) })
	return loadAll(r.s, domain.AggregateService, snaps, func(s domain.ServiceSnapshot) uuid.UUID { return s.ID.UUID() }, domain.RestoreService)
}

func (r serviceRepo) Add(ctx context.Context, s *domain.Service) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(s)
	return nil
}

func (r serviceRepo) Update(ctx context.Context, s *domain.Service) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(s)
	return nil
}

func (r serviceRepo) Delete(ctx context.Context, id domain.ServiceID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateService, id.UUID())
	return nil
}

type staffRepo struct{ s *session }

func (r staffRepo) GetByID(ctx context.Context, id domain.StaffID) (*domain.Staff, error) {
	var snap domain.StaffSnapshot
	var found bool
	r.s.store.read(func(t tables) { snap, found = t.staff[id] })
	return load(r.s, domain.AggregateStaff, id.UUID(), snap, found, domain.RestoreStaff)
}

func (r staffRepo) list(match func(domain.StaffSnapshot) bool) ([]*domain.Staff, error) {
	var snaps []domain.StaffSnapshot
	r.s.store.read(func(t tables) {
		for _, s := range t.staff {
			if match(s) {
				snaps = append(snaps, s)
			}
		}
	})
	slices.SortFunc(snaps, func(a, b domain.StaffSnapshot) int { return cmp.Compare(a.Name, b.Name) })
	return loadAll(r.s, domain.AggregateStaff, snaps, func(s domain.StaffSnapshot) uuid.UUID { return s.ID.UUID() }, domain.RestoreStaff)
}

func (r staffRepo) GetByProviderID(ctx context.Context, providerID domain.ProviderID) ([]*domain.Staff, error) {
	return r.list(func(s domain.StaffSnapshot) bool { return s.ProviderID == providerID })
}

func (r staffRepo) GetByServiceID(ctx context.Context, serviceID domain.ServiceID) ([]*domain.Staff, error) {
	return r.list(func(s domain.StaffSnapshot) bool { return slices.Contains(s.ServiceIDs, serviceID) })
}

func (r staffRepo) Add(ctx context.Context, s *domain.Staff) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(s)
	return nil
}

func (r staffRepo) Update(ctx context.Context, s *domain.Staff) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(s)
	return nil
}

func (r staffRepo) Delete(ctx context.Context, id domain.StaffID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateStaff, id.UUID())
	return nil
}

type customerRepo struct{ s *session }

func (r customerRepo) GetByID(ctx context.Context, id domain.CustomerID) (*domain.Customer, error) {
	var snap domain.CustomerSnapshot
	var found bool
	r.s.store.read(func(t tables) { snap, found = t.customers[id] })
	return load(r.s, domain.AggregateCustomer, id.UUID(), snap, found, domain.RestoreCustomer)
}

func (r customerRepo) GetByEmail(ctx context.Context, email domain.Email) (*domain.Customer, error) {
	var snap domain.CustomerSnapshot
	var found bool
	r.s.store.read(func(t tables) {
		for _, c := range t.customers {
			if strings.EqualFold(c.Email, email.String()) {
				snap, found = c, true
				return
			}
		}
	})
	return load(r.s, domain.AggregateCustomer, snap.ID.UUID(), snap, found, domain.RestoreCustomer)
}

func (r customerRepo) Add(ctx context.Context, c *domain.Customer) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(c)
	return nil
}

func (r customerRepo) Update(ctx context.Context, c *domain.Customer) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(c)
	return nil
}

func (r customerRepo) Delete(ctx context.Context, id domain.CustomerID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateCustomer, id.UUID())
	return nil
}

type bookingRepo struct{ s *session }

func (r bookingRepo) GetByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	var snap domain.BookingSnapshot
	var found bool
	r.s.store.read(func(t tables) { snap, found = t.bookings[id] })
	return load(r.s, domain.AggregateBooking, id.UUID(), snap, found, domain.RestoreBooking)
}

func (r bookingRepo) GetByBookingNumber(ctx context.Context, number string) (*domain.Booking, error) {
	var snap domain.BookingSnapshot
	var found bool
	r.s.store.read(func(t tables) {
		for _, b := range t.bookings {
			if b.Number == number {
				snap, found = b, true
				return
			}
		}
	})
	return load(r.s, domain.AggregateBooking, snap.ID.UUID(), snap, found, domain.RestoreBooking)
}

func (r bookingRepo) list(match func(domain.BookingSnapshot) bool) ([]*domain.Booking, error) {
	var snaps []domain.BookingSnapshot
	r.s.store.read(func(t tables) {
		for _, b := range t.bookings {
			if match(b) {
				snaps = append(snaps, b)
			}
		}
	})
	slices.SortFunc(snaps, func(a, b domain.BookingSnapshot) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.StartTime.Compare(b.StartTime)
	})
	return loadAll(r.s, domain.AggregateBooking, snaps, func(b domain.BookingSnapshot) uuid.UUID { return b.ID.UUID() }, domain.RestoreBooking)
}

func (r bookingRepo) GetByServiceAndDate(ctx context.Context, serviceID domain.ServiceID, date civil.Date) ([]*domain.Booking, error) {
	return r.list(func(b domain.BookingSnapshot) bool { return b.ServiceID == serviceID && b.Date == date })
}

func (r bookingRepo) GetByStaffAndDate(ctx context.Context, staffID domain.StaffID, date civil.Date) ([]*domain.Booking, error) {
	return r.list(func(b domain.BookingSnapshot) bool { return b.StaffID == staffID && b.Date == date })
}

func (r bookingRepo) GetByCustomerID(ctx context.Context, customerID domain.CustomerID) ([]*domain.Booking, error) {
	return r.list(func(b domain.BookingSnapshot) bool { return b.CustomerID == customerID })
}

func (r bookingRepo) Add(ctx context.Context, b *domain.Booking) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(b)
	return nil
}

func (r bookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(b)
	return nil
}

func (r bookingRepo) Delete(ctx context.Context, id domain.BookingID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateBooking, id.UUID())
	return nil
}
