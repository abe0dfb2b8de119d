// Package memstore is an in-memory uow.Store. It enforces the same
// uniqueness, exclusion, capacity and version rules as the Postgres store
// and is used by tests and local runs without a database.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

var errReadOnly = errors.New("memstore: write in read-only session")

type tables struct {
	providers map[domain.ProviderID]domain.ProviderSnapshot
	services  map[domain.ServiceID]domain.ServiceSnapshot
	staff     map[domain.StaffID]domain.StaffSnapshot
	customers map[domain.CustomerID]domain.CustomerSnapshot
	bookings  map[domain.BookingID]domain.BookingSnapshot
}

func (t tables) clone() tables {
	return tables{
		providers: maps.Clone(t.providers),
		services:  maps.Clone(t.services),
		staff:     maps.Clone(t.staff),
		customers: maps.Clone(t.customers),
		bookings:  maps.Clone(t.bookings),
	}
}

type Store struct {
	mu       sync.Mutex
	data     tables
	outbox   []domain.Event
	failNext error
	commits  int
}

func New() *Store {
	return &Store{data: tables{
		providers: map[domain.ProviderID]domain.ProviderSnapshot{},
		services:  map[domain.ServiceID]domain.ServiceSnapshot{},
		staff:     map[domain.StaffID]domain.StaffSnapshot{},
		customers: map[domain.CustomerID]domain.CustomerSnapshot{},
		bookings:  map[domain.BookingID]domain.BookingSnapshot{},
	}}
}

// FailNextSave makes the next SaveChanges return err without writing.
func (s *Store) FailNextSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Outbox returns every event committed so far, in commit order.
func (s *Store) Outbox() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outbox)
}

func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) Begin(ctx context.Context, mode uow.Mode) (uow.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{store: s, mode: mode, tracker: uow.NewTracker()}, nil
}

func (s *Store) read(fn func(t tables)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// commit applies pending entries to a copy of the tables and swaps it in
// only when every write passed its checks.
func (s *Store) commit(pending []*uow.Entry, events []domain.Event) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failNext; err != nil {
		s.failNext = nil
		return 0, err
	}

	next := s.data.clone()
	rows := 0
	for _, e := range pending {
		if err := apply(next, e); err != nil {
			return 0, err
		}
		rows++
	}
	if err := checkConstraints(next, pending); err != nil {
		return 0, err
	}
	s.data = next
	s.outbox = append(s.outbox, events...)
	s.commits++
	return rows, nil
}

func apply(t tables, e *uow.Entry) error {
	if e.State == uow.Deleted {
		return deleteRow(t, e.Key)
	}
	switch a := e.Aggregate.(type) {
	case *domain.Provider:
		snap := a.Snapshot()
		return putRow(t.providers, snap.ID, snap, e.State, func(s *domain.ProviderSnapshot) *int64 { return &s.Version })
	case *domain.Service:
		snap := a.Snapshot()
		return putRow(t.services, snap.ID, snap, e.State, func(s *domain.ServiceSnapshot) *int64 { return &s.Version })
	case *domain.Staff:
		snap := a.Snapshot()
		return putRow(t.staff, snap.ID, snap, e.State, func(s *domain.StaffSnapshot) *int64 { return &s.Version })
	case *domain.Customer:
		snap := a.Snapshot()
		return putRow(t.customers, snap.ID, snap, e.State, func(s *domain.CustomerSnapshot) *int64 { return &s.Version })
	case *domain.Booking:
		snap := a.Snapshot()
		return putRow(t.bookings, snap.ID, snap, e.State, func(s *domain.BookingSnapshot) *int64 { return &s.Version })
	}
	return fmt.Errorf("memstore: unsupported aggregate %T", e.Aggregate)
}

func putRow[K comparable, S any](m map[K]S, id K, snap S, state uow.State, version func(*S) *int64) error {
	current, exists := m[id]
	v := *version(&snap)
	switch state {
	case uow.Added:
		if exists {
			return conflict("", "duplicate id %v", id)
		}
	case uow.Modified:
		if !exists {
			return conflict(uow.ConstraintVersion, "row %v no longer exists", id)
		}
		if stored := *version(&current); stored != v {
			return conflict(uow.ConstraintVersion, "row %v changed concurrently (version %d, have %d)", id, stored, v)
		}
	}
	*version(&snap) = v + 1
	m[id] = snap
	return nil
}

func deleteRow(t tables, k uow.Key) error {
	switch k.Type {
	case domain.AggregateProvider:
		delete(t.providers, domain.ProviderID(k.ID))
	case domain.AggregateService:
		delete(t.services, domain.ServiceID(k.ID))
	case domain.AggregateStaff:
		delete(t.staff, domain.StaffID(k.ID))
	case domain.AggregateCustomer:
		delete(t.customers, domain.CustomerID(k.ID))
	case domain.AggregateBooking:
		delete(t.bookings, domain.BookingID(k.ID))
	default:
		return fmt.Errorf("memstore: unknown aggregate type %q", k.Type)
	}
	return nil
}

func conflict(constraint, format string, args ...any) error {
	return &uow.ConflictError{Constraint: constraint, Err: fmt.Errorf(format, args...)}
}

// checkConstraints mirrors the schema's unique indexes and staff exclusion
// constraint. Direct-service capacity is checked for newly added bookings
// only, which is where the service row lock arbitrates it in Postgres.
func checkConstraints(t tables, pending []*uow.Entry) error {
	slugs := map[string]bool{}
	for _, p := range t.providers {
		if slugs[p.Slug] {
			return conflict(uow.ConstraintProviderSlug, "provider slug %q already exists", p.Slug)
		}
		slugs[p.Slug] = true
	}
	emails := map[string]bool{}
	for _, c := range t.customers {
		key := strings.ToLower(c.Email)
		if emails[key] {
			return conflict(uow.ConstraintCustomerEmail, "customer email %q already exists", c.Email)
		}
		emails[key] = true
	}
	numbers := map[string]bool{}
	byStaff := map[dayKey][]domain.BookingSnapshot{}
	byService := map[dayKey][]domain.BookingSnapshot{}
	for _, b := range t.bookings {
		if numbers[b.Number] {
			return conflict(uow.ConstraintBookingNumber, "booking number %q already exists", b.Number)
		}
		numbers[b.Number] = true
		if !b.Status.Blocks() {
			continue
		}
		if b.StaffID.IsZero() {
			k := dayKey{b.ServiceID.UUID(), b.Date}
			byService[k] = append(byService[k], b)
		} else {
			k := dayKey{b.StaffID.UUID(), b.Date}
			byStaff[k] = append(byStaff[k], b)
		}
	}
	for k, list := range byStaff {
		for i := range list {
			for j := i + 1; j < len(list); j++ {
				if span(list[i]).Overlaps(span(list[j])) {
					return conflict(uow.ConstraintStaffOverlap, "staff %s double booked on %s", k.id, k.date)
				}
			}
		}
	}
	for _, e := range pending {
		b, ok := e.Aggregate.(*domain.Booking)
		if !ok || e.State != uow.Added {
			continue
		}
		snap, stored := t.bookings[b.ID()]
		if !stored || !snap.StaffID.IsZero() || !snap.Status.Blocks() {
			continue
		}
		svc, ok := t.services[snap.ServiceID]
		if !ok {
			continue
		}
		var others []domain.TimeRange
		for _, o := range byService[dayKey{snap.ServiceID.UUID(), snap.Date}] {
			if o.ID != snap.ID {
				others = append(others, span(o))
			}
		}
		if domain.PeakConcurrency(others, span(snap))+1 > max(svc.MaxConcurrentBookings, 1) {
			return conflict(uow.ConstraintCapacity, "service %s is fully booked at %s %s", snap.ServiceID, snap.Date, snap.StartTime)
		}
	}
	return nil
}

type dayKey struct {
	id   uuid.UUID
	date civil.Date
}

func span(b domain.BookingSnapshot) domain.TimeRange {
	return domain.TimeRange{Start: b.StartTime, End: b.EndTime}
}

type session struct {
	store   *Store
	mode    uow.Mode
	tracker *uow.Tracker
	now     time.Time
	closed  bool
}

func (s *session) SetClock(now time.Time) { s.now = now }

func (s *session) Providers() domain.ProviderRepository { return providerRepo{s} }
func (s *session) Services() domain.ServiceRepository { return serviceRepo{s} }
func (s *session) Staff() domain.StaffRepository { return staffRepo{s} }
func (s *session) Customers() domain.CustomerRepository { return customerRepo{s} }
func (s *session) Bookings() domain.BookingRepository { return bookingRepo{s} }

func (s *session) CollectDomainEvents() []domain.Event { return s.tracker.Events() }
func (s *session) ClearDomainEvents() { s.tracker.ClearEvents() }

func (s *session) SaveChanges(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.closed {
		return 0, errors.New("memstore: session closed")
	}
	if s.mode == uow.ReadOnly {
		return 0, errReadOnly
	}
	now := s.now
	if now.IsZero() {
		now = time.Now()
	}
	s.tracker.Stamp(now)
	pending := s.tracker.Pending()
	n, err := s.store.commit(pending, s.tracker.Events())
	if err != nil {
		return 0, err
	}
	s.tracker.AcceptChanges()
	return n, nil
}

func (s *session) Close(context.Context) error {
	s.closed = true
	return nil
}

func (s *session) writable() error {
	if s.closed {
		return errors.New("memstore: session closed")
	}
	if s.mode == uow.ReadOnly {
		return errReadOnly
	}
	return nil
}
