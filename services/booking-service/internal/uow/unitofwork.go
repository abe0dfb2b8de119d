// Package uow coordinates a request's aggregates: it tracks what was
// touched, persists it atomically and publishes the resulting domain
// events once the store has committed.
package uow

import (
	"context"
	"errors"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

// ErrConflict marks a save rejected by a uniqueness, exclusion or version
// check in the store. Stores wrap it; callers test with errors.Is.
var ErrConflict = errors.New("conflicting change")

// Constraints a store reports on conflict.
const (
	ConstraintProviderSlug  = "provider_slug"
	ConstraintCustomerEmail = "customer_email"
	ConstraintBookingNumber = "booking_number"
	ConstraintStaffOverlap  = "staff_overlap"
	ConstraintCapacity      = "service_capacity"
	ConstraintVersion       = "version"
)

// ConflictError is the ErrConflict a store returns when it can name the
// rule that rejected the save.
type ConflictError struct {
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error() + ": " + e.Err.Error()
}

func (e *ConflictError) Unwrap() error { return e.Err }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ConstraintOf returns the constraint named by a ConflictError in err's
// chain, or "" when there is none.
func ConstraintOf(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

// UnitOfWork is the persistence boundary of one request.
type UnitOfWork interface {
	// SaveChanges writes every pending change atomically and returns the
	// number of aggregate rows written. Queued events are left in place.
	SaveChanges(ctx context.Context) (int, error)
	CollectDomainEvents() []domain.Event
	ClearDomainEvents()
}

// Session is a request-scoped unit of work with its repositories.
type Session interface {
	UnitOfWork
	Providers() domain.ProviderRepository
	Services() domain.ServiceRepository
	Staff() domain.StaffRepository
	Customers() domain.CustomerRepository
	Bookings() domain.BookingRepository
	// Close releases the session. Uncommitted work is discarded.
	Close(ctx context.Context) error
}

type Mode int

const (
	ReadWrite Mode = iota
	ReadOnly
)

type skipLockKey struct{}

// WithoutRowLock returns a context under which a read-write session loads
// aggregates without locking their rows. Commands use it for aggregates
// they only inspect.
func WithoutRowLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipLockKey{}, true)
}

func RowLockSkipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipLockKey{}).(bool)
	return skip
}

// Store opens sessions.
type Store interface {
	Begin(ctx context.Context, mode Mode) (Session, error)
}

// SaveError wraps a failure from SaveChanges so callers can tell
// persistence failures from business errors.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return "save changes: " + e.Err.Error() }
func (e *SaveError) Unwrap() error { return e.Err }

func IsSaveError(err error) bool {
	var se *SaveError
	return errors.As(err, &se)
}
