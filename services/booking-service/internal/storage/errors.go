package storage

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeExclusionViolation, codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// classify tags store errors that mean "someone else got there first" with
// uow.ErrConflict, keeping the original error for logs.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			c := constraintFor(pgErr.ConstraintName)
			return &uow.ConflictError{Constraint: c.name, Err: fmt.Errorf("%s already exists: %w", c.subject, err)}
		case codeExclusionViolation:
			return &uow.ConflictError{Constraint: uow.ConstraintStaffOverlap, Err: fmt.Errorf("overlapping booking for the same staff member: %w", err)}
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: referenced record does not exist: %w", uow.ErrConflict, err)
		}
	}
	if IsConflict(err) {
		return fmt.Errorf("%w: %w", uow.ErrConflict, err)
	}
	return err
}

type constraint struct{ name, subject string }

// constraints maps schema index names onto uow constraint names.
var constraints = map[string]constraint{
	"providers_slug_key":  {uow.ConstraintProviderSlug, "provider slug"},
	"customers_email_key": {uow.ConstraintCustomerEmail, "customer email"},
	"bookings_number_key": {uow.ConstraintBookingNumber, "booking number"},
}

func constraintFor(name string) constraint {
	if c, ok := constraints[name]; ok {
		return c
	}
	return constraint{subject: "record"}
}
