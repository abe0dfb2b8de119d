package app

import (
	"context"
	"errors"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

// Kind classifies an application failure for transports.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindFailure    Kind = "failure"
)

const (
	CodeRuleViolation   = "Domain.RuleViolation"
	CodeValidation      = "Validation.Failed"
	CodeConflict        = "Persistence.Conflict"
	CodePersistence     = "Persistence.Failed"
	CodeInternal        = "Server.InternalError"
	CodeSlotUnavailable = "Booking.SlotUnavailable"
	CodeSlugExists      = "Provider.SlugExists"
	CodeEmailExists     = "Customer.EmailExists"

	msgSlugExists  = "a provider with this slug already exists"
	msgEmailExists = "a customer with this email already exists"
)

// Error is the failure type returned by every Service method.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Code + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func notFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func invalid(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// AsError extracts the application error from err, classifying anything
// else as an internal failure.
func AsError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return classify(err)
}

// translate maps domain, store and pipeline errors onto application errors.
// A nil err stays nil.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return classify(err)
}

func classify(err error) *Error {
	var rule *domain.RuleError
	switch {
	case errors.As(err, &rule):
		return &Error{Kind: KindValidation, Code: CodeRuleViolation, Message: rule.Message, Cause: err}
	case errors.Is(err, domain.ErrNotFound):
		return &Error{Kind: KindNotFound, Code: "Resource.NotFound", Message: "resource not found", Cause: err}
	case errors.Is(err, domain.ErrSlotTaken):
		return &Error{Kind: KindConflict, Code: CodeSlotUnavailable, Message: domain.ErrSlotTaken.Error(), Cause: err}
	case errors.Is(err, uow.ErrConflict):
		return conflictFor(err)
	case uow.IsSaveError(err):
		return &Error{Kind: KindFailure, Code: CodePersistence, Message: "changes could not be saved", Cause: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindFailure, Code: CodeInternal, Message: "request cancelled", Cause: err}
	}
	return &Error{Kind: KindFailure, Code: CodeInternal, Message: "an internal error occurred", Cause: err}
}

// conflictFor names store conflicts that race past an explicit check the
// same way the check itself would have.
func conflictFor(err error) *Error {
	e := &Error{Kind: KindConflict, Code: CodeConflict, Message: "the change conflicts with existing data", Cause: err}
	switch uow.ConstraintOf(err) {
	case uow.ConstraintProviderSlug:
		e.Code, e.Message = CodeSlugExists, msgSlugExists
	case uow.ConstraintCustomerEmail:
		e.Code, e.Message = CodeEmailExists, msgEmailExists
	case uow.ConstraintStaffOverlap, uow.ConstraintCapacity:
		e.Code, e.Message = CodeSlotUnavailable, domain.ErrSlotTaken.Error()
	}
	return e
}
