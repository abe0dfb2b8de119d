package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when an aggregate is absent.
var ErrNotFound = errors.New("aggregate not found")

// ErrSlotTaken reports that a requested booking interval would exceed the
// capacity of the service or staff member for that date.
var ErrSlotTaken = errors.New("requested time slot is not available")

// RuleError is a business-rule violation. It is never a system fault and
// must not be retried.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func ruleViolation(format string, args ...any) error {
	return &RuleError{Message: fmt.Sprintf(format, args...)}
}

func IsRuleViolation(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}
