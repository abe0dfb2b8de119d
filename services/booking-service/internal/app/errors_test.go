package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

func TestTranslate(t *testing.T) {
	_, ruleErr := domain.NewSlug("Not A Slug")
	tests := []struct {
		name string
		err  error
		kind Kind
		code string
	}{
		{"rule", ruleErr, KindValidation, CodeRuleViolation},
		{"not found", fmt.Errorf("load: %w", domain.ErrNotFound), KindNotFound, "Resource.NotFound"},
		{"slot taken", domain.ErrSlotTaken, KindConflict, CodeSlotUnavailable},
		{"save conflict", &uow.SaveError{Err: fmt.Errorf("%w: slug", uow.ErrConflict)}, KindConflict, CodeConflict},
		{"save failure", &uow.SaveError{Err: errors.New("connection reset")}, KindFailure, CodePersistence},
		{"cancelled", context.Canceled, KindFailure, CodeInternal},
		{"passthrough", conflict(CodeSlugExists, "taken"), KindConflict, CodeSlugExists},
		{"slug index", &uow.SaveError{Err: &uow.ConflictError{Constraint: uow.ConstraintProviderSlug, Err: errors.New("dup")}}, KindConflict, CodeSlugExists},
		{"email index", &uow.SaveError{Err: &uow.ConflictError{Constraint: uow.ConstraintCustomerEmail, Err: errors.New("dup")}}, KindConflict, CodeEmailExists},
		{"staff overlap", &uow.SaveError{Err: &uow.ConflictError{Constraint: uow.ConstraintStaffOverlap, Err: errors.New("overlap")}}, KindConflict, CodeSlotUnavailable},
		{"capacity", &uow.SaveError{Err: &uow.ConflictError{Constraint: uow.ConstraintCapacity, Err: errors.New("full")}}, KindConflict, CodeSlotUnavailable},
		{"stale version", &uow.SaveError{Err: &uow.ConflictError{Constraint: uow.ConstraintVersion, Err: errors.New("stale")}}, KindConflict, CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsError(translate(tt.err))
			if got.Kind != tt.kind || got.Code != tt.code {
				t.Fatalf("expected %s/%s, got %s/%s", tt.kind, tt.code, got.Kind, got.Code)
			}
		})
	}
	if translate(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestAsError_ClassifiesPlainErrors(t *testing.T) {
	got := AsError(errors.New("boom"))
	if got.Kind != KindFailure || got.Code != CodeInternal {
		t.Fatalf("expected failure/%s, got %s/%s", CodeInternal, got.Kind, got.Code)
	}
	if got.Cause == nil || got.Cause.Error() != "boom" {
		t.Fatalf("cause lost: %v", got.Cause)
	}
	if got := AsError(fmt.Errorf("load: %w", domain.ErrNotFound)); got.Kind != KindNotFound {
		t.Fatalf("expected not_found, got %s", got.Kind)
	}
	want := invalid(CodeValidation, "bad")
	if got := AsError(fmt.Errorf("wrapped: %w", want)); got != want {
		t.Fatalf("expected the wrapped application error back")
	}
}
