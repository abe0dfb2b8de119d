package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Identifiers are generated here, never by the store, so a new aggregate
// knows its identity before the first save. v7 keeps them index-friendly.
func newUUID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

func parseUUID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}

type ProviderID uuid.UUID

func NewProviderID() ProviderID { return ProviderID(newUUID()) }

func ParseProviderID(raw string) (ProviderID, error) {
	id, err := parseUUID("provider", raw)
	return ProviderID(id), err
}

func (id ProviderID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id ProviderID) String() string { return uuid.UUID(id).String() }
func (id ProviderID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProviderID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ProviderID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

type ServiceID uuid.UUID

func NewServiceID() ServiceID { return ServiceID(newUUID()) }

func ParseServiceID(raw string) (ServiceID, error) {
	id, err := parseUUID("service", raw)
	return ServiceID(id), err
}

func (id ServiceID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id ServiceID) String() string { return uuid.UUID(id).String() }
func (id ServiceID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id ServiceID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ServiceID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

type StaffID uuid.UUID

func NewStaffID() StaffID { return StaffID(newUUID()) }

func ParseStaffID(raw string) (StaffID, error) {
	id, err := parseUUID("staff", raw)
	return StaffID(id), err
}

func (id StaffID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id StaffID) String() string { return uuid.UUID(id).String() }
func (id StaffID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id StaffID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *StaffID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

type CustomerID uuid.UUID

func NewCustomerID() CustomerID { return CustomerID(newUUID()) }

func ParseCustomerID(raw string) (CustomerID, error) {
	id, err := parseUUID("customer", raw)
	return CustomerID(id), err
}

func (id CustomerID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id CustomerID) String() string { return uuid.UUID(id).String() }
func (id CustomerID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id CustomerID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *CustomerID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

type BookingID uuid.UUID

func NewBookingID() BookingID { return BookingID(newUUID()) }

func ParseBookingID(raw string) (BookingID, error) {
	id, err := parseUUID("booking", raw)
	return BookingID(id), err
}

func (id BookingID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id BookingID) String() string { return uuid.UUID(id).String() }
func (id BookingID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id BookingID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *BookingID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
