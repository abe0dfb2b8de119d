package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Event is a fact raised by an aggregate mutation. The set is closed: only
// this package can implement it.
type Event interface {
	EventID() uuid.UUID
	OccurredOn() time.Time
	EventName() string
	AggregateType() string
	AggregateID() uuid.UUID
	domainEvent()
}

const (
	AggregateProvider = "provider"
	AggregateService  = "service"
	AggregateStaff    = "staff"
	AggregateCustomer = "customer"
	AggregateBooking  = "booking"
)

const (
	EventProviderCreated     = "provider.created.v1"
	EventProviderUpdated     = "provider.updated.v1"
	EventProviderActivated   = "provider.activated.v1"
	EventProviderDeactivated = "provider.deactivated.v1"

	EventServiceCreated         = "service.created.v1"
	EventServiceUpdated         = "service.updated.v1"
	EventServiceScheduleUpdated = "service.schedule_updated.v1"
	EventServiceCapacityChanged = "service.capacity_changed.v1"
	EventServiceActivated       = "service.activated.v1"
	EventServiceDeactivated     = "service.deactivated.v1"

	EventStaffCreated           = "staff.created.v1"
	EventStaffUpdated           = "staff.updated.v1"
	EventStaffScheduleUpdated   = "staff.schedule_updated.v1"
	EventStaffServiceAssigned   = "staff.service_assigned.v1"
	EventStaffServiceUnassigned = "staff.service_unassigned.v1"
	EventStaffActivated         = "staff.activated.v1"
	EventStaffDeactivated       = "staff.deactivated.v1"

	EventCustomerCreated = "customer.created.v1"
	EventCustomerUpdated = "customer.updated.v1"

	EventBookingCreated   = "booking.created.v1"
	EventBookingConfirmed = "booking.confirmed.v1"
	EventBookingCancelled = "booking.cancelled.v1"
	EventBookingCompleted = "booking.completed.v1"
	EventBookingNoShow    = "booking.no_show.v1"
)

// EventCatalogue lists every event name an aggregate can raise.
var EventCatalogue = []string{
	EventProviderCreated, EventProviderUpdated, EventProviderActivated, EventProviderDeactivated,
	EventServiceCreated, EventServiceUpdated, EventServiceScheduleUpdated, EventServiceCapacityChanged,
	EventServiceActivated, EventServiceDeactivated,
	EventStaffCreated, EventStaffUpdated, EventStaffScheduleUpdated, EventStaffServiceAssigned,
	EventStaffServiceUnassigned, EventStaffActivated, EventStaffDeactivated,
	EventCustomerCreated, EventCustomerUpdated,
	EventBookingCreated, EventBookingConfirmed, EventBookingCancelled, EventBookingCompleted,
	EventBookingNoShow,
}

type eventMeta struct {
	ID         uuid.UUID `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newMeta() eventMeta {
	return eventMeta{ID: newUUID(), OccurredAt: time.Now().UTC()}
}

func (m eventMeta) EventID() uuid.UUID { return m.ID }
func (m eventMeta) OccurredOn() time.Time { return m.OccurredAt }
func (eventMeta) domainEvent() {}

// Provider events.

type ProviderCreated struct {
	eventMeta
	ProviderID ProviderID `json:"provider_id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	Email      string     `json:"email"`
	TimeZone   string     `json:"time_zone"`
}

func (ProviderCreated) EventName() string { return EventProviderCreated }
func (ProviderCreated) AggregateType() string { return AggregateProvider }
func (e ProviderCreated) AggregateID() uuid.UUID { return e.ProviderID.UUID() }

type ProviderUpdated struct {
	eventMeta
	ProviderID ProviderID `json:"provider_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
}

func (ProviderUpdated) EventName() string { return EventProviderUpdated }
func (ProviderUpdated) AggregateType() string { return AggregateProvider }
func (e ProviderUpdated) AggregateID() uuid.UUID { return e.ProviderID.UUID() }

type ProviderActivated struct {
	eventMeta
	ProviderID ProviderID `json:"provider_id"`
}

func (ProviderActivated) EventName() string { return EventProviderActivated }
func (ProviderActivated) AggregateType() string { return AggregateProvider }
func (e ProviderActivated) AggregateID() uuid.UUID { return e.ProviderID.UUID() }

type ProviderDeactivated struct {
	eventMeta
	ProviderID ProviderID `json:"provider_id"`
}

func (ProviderDeactivated) EventName() string { return EventProviderDeactivated }
func (ProviderDeactivated) AggregateType() string { return AggregateProvider }
func (e ProviderDeactivated) AggregateID() uuid.UUID { return e.ProviderID.UUID() }

// Service events.

type ServiceCreated struct {
	eventMeta
	ServiceID       ServiceID   `json:"service_id"`
	ProviderID      ProviderID  `json:"provider_id"`
	Name            string      `json:"name"`
	DurationMinutes int         `json:"duration_minutes"`
	PriceMinor      int64       `json:"price_minor"`
	Currency        string      `json:"currency"`
	BookingMode     BookingMode `json:"booking_mode"`
}

func (ServiceCreated) EventName() string { return EventServiceCreated }
func (ServiceCreated) AggregateType() string { return AggregateService }
func (e ServiceCreated) AggregateID() uuid.UUID { return e.ServiceID.UUID() }

type ServiceUpdated struct {
	eventMeta
	ServiceID       ServiceID  `json:"service_id"`
	ProviderID      ProviderID `json:"provider_id"`
	Name            string     `json:"name"`
	DurationMinutes int        `json:"duration_minutes"`
	PriceMinor      int64      `json:"price_minor"`
}

func (ServiceUpdated) EventName() string { return EventServiceUpdated }
func (ServiceUpdated) AggregateType() string { return AggregateService }
func (e ServiceUpdated) AggregateID() uuid.UUID { return e.ServiceID.UUID() }

type ServiceScheduleUpdated struct {
	eventMeta
	ServiceID  ServiceID      `json:"service_id"`
	ProviderID ProviderID     `json:"provider_id"`
	Schedule   WeeklySchedule `json:"schedule"`
}

func (ServiceScheduleUpdated) EventName() string { return EventServiceScheduleUpdated }
func (ServiceScheduleUpdated) AggregateType() string { return AggregateService }
func (e ServiceScheduleUpdated) AggregateID() uuid.UUID { return e.ServiceID.UUID() }

type ServiceCapacityChanged struct {
	eventMeta
	ServiceID             ServiceID  `json:"service_id"`
	ProviderID            ProviderID `json:"provider_id"`
	MaxConcurrentBookings int        `json:"max_concurrent_bookings"`
}

func (ServiceCapacityChanged) EventName() string { return EventServiceCapacityChanged }
func (ServiceCapacityChanged) AggregateType() string { return AggregateService }
func (e ServiceCapacityChanged) AggregateID() uuid.UUID { return e.ServiceID.UUID() }

type ServiceActivated struct {
	eventMeta
	ServiceID  ServiceID  `json:"service_id"`
	ProviderID ProviderID `json:"provider_id"`
}

func (ServiceActivated) EventName() string { return EventServiceActivated }
func (ServiceActivated) AggregateType() string { return AggregateService }
func (e ServiceActivated) AggregateID() uuid.UUID { return e.ServiceID.UUID() }

type ServiceDeactivated struct {
	eventMeta
	ServiceID  ServiceID  `json:"service_id"`
	ProviderID ProviderID `json:"provider_id"`
}

func (ServiceDeactivated) EventName() string { return EventServiceDeactivated }
func (ServiceDeactivated) AggregateType() string { return AggregateService }
func (e ServiceDeactivated) AggregateID() uuid.UUID { return e.ServiceID.UUID() }

// Staff events.

type StaffCreated struct {
	eventMeta
	StaffID    StaffID    `json:"staff_id"`
	ProviderID ProviderID `json:"provider_id"`
	Name       string     `json:"name"`
}

func (StaffCreated) EventName() string { return EventStaffCreated }
func (StaffCreated) AggregateType() string { return AggregateStaff }
func (e StaffCreated) AggregateID() uuid.UUID { return e.StaffID.UUID() }

type StaffUpdated struct {
	eventMeta
	StaffID    StaffID    `json:"staff_id"`
	ProviderID ProviderID `json:"provider_id"`
	Name       string     `json:"name"`
}

func (StaffUpdated) EventName() string { return EventStaffUpdated }
func (StaffUpdated) AggregateType() string { return AggregateStaff }
func (e StaffUpdated) AggregateID() uuid.UUID { return e.StaffID.UUID() }

type StaffScheduleUpdated struct {
	eventMeta
	StaffID    StaffID        `json:"staff_id"`
	ProviderID ProviderID     `json:"provider_id"`
	Schedule   WeeklySchedule `json:"schedule"`
}

func (StaffScheduleUpdated) EventName() string { return EventStaffScheduleUpdated }
func (StaffScheduleUpdated) AggregateType() string { return AggregateStaff }
func (e StaffScheduleUpdated) AggregateID() uuid.UUID { return e.StaffID.UUID() }

type StaffServiceAssigned struct {
	eventMeta
	StaffID    StaffID    `json:"staff_id"`
	ProviderID ProviderID `json:"provider_id"`
	ServiceID  ServiceID  `json:"service_id"`
}

func (StaffServiceAssigned) EventName() string { return EventStaffServiceAssigned }
func (StaffServiceAssigned) AggregateType() string { return AggregateStaff }
func (e StaffServiceAssigned) AggregateID() uuid.UUID { return e.StaffID.UUID() }

type StaffServiceUnassigned struct {
	eventMeta
	StaffID    StaffID    `json:"staff_id"`
	ProviderID ProviderID `json:"provider_id"`
	ServiceID  ServiceID  `json:"service_id"`
}

func (StaffServiceUnassigned) EventName() string { return EventStaffServiceUnassigned }
func (StaffServiceUnassigned) AggregateType() string { return AggregateStaff }
func (e StaffServiceUnassigned) AggregateID() uuid.UUID { return e.StaffID.UUID() }

type StaffActivated struct {
	eventMeta
	StaffID    StaffID    `json:"staff_id"`
	ProviderID ProviderID `json:"provider_id"`
}

func (StaffActivated) EventName() string { return EventStaffActivated }
func (StaffActivated) AggregateType() string { return AggregateStaff }
func (e StaffActivated) AggregateID() uuid.UUID { return e.StaffID.UUID() }

type StaffDeactivated struct {
	eventMeta
	StaffID    StaffID    `json:"staff_id"`
	ProviderID ProviderID `json:"provider_id"`
}

func (StaffDeactivated) EventName() string { return EventStaffDeactivated }
func (StaffDeactivated) AggregateType() string { return AggregateStaff }
func (e StaffDeactivated) AggregateID() uuid.UUID { return e.StaffID.UUID() }

// Customer events.

type CustomerCreated struct {
	eventMeta
	CustomerID CustomerID `json:"customer_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
}

func (CustomerCreated) EventName() string { return EventCustomerCreated }
func (CustomerCreated) AggregateType() string { return AggregateCustomer }
func (e CustomerCreated) AggregateID() uuid.UUID { return e.CustomerID.UUID() }

type CustomerUpdated struct {
	eventMeta
	CustomerID CustomerID `json:"customer_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
}

func (CustomerUpdated) EventName() string { return EventCustomerUpdated }
func (CustomerUpdated) AggregateType() string { return AggregateCustomer }
func (e CustomerUpdated) AggregateID() uuid.UUID { return e.CustomerID.UUID() }

// Booking events. StaffID is omitted for direct bookings.

type BookingCreated struct {
	eventMeta
	BookingID     BookingID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	ProviderID    ProviderID `json:"provider_id"`
	ServiceID     ServiceID  `json:"service_id"`
	StaffID       StaffID    `json:"staff_id,omitzero"`
	CustomerID    CustomerID `json:"customer_id"`
	Date          civil.Date `json:"date"`
	StartTime     civil.Time `json:"start_time"`
	EndTime       civil.Time `json:"end_time"`
}

func (BookingCreated) EventName() string { return EventBookingCreated }
func (BookingCreated) AggregateType() string { return AggregateBooking }
func (e BookingCreated) AggregateID() uuid.UUID { return e.BookingID.UUID() }

type BookingConfirmed struct {
	eventMeta
	BookingID     BookingID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	ProviderID    ProviderID `json:"provider_id"`
	CustomerID    CustomerID `json:"customer_id"`
}

func (BookingConfirmed) EventName() string { return EventBookingConfirmed }
func (BookingConfirmed) AggregateType() string { return AggregateBooking }
func (e BookingConfirmed) AggregateID() uuid.UUID { return e.BookingID.UUID() }

type BookingCancelled struct {
	eventMeta
	BookingID     BookingID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	ProviderID    ProviderID `json:"provider_id"`
	ServiceID     ServiceID  `json:"service_id"`
	StaffID       StaffID    `json:"staff_id,omitzero"`
	Date          civil.Date `json:"date"`
	Reason        string     `json:"reason,omitempty"`
}

func (BookingCancelled) EventName() string { return EventBookingCancelled }
func (BookingCancelled) AggregateType() string { return AggregateBooking }
func (e BookingCancelled) AggregateID() uuid.UUID { return e.BookingID.UUID() }

type BookingCompleted struct {
	eventMeta
	BookingID     BookingID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	ProviderID    ProviderID `json:"provider_id"`
	CustomerID    CustomerID `json:"customer_id"`
}

func (BookingCompleted) EventName() string { return EventBookingCompleted }
func (BookingCompleted) AggregateType() string { return AggregateBooking }
func (e BookingCompleted) AggregateID() uuid.UUID { return e.BookingID.UUID() }

type BookingNoShow struct {
	eventMeta
	BookingID     BookingID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	ProviderID    ProviderID `json:"provider_id"`
	CustomerID    CustomerID `json:"customer_id"`
}

func (BookingNoShow) EventName() string { return EventBookingNoShow }
func (BookingNoShow) AggregateType() string { return AggregateBooking }
func (e BookingNoShow) AggregateID() uuid.UUID { return e.BookingID.UUID() }
