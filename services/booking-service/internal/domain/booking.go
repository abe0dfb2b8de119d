package domain

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Blocks reports whether a booking in this status occupies its slot.
func (s BookingStatus) Blocks() bool { return s != StatusCancelled }

const (
	maxBookingNumberLength = 50
	maxNotesLength         = 1000
)

// BookingParams is the shared input of CreateDirect and CreateWithStaff.
// Service name, price and currency are copied from the service at booking
// time and never change afterwards.
type BookingParams struct {
	Number          string
	ProviderID      ProviderID
	ServiceID       ServiceID
	CustomerID      CustomerID
	Date            civil.Date
	StartTime       civil.Time
	EndTime         civil.Time
	ServiceName     string
	ServicePrice    int64
	ServiceCurrency string
	CustomerNotes   string
}

type Booking struct {
	Root
	id                 BookingID
	number             string
	providerID         ProviderID
	serviceID          ServiceID
	staffID            StaffID
	customerID         CustomerID
	date               civil.Date
	startTime          civil.Time
	endTime            civil.Time
	status             BookingStatus
	serviceName        string
	servicePrice       int64
	serviceCurrency    string
	staffName          string
	customerNotes      string
	cancellationReason string
	cancelledAt        time.Time
}

// CreateDirect books a service without a staff member.
func CreateDirect(p BookingParams) (*Booking, error) {
	b, err := newBooking(p)
	if err != nil {
		return nil, err
	}
	b.raiseCreated()
	return b, nil
}

// CreateWithStaff books a service performed by a specific staff member.
func CreateWithStaff(p BookingParams, staffID StaffID, staffName string) (*Booking, error) {
	b, err := newBooking(p)
	if err != nil {
		return nil, err
	}
	if staffID.IsZero() {
		return nil, ruleViolation("staff id is required for a staff booking")
	}
	name, err := requireText("staff name", staffName)
	if err != nil {
		return nil, err
	}
	b.staffID, b.staffName = staffID, name
	b.raiseCreated()
	return b, nil
}

func newBooking(p BookingParams) (*Booking, error) {
	number, err := requireText("booking number", p.Number)
	if err != nil {
		return nil, err
	}
	if err := maxLength("booking number", number, maxBookingNumberLength); err != nil {
		return nil, err
	}
	if p.ProviderID.IsZero() || p.ServiceID.IsZero() || p.CustomerID.IsZero() {
		return nil, ruleViolation("provider, service and customer ids are required")
	}
	serviceName, err := requireText("service name", p.ServiceName)
	if err != nil {
		return nil, err
	}
	if p.ServicePrice < 0 {
		return nil, ruleViolation("service price must not be negative")
	}
	currency, err := normalizeCurrency(p.ServiceCurrency)
	if err != nil {
		return nil, err
	}
	if !p.Date.IsValid() {
		return nil, ruleViolation("booking date is required")
	}
	if !p.StartTime.IsValid() || !p.EndTime.IsValid() {
		return nil, ruleViolation("booking start and end times must be valid times of day")
	}
	if !p.EndTime.After(p.StartTime) {
		return nil, ruleViolation("end time (%s) must be after start time (%s)", p.EndTime, p.StartTime)
	}
	notes := strings.TrimSpace(p.CustomerNotes)
	if err := maxLength("customer notes", notes, maxNotesLength); err != nil {
		return nil, err
	}

	return &Booking{
		id:              NewBookingID(),
		number:          number,
		providerID:      p.ProviderID,
		serviceID:       p.ServiceID,
		customerID:      p.CustomerID,
		date:            p.Date,
		startTime:       p.StartTime,
		endTime:         p.EndTime,
		status:          StatusPending,
		serviceName:     serviceName,
		servicePrice:    p.ServicePrice,
		serviceCurrency: currency,
		customerNotes:   notes,
	}, nil
}

func (b *Booking) raiseCreated() {
	b.raise(BookingCreated{
		eventMeta:     newMeta(),
		BookingID:     b.id,
		BookingNumber: b.number,
		ProviderID:    b.providerID,
		ServiceID:     b.serviceID,
		StaffID:       b.staffID,
		CustomerID:    b.customerID,
		Date:          b.date,
		StartTime:     b.startTime,
		EndTime:       b.endTime,
	})
}

func (b *Booking) AggregateID() uuid.UUID { return b.id.UUID() }
func (b *Booking) AggregateType() string { return AggregateBooking }

func (b *Booking) ID() BookingID { return b.id }
func (b *Booking) Number() string { return b.number }
func (b *Booking) ProviderID() ProviderID { return b.providerID }
func (b *Booking) ServiceID() ServiceID { return b.serviceID }
func (b *Booking) StaffID() StaffID { return b.staffID }
func (b *Booking) CustomerID() CustomerID { return b.customerID }
func (b *Booking) Date() civil.Date { return b.date }
func (b *Booking) StartTime() civil.Time { return b.startTime }
func (b *Booking) EndTime() civil.Time { return b.endTime }
func (b *Booking) Status() BookingStatus { return b.status }
func (b *Booking) ServiceName() string { return b.serviceName }
func (b *Booking) ServicePrice() int64 { return b.servicePrice }
func (b *Booking) ServiceCurrency() string { return b.serviceCurrency }
func (b *Booking) StaffName() string { return b.staffName }
func (b *Booking) CustomerNotes() string { return b.customerNotes }
func (b *Booking) CancellationReason() string { return b.cancellationReason }
func (b *Booking) CancelledAt() time.Time { return b.cancelledAt }

func (b *Booking) HasStaff() bool { return !b.staffID.IsZero() }

// Span is the booked interval within its date.
func (b *Booking) Span() TimeRange { return TimeRange{Start: b.startTime, End: b.endTime} }

func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return ruleViolation("cannot confirm booking with status %s", b.status)
	}
	b.status = StatusConfirmed
	b.raise(BookingConfirmed{eventMeta: newMeta(), BookingID: b.id, BookingNumber: b.number, ProviderID: b.providerID, CustomerID: b.customerID})
	return nil
}

func (b *Booking) Cancel(reason string) error {
	switch b.status {
	case StatusCompleted:
		return ruleViolation("cannot cancel a completed booking")
	case StatusCancelled:
		return ruleViolation("booking is already cancelled")
	case StatusNoShow:
		return ruleViolation("cannot cancel a no-show booking")
	}
	r := strings.TrimSpace(reason)
	if err := maxLength("cancellation reason", r, maxNotesLength); err != nil {
		return err
	}
	b.status = StatusCancelled
	b.cancellationReason = r
	b.cancelledAt = time.Now().UTC()
	b.raise(BookingCancelled{
		eventMeta:     newMeta(),
		BookingID:     b.id,
		BookingNumber: b.number,
		ProviderID:    b.providerID,
		ServiceID:     b.serviceID,
		StaffID:       b.staffID,
		Date:          b.date,
		Reason:        r,
	})
	return nil
}

func (b *Booking) Complete() error {
	if b.status != StatusConfirmed {
		return ruleViolation("cannot complete booking with status %s", b.status)
	}
	b.status = StatusCompleted
	b.raise(BookingCompleted{eventMeta: newMeta(), BookingID: b.id, BookingNumber: b.number, ProviderID: b.providerID, CustomerID: b.customerID})
	return nil
}

func (b *Booking) MarkAsNoShow() error {
	if b.status != StatusConfirmed {
		return ruleViolation("cannot mark booking with status %s as no-show", b.status)
	}
	b.status = StatusNoShow
	b.raise(BookingNoShow{eventMeta: newMeta(), BookingID: b.id, BookingNumber: b.number, ProviderID: b.providerID, CustomerID: b.customerID})
	return nil
}

type BookingSnapshot struct {
	ID                 BookingID
	Number             string
	ProviderID         ProviderID
	ServiceID          ServiceID
	StaffID            StaffID
	CustomerID         CustomerID
	Date               civil.Date
	StartTime          civil.Time
	EndTime            civil.Time
	Status             BookingStatus
	ServiceName        string
	ServicePrice       int64
	ServiceCurrency    string
	StaffName          string
	CustomerNotes      string
	CancellationReason string
	CancelledAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int64
}

func (b *Booking) Snapshot() BookingSnapshot {
	return BookingSnapshot{
		ID:                 b.id,
		Number:             b.number,
		ProviderID:         b.providerID,
		ServiceID:          b.serviceID,
		StaffID:            b.staffID,
		CustomerID:         b.customerID,
		Date:               b.date,
		StartTime:          b.startTime,
		EndTime:            b.endTime,
		Status:             b.status,
		ServiceName:        b.serviceName,
		ServicePrice:       b.servicePrice,
		ServiceCurrency:    b.serviceCurrency,
		StaffName:          b.staffName,
		CustomerNotes:      b.customerNotes,
		CancellationReason: b.cancellationReason,
		CancelledAt:        b.cancelledAt,
		CreatedAt:          b.createdAt,
		UpdatedAt:          b.updatedAt,
		Version:            b.version,
	}
}

func RestoreBooking(s BookingSnapshot) (*Booking, error) {
	if !s.Status.Valid() {
		return nil, ruleViolation("unknown booking status %q", s.Status)
	}
	if !s.EndTime.After(s.StartTime) {
		return nil, ruleViolation("end time (%s) must be after start time (%s)", s.EndTime, s.StartTime)
	}
	b := &Booking{
		id:                 s.ID,
		number:             s.Number,
		providerID:         s.ProviderID,
		serviceID:          s.ServiceID,
		staffID:            s.StaffID,
		customerID:         s.CustomerID,
		date:               s.Date,
		startTime:          s.StartTime,
		endTime:            s.EndTime,
		status:             s.Status,
		serviceName:        s.ServiceName,
		servicePrice:       s.ServicePrice,
		serviceCurrency:    s.ServiceCurrency,
		staffName:          s.StaffName,
		customerNotes:      s.CustomerNotes,
		cancellationReason: s.CancellationReason,
		cancelledAt:        s.CancelledAt,
	}
	b.restore(s.CreatedAt, s.UpdatedAt, s.Version)
	return b, nil
}
