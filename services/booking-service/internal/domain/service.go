package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type BookingMode string

const (
	// BookingModeDirect books the service itself, up to its capacity.
	BookingModeDirect BookingMode = "direct"
	// BookingModeStaffBased books a specific staff member.
	BookingModeStaffBased BookingMode = "staff_based"
)

func ParseBookingMode(raw string) (BookingMode, error) {
	switch BookingMode(strings.ToLower(strings.TrimSpace(raw))) {
	case BookingModeDirect, "":
		return BookingModeDirect, nil
	case BookingModeStaffBased, "staffbased":
		return BookingModeStaffBased, nil
	}
	return "", ruleViolation("unknown booking mode %q", raw)
}

const maxServiceNameLength = 200

// Service is something a provider sells. Prices are in minor currency units.
type Service struct {
	Root
	id                    ServiceID
	providerID            ProviderID
	name                  string
	description           string
	durationMinutes       int
	priceMinor            int64
	currency              string
	mode                  BookingMode
	maxConcurrentBookings int
	schedule              *WeeklySchedule
	active                bool
}

func CreateService(providerID ProviderID, name string, durationMinutes int, priceMinor int64, currency string, mode BookingMode) (*Service, error) {
	if providerID.IsZero() {
		return nil, ruleViolation("provider id is required")
	}
	n, err := serviceFields(name, durationMinutes, priceMinor)
	if err != nil {
		return nil, err
	}
	cur, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	if mode != BookingModeDirect && mode != BookingModeStaffBased {
		return nil, ruleViolation("unknown booking mode %q", mode)
	}

	s := &Service{
		id:                    NewServiceID(),
		providerID:            providerID,
		name:                  n,
		durationMinutes:       durationMinutes,
		priceMinor:            priceMinor,
		currency:              cur,
		mode:                  mode,
		maxConcurrentBookings: 1,
		active:                true,
	}
	s.raise(ServiceCreated{
		eventMeta:       newMeta(),
		ServiceID:       s.id,
		ProviderID:      providerID,
		Name:            n,
		DurationMinutes: durationMinutes,
		PriceMinor:      priceMinor,
		Currency:        cur,
		BookingMode:     mode,
	})
	return s, nil
}

func serviceFields(name string, durationMinutes int, priceMinor int64) (string, error) {
	n, err := requireText("service name", name)
	if err != nil {
		return "", err
	}
	if err := maxLength("service name", n, maxServiceNameLength); err != nil {
		return "", err
	}
	if durationMinutes <= 0 {
		return "", ruleViolation("duration must be positive, got %d minutes", durationMinutes)
	}
	if durationMinutes > 24*60 {
		return "", ruleViolation("duration must fit within a day, got %d minutes", durationMinutes)
	}
	if priceMinor < 0 {
		return "", ruleViolation("price must not be negative")
	}
	return n, nil
}

func normalizeCurrency(raw string) (string, error) {
	c, err := requireText("currency", raw)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(c), nil
}

func (s *Service) AggregateID() uuid.UUID { return s.id.UUID() }
func (s *Service) AggregateType() string { return AggregateService }

func (s *Service) ID() ServiceID { return s.id }
func (s *Service) ProviderID() ProviderID { return s.providerID }
func (s *Service) Name() string { return s.name }
func (s *Service) Description() string { return s.description }
func (s *Service) DurationMinutes() int { return s.durationMinutes }
func (s *Service) Duration() time.Duration { return time.Duration(s.durationMinutes) * time.Minute }
func (s *Service) PriceMinor() int64 { return s.priceMinor }
func (s *Service) Currency() string { return s.currency }
func (s *Service) Mode() BookingMode { return s.mode }
func (s *Service) MaxConcurrentBookings() int { return s.maxConcurrentBookings }
func (s *Service) IsActive() bool { return s.active }

func (s *Service) RequiresStaff() bool { return s.mode == BookingModeStaffBased }

// Schedule reports the service's own hours. Staff-based services never
// have one.
func (s *Service) Schedule() (WeeklySchedule, bool) {
	if s.schedule == nil {
		return WeeklySchedule{}, false
	}
	return *s.schedule, true
}

func (s *Service) Update(name, description string, durationMinutes int, priceMinor int64) error {
	n, err := serviceFields(name, durationMinutes, priceMinor)
	if err != nil {
		return err
	}
	d := strings.TrimSpace(description)
	if err := maxLength("description", d, maxDescriptionLength); err != nil {
		return err
	}

	s.name, s.description, s.durationMinutes, s.priceMinor = n, d, durationMinutes, priceMinor
	s.raise(ServiceUpdated{
		eventMeta:       newMeta(),
		ServiceID:       s.id,
		ProviderID:      s.providerID,
		Name:            n,
		DurationMinutes: durationMinutes,
		PriceMinor:      priceMinor,
	})
	return nil
}

func (s *Service) SetSchedule(schedule WeeklySchedule) error {
	if s.RequiresStaff() {
		return ruleViolation("staff-based services take their hours from staff schedules")
	}
	s.schedule = &schedule
	s.raise(ServiceScheduleUpdated{eventMeta: newMeta(), ServiceID: s.id, ProviderID: s.providerID, Schedule: schedule})
	return nil
}

func (s *Service) SetMaxConcurrentBookings(n int) error {
	if s.RequiresStaff() {
		return ruleViolation("staff-based services allow one booking per staff member at a time")
	}
	if n < 1 {
		return ruleViolation("max concurrent bookings must be at least 1, got %d", n)
	}
	s.maxConcurrentBookings = n
	s.raise(ServiceCapacityChanged{eventMeta: newMeta(), ServiceID: s.id, ProviderID: s.providerID, MaxConcurrentBookings: n})
	return nil
}

func (s *Service) Activate() error {
	if s.active {
		return ruleViolation("service is already active")
	}
	s.active = true
	s.raise(ServiceActivated{eventMeta: newMeta(), ServiceID: s.id, ProviderID: s.providerID})
	return nil
}

func (s *Service) Deactivate() error {
	if !s.active {
		return ruleViolation("service is already inactive")
	}
	s.active = false
	s.raise(ServiceDeactivated{eventMeta: newMeta(), ServiceID: s.id, ProviderID: s.providerID})
	return nil
}

// Capacity is the number of bookings allowed to overlap at any instant.
func (s *Service) Capacity() int {
	if s.RequiresStaff() {
		return 1
	}
	return s.maxConcurrentBookings
}

type ServiceSnapshot struct {
	ID                    ServiceID
	ProviderID            ProviderID
	Name                  string
	Description           string
	DurationMinutes       int
	PriceMinor            int64
	Currency              string
	Mode                  BookingMode
	MaxConcurrentBookings int
	Schedule              *WeeklySchedule
	Active                bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Version               int64
}

func (s *Service) Snapshot() ServiceSnapshot {
	snap := ServiceSnapshot{
		ID:                    s.id,
		ProviderID:            s.providerID,
		Name:                  s.name,
		Description:           s.description,
		DurationMinutes:       s.durationMinutes,
		PriceMinor:            s.priceMinor,
		Currency:              s.currency,
		Mode:                  s.mode,
		MaxConcurrentBookings: s.maxConcurrentBookings,
		Active:                s.active,
		CreatedAt:             s.createdAt,
		UpdatedAt:             s.updatedAt,
		Version:               s.version,
	}
	if s.schedule != nil {
		sched := *s.schedule
		snap.Schedule = &sched
	}
	return snap
}

func RestoreService(snap ServiceSnapshot) (*Service, error) {
	if snap.MaxConcurrentBookings < 1 {
		return nil, ruleViolation("max concurrent bookings must be at least 1, got %d", snap.MaxConcurrentBookings)
	}
	s := &Service{
		id:                    snap.ID,
		providerID:            snap.ProviderID,
		name:                  snap.Name,
		description:           snap.Description,
		durationMinutes:       snap.DurationMinutes,
		priceMinor:            snap.PriceMinor,
		currency:              snap.Currency,
		mode:                  snap.Mode,
		maxConcurrentBookings: snap.MaxConcurrentBookings,
		active:                snap.Active,
	}
	if snap.Schedule != nil {
		sched := *snap.Schedule
		s.schedule = &sched
	}
	s.restore(snap.CreatedAt, snap.UpdatedAt, snap.Version)
	return s, nil
}
