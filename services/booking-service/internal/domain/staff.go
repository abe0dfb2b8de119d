package domain

import (
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Staff is a person who performs staff-based services.
type Staff struct {
	Root
	id         StaffID
	providerID ProviderID
	name       string
	email      Email
	phone      string
	schedule   *WeeklySchedule
	serviceIDs []ServiceID
	active     bool
}

func CreateStaff(providerID ProviderID, name string) (*Staff, error) {
	if providerID.IsZero() {
		return nil, ruleViolation("provider id is required")
	}
	n, err := requireText("staff name", name)
	if err != nil {
		return nil, err
	}
	if err := maxLength("staff name", n, maxProviderNameLength); err != nil {
		return nil, err
	}

	st := &Staff{id: NewStaffID(), providerID: providerID, name: n, active: true}
	st.raise(StaffCreated{eventMeta: newMeta(), StaffID: st.id, ProviderID: providerID, Name: n})
	return st, nil
}

func (s *Staff) AggregateID() uuid.UUID { return s.id.UUID() }
func (s *Staff) AggregateType() string { return AggregateStaff }

func (s *Staff) ID() StaffID { return s.id }
func (s *Staff) ProviderID() ProviderID { return s.providerID }
func (s *Staff) Name() string { return s.name }
func (s *Staff) Email() Email { return s.email }
func (s *Staff) Phone() string { return s.phone }
func (s *Staff) IsActive() bool { return s.active }

func (s *Staff) ServiceIDs() []ServiceID { return slices.Clone(s.serviceIDs) }

func (s *Staff) Schedule() (WeeklySchedule, bool) {
	if s.schedule == nil {
		return WeeklySchedule{}, false
	}
	return *s.schedule, true
}

// Update replaces name and contact details. An empty email clears it.
func (s *Staff) Update(name, email, phone string) error {
	n, err := requireText("staff name", name)
	if err != nil {
		return err
	}
	if err := maxLength("staff name", n, maxProviderNameLength); err != nil {
		return err
	}
	e, err := optionalEmail(email)
	if err != nil {
		return err
	}
	ph := strings.TrimSpace(phone)
	if err := maxLength("phone", ph, maxPhoneLength); err != nil {
		return err
	}

	s.name, s.email, s.phone = n, e, ph
	s.raise(StaffUpdated{eventMeta: newMeta(), StaffID: s.id, ProviderID: s.providerID, Name: n})
	return nil
}

func (s *Staff) SetSchedule(schedule WeeklySchedule) error {
	s.schedule = &schedule
	s.raise(StaffScheduleUpdated{eventMeta: newMeta(), StaffID: s.id, ProviderID: s.providerID, Schedule: schedule})
	return nil
}

// AssignService is idempotent: assigning an already assigned service
// changes nothing and raises nothing.
func (s *Staff) AssignService(id ServiceID) error {
	if id.IsZero() {
		return ruleViolation("service id is required")
	}
	if s.IsAssignedTo(id) {
		return nil
	}
	s.serviceIDs = append(s.serviceIDs, id)
	s.raise(StaffServiceAssigned{eventMeta: newMeta(), StaffID: s.id, ProviderID: s.providerID, ServiceID: id})
	return nil
}

func (s *Staff) UnassignService(id ServiceID) error {
	i := slices.Index(s.serviceIDs, id)
	if i < 0 {
		return nil
	}
	s.serviceIDs = slices.Delete(s.serviceIDs, i, i+1)
	s.raise(StaffServiceUnassigned{eventMeta: newMeta(), StaffID: s.id, ProviderID: s.providerID, ServiceID: id})
	return nil
}

func (s *Staff) IsAssignedTo(id ServiceID) bool { return slices.Contains(s.serviceIDs, id) }

// IsAvailableAt checks the schedule only. Existing bookings are not
// considered.
func (s *Staff) IsAvailableAt(day time.Weekday, t civil.Time) bool {
	if s.schedule == nil {
		return false
	}
	h, ok := s.schedule.GetHours(day)
	return ok && h.Contains(t)
}

// IsAvailableFor reports whether [start, end) on day lies within the
// staff member's working hours.
func (s *Staff) IsAvailableFor(day time.Weekday, start, end civil.Time) bool {
	if s.schedule == nil {
		return false
	}
	h, ok := s.schedule.GetHours(day)
	return ok && h.Covers(start, end)
}

func (s *Staff) Activate() error {
	if s.active {
		return ruleViolation("staff member is already active")
	}
	s.active = true
	s.raise(StaffActivated{eventMeta: newMeta(), StaffID: s.id, ProviderID: s.providerID})
	return nil
}

func (s *Staff) Deactivate() error {
	if !s.active {
		return ruleViolation("staff member is already inactive")
	}
	s.active = false
	s.raise(StaffDeactivated{eventMeta: newMeta(), StaffID: s.id, ProviderID: s.providerID})
	return nil
}

type StaffSnapshot struct {
	ID         StaffID
	ProviderID ProviderID
	Name       string
	Email      string
	Phone      string
	Schedule   *WeeklySchedule
	ServiceIDs []ServiceID
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}

func (s *Staff) Snapshot() StaffSnapshot {
	snap := StaffSnapshot{
		ID:         s.id,
		ProviderID: s.providerID,
		Name:       s.name,
		Email:      s.email.String(),
		Phone:      s.phone,
		ServiceIDs: slices.Clone(s.serviceIDs),
		Active:     s.active,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
		Version:    s.version,
	}
	if s.schedule != nil {
		sched := *s.schedule
		snap.Schedule = &sched
	}
	return snap
}

func RestoreStaff(snap StaffSnapshot) (*Staff, error) {
	email, err := optionalEmail(snap.Email)
	if err != nil {
		return nil, err
	}
	s := &Staff{
		id:         snap.ID,
		providerID: snap.ProviderID,
		name:       snap.Name,
		email:      email,
		phone:      snap.Phone,
		serviceIDs: slices.Clone(snap.ServiceIDs),
		active:     snap.Active,
	}
	if snap.Schedule != nil {
		sched := *snap.Schedule
		s.schedule = &sched
	}
	s.restore(snap.CreatedAt, snap.UpdatedAt, snap.Version)
	return s, nil
}
