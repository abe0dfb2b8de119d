package app

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

// Views are the read models handed to transports. They are built after a
// command has saved, so Version and UpdatedAt reflect the stored row.

type ProviderView struct {
	ID          domain.ProviderID `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Email       string            `json:"email"`
	TimeZone    string            `json:"time_zone"`
	Description string            `json:"description,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Active      bool              `json:"is_active"`
	Version     int64             `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func providerView(p *domain.Provider) ProviderView {
	return ProviderView{
		ID:          p.ID(),
		Name:        p.Name(),
		Slug:        p.Slug().String(),
		Email:       p.Email().String(),
		TimeZone:    p.TimeZone().String(),
		Description: p.Description(),
		Phone:       p.Phone(),
		Active:      p.IsActive(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

type ServiceView struct {
	ID                    domain.ServiceID       `json:"id"`
	ProviderID            domain.ProviderID      `json:"provider_id"`
	Name                  string                 `json:"name"`
	Description           string                 `json:"description,omitempty"`
	DurationMinutes       int                    `json:"duration_minutes"`
	PriceMinor            int64                  `json:"price_minor"`
	Currency              string                 `json:"currency"`
	BookingMode           domain.BookingMode     `json:"booking_mode"`
	MaxConcurrentBookings int                    `json:"max_concurrent_bookings"`
	Schedule              *domain.WeeklySchedule `json:"schedule,omitempty"`
	Active                bool                   `json:"is_active"`
	Version               int64                  `json:"version"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

func serviceView(s *domain.Service) ServiceView {
	v := ServiceView{
		ID:                    s.ID(),
		ProviderID:            s.ProviderID(),
		Name:                  s.Name(),
		Description:           s.Description(),
		DurationMinutes:       s.DurationMinutes(),
		PriceMinor:            s.PriceMinor(),
		Currency:              s.Currency(),
		BookingMode:           s.Mode(),
		MaxConcurrentBookings: s.MaxConcurrentBookings(),
		Active:                s.IsActive(),
		Version:               s.Version(),
		CreatedAt:             s.CreatedAt(),
		UpdatedAt:             s.UpdatedAt(),
	}
	if sched, ok := s.Schedule(); ok {
		v.Schedule = &sched
	}
	return v
}

type StaffView struct {
	ID         domain.StaffID         `json:"id"`
	ProviderID domain.ProviderID      `json:"provider_id"`
	Name       string                 `json:"name"`
	Email      string                 `json:"email,omitempty"`
	Phone      string                 `json:"phone,omitempty"`
	ServiceIDs []domain.ServiceID     `json:"service_ids"`
	Schedule   *domain.WeeklySchedule `json:"schedule,omitempty"`
	Active     bool                   `json:"is_active"`
	Version    int64                  `json:"version"`
}

func staffView(s *domain.Staff) StaffView {
	v := StaffView{
		ID:         s.ID(),
		ProviderID: s.ProviderID(),
		Name:       s.Name(),
		Email:      s.Email().String(),
		Phone:      s.Phone(),
		ServiceIDs: s.ServiceIDs(),
		Active:     s.IsActive(),
		Version:    s.Version(),
	}
	if v.ServiceIDs == nil {
		v.ServiceIDs = []domain.ServiceID{}
	}
	if sched, ok := s.Schedule(); ok {
		v.Schedule = &sched
	}
	return v
}

type CustomerView struct {
	ID        domain.CustomerID `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func customerView(c *domain.Customer) CustomerView {
	return CustomerView{
		ID:        c.ID(),
		Name:      c.Name(),
		Email:     c.Email().String(),
		Phone:     c.Phone(),
		CreatedAt: c.CreatedAt(),
	}
}

type BookingView struct {
	ID                 domain.BookingID     `json:"id"`
	Number             string               `json:"booking_number"`
	ProviderID         domain.ProviderID    `json:"provider_id"`
	ServiceID          domain.ServiceID     `json:"service_id"`
	StaffID            domain.StaffID       `json:"staff_id,omitzero"`
	StaffName          string               `json:"staff_name,omitempty"`
	CustomerID         domain.CustomerID    `json:"customer_id"`
	Date               civil.Date           `json:"date"`
	StartTime          civil.Time           `json:"start_time"`
	EndTime            civil.Time           `json:"end_time"`
	Status             domain.BookingStatus `json:"status"`
	ServiceName        string               `json:"service_name"`
	ServicePrice       int64                `json:"service_price_minor"`
	ServiceCurrency    string               `json:"service_currency"`
	CustomerNotes      string               `json:"customer_notes,omitempty"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`
	CancelledAt        time.Time            `json:"cancelled_at,omitzero"`
	Version            int64                `json:"version"`
	CreatedAt          time.Time            `json:"created_at"`
}

func bookingView(b *domain.Booking) BookingView {
	return BookingView{
		ID:                 b.ID(),
		Number:             b.Number(),
		ProviderID:         b.ProviderID(),
		ServiceID:          b.ServiceID(),
		StaffID:            b.StaffID(),
		StaffName:          b.StaffName(),
		CustomerID:         b.CustomerID(),
		Date:               b.Date(),
		StartTime:          b.StartTime(),
		EndTime:            b.EndTime(),
		Status:             b.Status(),
		ServiceName:        b.ServiceName(),
		ServicePrice:       b.ServicePrice(),
		ServiceCurrency:    b.ServiceCurrency(),
		CustomerNotes:      b.CustomerNotes(),
		CancellationReason: b.CancellationReason(),
		CancelledAt:        b.CancelledAt(),
		Version:            b.Version(),
		CreatedAt:          b.CreatedAt(),
	}
}

func mapViews[A any, V any](items []A, view func(A) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, view(it))
	}
	return out
}
