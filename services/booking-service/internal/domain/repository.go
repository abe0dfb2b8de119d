package domain

import (
	"context"

	"cloud.google.com/go/civil"
)

// Repositories are session scoped: reads return instances tracked by the
// session's unit of work, and writes take effect on its next save.
// Lookups of absent aggregates return ErrNotFound.

type ProviderRepository interface {
	GetByID(ctx context.Context, id ProviderID) (*Provider, error)
	GetBySlug(ctx context.Context, slug Slug) (*Provider, error)
	SlugExists(ctx context.Context, slug Slug) (bool, error)
	Add(ctx context.Context, p *Provider) error
	Update(ctx context.Context, p *Provider) error
	Delete(ctx context.Context, id ProviderID) error
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id ServiceID) (*Service, error)
	GetByProviderID(ctx context.Context, providerID ProviderID) ([]*Service, error)
	Add(ctx context.Context, s *Service) error
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id ServiceID) error
}

type StaffRepository interface {
	GetByID(ctx context.Context, id StaffID) (*Staff, error)
	GetByProviderID(ctx context.Context, providerID ProviderID) ([]*Staff, error)
	GetByServiceID(ctx context.Context, serviceID ServiceID) ([]*Staff, error)
	Add(ctx context.Context, s *Staff) error
	Update(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, id StaffID) error
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id CustomerID) (*Customer, error)
	GetByEmail(ctx context.Context, email Email) (*Customer, error)
	Add(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id CustomerID) error
}

type BookingRepository interface {
	GetByID(ctx context.Context, id BookingID) (*Booking, error)
	GetByBookingNumber(ctx context.Context, number string) (*Booking, error)
	GetByServiceAndDate(ctx context.Context, serviceID ServiceID, date civil.Date) ([]*Booking, error)
	GetByStaffAndDate(ctx context.Context, staffID StaffID, date civil.Date) ([]*Booking, error)
	GetByCustomerID(ctx context.Context, customerID CustomerID) ([]*Booking, error)
	Add(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id BookingID) error
}
