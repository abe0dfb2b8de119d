package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxDescriptionLength = 1000
	maxPhoneLength       = 20
)

// Provider is a tenant offering bookable services.
type Provider struct {
	Root
	id          ProviderID
	name        ProviderName
	slug        Slug
	email       Email
	timeZone    TimeZone
	description string
	phone       string
	active      bool
}

// ProviderParams carries the creation input. Description and Phone are
// optional.
type ProviderParams struct {
	Name        string
	Slug        string
	Email       string
	TimeZone    string
	Description string
	Phone       string
}

func CreateProvider(p ProviderParams) (*Provider, error) {
	name, err := NewProviderName(p.Name)
	if err != nil {
		return nil, err
	}
	slug, err := NewSlug(p.Slug)
	if err != nil {
		return nil, err
	}
	email, err := NewEmail(p.Email)
	if err != nil {
		return nil, err
	}
	tz, err := NewTimeZone(p.TimeZone)
	if err != nil {
		return nil, err
	}
	description, phone, err := providerDetails(p.Description, p.Phone)
	if err != nil {
		return nil, err
	}

	pr := &Provider{
		id:          NewProviderID(),
		name:        name,
		slug:        slug,
		email:       email,
		timeZone:    tz,
		description: description,
		phone:       phone,
		active:      true,
	}
	pr.raise(ProviderCreated{
		eventMeta:  newMeta(),
		ProviderID: pr.id,
		Name:       name.String(),
		Slug:       slug.String(),
		Email:      email.String(),
		TimeZone:   tz.String(),
	})
	return pr, nil
}

func providerDetails(description, phone string) (string, string, error) {
	description = strings.TrimSpace(description)
	phone = strings.TrimSpace(phone)
	if err := maxLength("description", description, maxDescriptionLength); err != nil {
		return "", "", err
	}
	if err := maxLength("phone", phone, maxPhoneLength); err != nil {
		return "", "", err
	}
	return description, phone, nil
}

func (p *Provider) AggregateID() uuid.UUID { return p.id.UUID() }
func (p *Provider) AggregateType() string { return AggregateProvider }

func (p *Provider) ID() ProviderID { return p.id }
func (p *Provider) Name() string { return p.name.String() }
func (p *Provider) Slug() Slug { return p.slug }
func (p *Provider) Email() Email { return p.email }
func (p *Provider) TimeZone() TimeZone { return p.timeZone }
func (p *Provider) Description() string { return p.description }
func (p *Provider) Phone() string { return p.phone }
func (p *Provider) IsActive() bool { return p.active }

// Update replaces the mutable profile. The slug and time zone are fixed at
// creation.
func (p *Provider) Update(name, description, email, phone string) error {
	n, err := NewProviderName(name)
	if err != nil {
		return err
	}
	e, err := NewEmail(email)
	if err != nil {
		return err
	}
	d, ph, err := providerDetails(description, phone)
	if err != nil {
		return err
	}

	p.name, p.email, p.description, p.phone = n, e, d, ph
	p.raise(ProviderUpdated{eventMeta: newMeta(), ProviderID: p.id, Name: n.String(), Email: e.String()})
	return nil
}

func (p *Provider) Activate() error {
	if p.active {
		return ruleViolation("provider is already active")
	}
	p.active = true
	p.raise(ProviderActivated{eventMeta: newMeta(), ProviderID: p.id})
	return nil
}

func (p *Provider) Deactivate() error {
	if !p.active {
		return ruleViolation("provider is already inactive")
	}
	p.active = false
	p.raise(ProviderDeactivated{eventMeta: newMeta(), ProviderID: p.id})
	return nil
}

// ProviderSnapshot is the persisted shape of a Provider.
type ProviderSnapshot struct {
	ID          ProviderID
	Name        string
	Slug        string
	Email       string
	TimeZone    string
	Description string
	Phone       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

func (p *Provider) Snapshot() ProviderSnapshot {
	return ProviderSnapshot{
		ID:          p.id,
		Name:        p.name.String(),
		Slug:        p.slug.String(),
		Email:       p.email.String(),
		TimeZone:    p.timeZone.String(),
		Description: p.description,
		Phone:       p.phone,
		Active:      p.active,
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
		Version:     p.version,
	}
}

// RestoreProvider rebuilds a Provider from storage without raising events.
func RestoreProvider(s ProviderSnapshot) (*Provider, error) {
	name, err := NewProviderName(s.Name)
	if err != nil {
		return nil, err
	}
	slug, err := NewSlug(s.Slug)
	if err != nil {
		return nil, err
	}
	email, err := NewEmail(s.Email)
	if err != nil {
		return nil, err
	}
	tz, err := NewTimeZone(s.TimeZone)
	if err != nil {
		return nil, err
	}
	p := &Provider{
		id:          s.ID,
		name:        name,
		slug:        slug,
		email:       email,
		timeZone:    tz,
		description: s.Description,
		phone:       s.Phone,
		active:      s.Active,
	}
	p.restore(s.CreatedAt, s.UpdatedAt, s.Version)
	return p, nil
}
