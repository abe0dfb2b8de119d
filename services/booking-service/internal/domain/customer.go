package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	Root
	id    CustomerID
	name  string
	email Email
	phone string
}

func customerFields(name, email, phone string) (string, Email, string, error) {
	n, err := requireText("customer name", name)
	if err != nil {
		return "", Email{}, "", err
	}
	if err := maxLength("customer name", n, maxProviderNameLength); err != nil {
		return "", Email{}, "", err
	}
	e, err := NewEmail(email)
	if err != nil {
		return "", Email{}, "", err
	}
	ph := strings.TrimSpace(phone)
	if err := maxLength("phone", ph, maxPhoneLength); err != nil {
		return "", Email{}, "", err
	}
	return n, e, ph, nil
}

// CreateCustomer registers a customer. Phone is optional.
func CreateCustomer(name, email, phone string) (*Customer, error) {
	n, e, ph, err := customerFields(name, email, phone)
	if err != nil {
		return nil, err
	}
	c := &Customer{id: NewCustomerID(), name: n, email: e, phone: ph}
	c.raise(CustomerCreated{eventMeta: newMeta(), CustomerID: c.id, Name: n, Email: e.String()})
	return c, nil
}

func (c *Customer) AggregateID() uuid.UUID { return c.id.UUID() }
func (c *Customer) AggregateType() string { return AggregateCustomer }

func (c *Customer) ID() CustomerID { return c.id }
func (c *Customer) Name() string { return c.name }
func (c *Customer) Email() Email { return c.email }
func (c *Customer) Phone() string { return c.phone }

func (c *Customer) Update(name, email, phone string) error {
	n, e, ph, err := customerFields(name, email, phone)
	if err != nil {
		return err
	}
	c.name, c.email, c.phone = n, e, ph
	c.raise(CustomerUpdated{eventMeta: newMeta(), CustomerID: c.id, Name: n, Email: e.String()})
	return nil
}

type CustomerSnapshot struct {
	ID        CustomerID
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

func (c *Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		ID:        c.id,
		Name:      c.name,
		Email:     c.email.String(),
		Phone:     c.phone,
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
		Version:   c.version,
	}
}

func RestoreCustomer(s CustomerSnapshot) (*Customer, error) {
	email, err := NewEmail(s.Email)
	if err != nil {
		return nil, err
	}
	c := &Customer{id: s.ID, name: s.Name, email: email, phone: s.Phone}
	c.restore(s.CreatedAt, s.UpdatedAt, s.Version)
	return c, nil
}
