package app

import (
	"context"
	"errors"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

type RegisterCustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Service) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (CustomerView, error) {
	c, err := command(ctx, s, "RegisterCustomer", func(ctx context.Context, sess uow.Session) (*domain.Customer, error) {
		c, err := domain.CreateCustomer(in.Name, in.Email, in.Phone)
		if err != nil {
			return nil, err
		}
		_, err = sess.Customers().GetByEmail(ctx, c.Email())
		switch {
		case err == nil:
			return nil, conflict(CodeEmailExists, msgEmailExists)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		return c, sess.Customers().Add(ctx, c)
	})
	if err != nil {
		return CustomerView{}, err
	}
	return customerView(c), nil
}

func (s *Service) GetCustomer(ctx context.Context, id domain.CustomerID) (CustomerView, error) {
	return query(ctx, s, "GetCustomer", func(ctx context.Context, sess uow.Session) (CustomerView, error) {
		c, err := getCustomer(ctx, sess, id)
		if err != nil {
			return CustomerView{}, err
		}
		return customerView(c), nil
	})
}
