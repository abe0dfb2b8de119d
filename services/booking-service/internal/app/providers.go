package app

import (
	"context"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

type CreateProviderInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Email       string `json:"email"`
	TimeZone    string `json:"time_zone"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
}

type UpdateProviderInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

func (s *Service) CreateProvider(ctx context.Context, in CreateProviderInput) (ProviderView, error) {
	p, err := command(ctx, s, "CreateProvider", func(ctx context.Context, sess uow.Session) (*domain.Provider, error) {
		p, err := domain.CreateProvider(domain.ProviderParams{
			Name:        in.Name,
			Slug:        in.Slug,
			Email:       in.Email,
			TimeZone:    in.TimeZone,
			Description: in.Description,
			Phone:       in.Phone,
		})
		if err != nil {
			return nil, err
		}
		exists, err := sess.Providers().SlugExists(ctx, p.Slug())
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflict(CodeSlugExists, msgSlugExists)
		}
		return p, sess.Providers().Add(ctx, p)
	})
	if err != nil {
		return ProviderView{}, err
	}
	return providerView(p), nil
}

func (s *Service) UpdateProvider(ctx context.Context, id domain.ProviderID, in UpdateProviderInput) (ProviderView, error) {
	return s.changeProvider(ctx, "UpdateProvider", id, func(p *domain.Provider) error {
		return p.Update(in.Name, in.Description, in.Email, in.Phone)
	})
}

func (s *Service) ActivateProvider(ctx context.Context, id domain.ProviderID) (ProviderView, error) {
	return s.changeProvider(ctx, "ActivateProvider", id, (*domain.Provider).Activate)
}

func (s *Service) DeactivateProvider(ctx context.Context, id domain.ProviderID) (ProviderView, error) {
	return s.changeProvider(ctx, "DeactivateProvider", id, (*domain.Provider).Deactivate)
}

func (s *Service) changeProvider(ctx context.Context, name string, id domain.ProviderID, change func(*domain.Provider) error) (ProviderView, error) {
	p, err := command(ctx, s, name, func(ctx context.Context, sess uow.Session) (*domain.Provider, error) {
		p, err := getProvider(ctx, sess, id)
		if err != nil {
			return nil, err
		}
		if err := change(p); err != nil {
			return nil, err
		}
		return p, sess.Providers().Update(ctx, p)
	})
	if err != nil {
		return ProviderView{}, err
	}
	return providerView(p), nil
}

func (s *Service) GetProviderByID(ctx context.Context, id domain.ProviderID) (ProviderView, error) {
	return query(ctx, s, "GetProviderByID", func(ctx context.Context, sess uow.Session) (ProviderView, error) {
		p, err := getProvider(ctx, sess, id)
		if err != nil {
			return ProviderView{}, err
		}
		return providerView(p), nil
	})
}

func (s *Service) GetProviderBySlug(ctx context.Context, raw string) (ProviderView, error) {
	return query(ctx, s, "GetProviderBySlug", func(ctx context.Context, sess uow.Session) (ProviderView, error) {
		slug, err := domain.NewSlug(raw)
		if err != nil {
			return ProviderView{}, err
		}
		p, err := sess.Providers().GetBySlug(ctx, slug)
		if p, err = must(p, err, "Provider.NotFound", "provider not found"); err != nil {
			return ProviderView{}, err
		}
		return providerView(p), nil
	})
}
