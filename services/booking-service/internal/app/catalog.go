package app

import (
	"context"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

type CreateServiceInput struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceMinor      int64  `json:"price_minor"`
	Currency        string `json:"currency"`
	BookingMode     string `json:"booking_mode"`
	// MaxConcurrentBookings is optional; zero keeps the default of 1.
	MaxConcurrentBookings int `json:"max_concurrent_bookings"`
}

type UpdateServiceInput struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceMinor      int64  `json:"price_minor"`
}

func (s *Service) CreateService(ctx context.Context, providerID domain.ProviderID, in CreateServiceInput) (ServiceView, error) {
	svc, err := command(ctx, s, "CreateService", func(ctx context.Context, sess uow.Session) (*domain.Service, error) {
		if _, err := getProvider(ctx, sess, providerID); err != nil {
			return nil, err
		}
		mode, err := domain.ParseBookingMode(in.BookingMode)
		if err != nil {
			return nil, err
		}
		svc, err := domain.CreateService(providerID, in.Name, in.DurationMinutes, in.PriceMinor, in.Currency, mode)
		if err != nil {
			return nil, err
		}
		if in.Description != "" {
			if err := svc.Update(in.Name, in.Description, in.DurationMinutes, in.PriceMinor); err != nil {
				return nil, err
			}
		}
		if in.MaxConcurrentBookings > 1 {
			if err := svc.SetMaxConcurrentBookings(in.MaxConcurrentBookings); err != nil {
				return nil, err
			}
		}
		return svc, sess.Services().Add(ctx, svc)
	})
	if err != nil {
		return ServiceView{}, err
	}
	return serviceView(svc), nil
}

func (s *Service) UpdateService(ctx context.Context, id domain.ServiceID, in UpdateServiceInput) (ServiceView, error) {
	return s.changeService(ctx, "UpdateService", id, func(svc *domain.Service) error {
		return svc.Update(in.Name, in.Description, in.DurationMinutes, in.PriceMinor)
	})
}

func (s *Service) SetServiceSchedule(ctx context.Context, id domain.ServiceID, schedule domain.WeeklySchedule) (ServiceView, error) {
	return s.changeService(ctx, "SetServiceSchedule", id, func(svc *domain.Service) error {
		return svc.SetSchedule(schedule)
	})
}

func (s *Service) SetServiceCapacity(ctx context.Context, id domain.ServiceID, maxConcurrent int) (ServiceView, error) {
	return s.changeService(ctx, "SetServiceCapacity", id, func(svc *domain.Service) error {
		return svc.SetMaxConcurrentBookings(maxConcurrent)
	})
}

func (s *Service) changeService(ctx context.Context, name string, id domain.ServiceID, change func(*domain.Service) error) (ServiceView, error) {
	svc, err := command(ctx, s, name, func(ctx context.Context, sess uow.Session) (*domain.Service, error) {
		svc, err := getService(ctx, sess, id)
		if err != nil {
			return nil, err
		}
		if err := change(svc); err != nil {
			return nil, err
		}
		return svc, sess.Services().Update(ctx, svc)
	})
	if err != nil {
		return ServiceView{}, err
	}
	return serviceView(svc), nil
}

func (s *Service) ListServices(ctx context.Context, providerID domain.ProviderID) ([]ServiceView, error) {
	return query(ctx, s, "ListServices", func(ctx context.Context, sess uow.Session) ([]ServiceView, error) {
		if _, err := getProvider(ctx, sess, providerID); err != nil {
			return nil, err
		}
		list, err := sess.Services().GetByProviderID(ctx, providerID)
		if err != nil {
			return nil, err
		}
		return mapViews(list, serviceView), nil
	})
}

type CreateStaffInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Service) CreateStaff(ctx context.Context, providerID domain.ProviderID, in CreateStaffInput) (StaffView, error) {
	st, err := command(ctx, s, "CreateStaff", func(ctx context.Context, sess uow.Session) (*domain.Staff, error) {
		if _, err := getProvider(ctx, sess, providerID); err != nil {
			return nil, err
		}
		st, err := domain.CreateStaff(providerID, in.Name)
		if err != nil {
			return nil, err
		}
		if in.Email != "" || in.Phone != "" {
			if err := st.Update(in.Name, in.Email, in.Phone); err != nil {
				return nil, err
			}
		}
		return st, sess.Staff().Add(ctx, st)
	})
	if err != nil {
		return StaffView{}, err
	}
	return staffView(st), nil
}

func (s *Service) SetStaffSchedule(ctx context.Context, id domain.StaffID, schedule domain.WeeklySchedule) (StaffView, error) {
	return s.changeStaff(ctx, "SetStaffSchedule", id, func(_ context.Context, _ uow.Session, st *domain.Staff) error {
		return st.SetSchedule(schedule)
	})
}

// AssignStaffService links a staff member to a service of the same provider.
func (s *Service) AssignStaffService(ctx context.Context, id domain.StaffID, serviceID domain.ServiceID) (StaffView, error) {
	return s.changeStaff(ctx, "AssignStaffService", id, func(ctx context.Context, sess uow.Session, st *domain.Staff) error {
		svc, err := getService(ctx, sess, serviceID)
		if err != nil {
			return err
		}
		if svc.ProviderID() != st.ProviderID() {
			return invalid("Staff.ProviderMismatch", "service belongs to a different provider")
		}
		return st.AssignService(serviceID)
	})
}

func (s *Service) UnassignStaffService(ctx context.Context, id domain.StaffID, serviceID domain.ServiceID) (StaffView, error) {
	return s.changeStaff(ctx, "UnassignStaffService", id, func(_ context.Context, _ uow.Session, st *domain.Staff) error {
		return st.UnassignService(serviceID)
	})
}

func (s *Service) changeStaff(ctx context.Context, name string, id domain.StaffID, change func(context.Context, uow.Session, *domain.Staff) error) (StaffView, error) {
	st, err := command(ctx, s, name, func(ctx context.Context, sess uow.Session) (*domain.Staff, error) {
		st, err := getStaff(ctx, sess, id)
		if err != nil {
			return nil, err
		}
		if err := change(ctx, sess, st); err != nil {
			return nil, err
		}
		return st, sess.Staff().Update(ctx, st)
	})
	if err != nil {
		return StaffView{}, err
	}
	return staffView(st), nil
}

func (s *Service) ListStaff(ctx context.Context, providerID domain.ProviderID) ([]StaffView, error) {
	return query(ctx, s, "ListStaff", func(ctx context.Context, sess uow.Session) ([]StaffView, error) {
		if _, err := getProvider(ctx, sess, providerID); err != nil {
			return nil, err
		}
		list, err := sess.Staff().GetByProviderID(ctx, providerID)
		if err != nil {
			return nil, err
		}
		return mapViews(list, staffView), nil
	})
}
