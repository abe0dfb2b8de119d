package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

const serviceColumns = `id::text, provider_id::text, name, description, duration_minutes, price_minor, currency, booking_mode,
	max_concurrent_bookings, schedule::text, is_active, created_at, updated_at, version`

type serviceRepo struct{ s *session }

func scanService(row interface{ Scan(...any) error }) (*domain.Service, error) {
	var (
		snap           domain.ServiceSnapshot
		id, providerID string
		mode           string
		schedule       *string
	)
	if err := row.Scan(&id, &providerID, &snap.Name, &snap.Description, &snap.DurationMinutes, &snap.PriceMinor,
		&snap.Currency, &mode, &snap.MaxConcurrentBookings, &schedule, &snap.Active, &snap.CreatedAt, &snap.UpdatedAt,
		&snap.Version); err != nil {
		return nil, err
	}
	var err error
	if snap.ID, err = parseID[domain.ServiceID](id); err != nil {
		return nil, err
	}
	if snap.ProviderID, err = parseID[domain.ProviderID](providerID); err != nil {
		return nil, err
	}
	if snap.Schedule, err = decodeSchedule(schedule); err != nil {
		return nil, err
	}
	snap.Mode = domain.BookingMode(mode)
	return domain.RestoreService(snap)
}

func (r *serviceRepo) GetByID(ctx context.Context, id domain.ServiceID) (*domain.Service, error) {
	if svc, ok, err := tracked[*domain.Service](r.s, domain.AggregateService, id.UUID()); ok {
		return svc, err
	}
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := scanService(q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`+r.s.lockClause(ctx), id.String()))
	if IsNotFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return load(r.s, svc), nil
}

func (r *serviceRepo) GetByProviderID(ctx context.Context, providerID domain.ProviderID) ([]*domain.Service, error) {
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `SELECT `+serviceColumns+` FROM services WHERE provider_id = $1 ORDER BY name, id`, providerID.String())
	if err != nil {
		return nil, err
	}
	return collect(r.s, rows, scanService)
}

func (r *serviceRepo) Add(ctx context.Context, svc *domain.Service) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(svc)
	return nil
}

func (r *serviceRepo) Update(ctx context.Context, svc *domain.Service) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(svc)
	return nil
}

func (r *serviceRepo) Delete(ctx context.Context, id domain.ServiceID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateService, id.UUID())
	return nil
}

func writeService(ctx context.Context, q querier, s domain.ServiceSnapshot, insert bool) (int, error) {
	schedule, err := encodeSchedule(s.Schedule)
	if err != nil {
		return 0, err
	}
	if insert {
		tag, err := q.Exec(ctx, `
			INSERT INTO services (id, provider_id, name, description, duration_minutes, price_minor, currency, booking_mode,
				max_concurrent_bookings, schedule, is_active, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, s.ID.String(), s.ProviderID.String(), s.Name, s.Description, s.DurationMinutes, s.PriceMinor, s.Currency,
			string(s.Mode), s.MaxConcurrentBookings, schedule, s.Active, s.CreatedAt, s.UpdatedAt, s.Version+1)
		return int(tag.RowsAffected()), err
	}
	tag, err := q.Exec(ctx, `
		UPDATE services
		SET name = $2, description = $3, duration_minutes = $4, price_minor = $5, max_concurrent_bookings = $6,
			schedule = $7, is_active = $8, updated_at = $9, version = version + 1
		WHERE id = $1 AND version = $10
	`, s.ID.String(), s.Name, s.Description, s.DurationMinutes, s.PriceMinor, s.MaxConcurrentBookings, schedule,
		s.Active, s.UpdatedAt, s.Version)
	if err != nil {
		return 0, err
	}
	return checkVersion(tag, "service", s.ID, s.Version)
}

// collect scans every row and attaches the results to the session.
func collect[A domain.Aggregate](s *session, rows pgx.Rows, scan func(row interface{ Scan(...any) error }) (A, error)) ([]A, error) {
	defer rows.Close()
	var out []A
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		if s.tracker.Deleted(a.AggregateType(), a.AggregateID()) {
			continue
		}
		out = append(out, load(s, a))
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
