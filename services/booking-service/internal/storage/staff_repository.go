package storage

import (
	"context"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

const staffColumns = `s.id::text, s.provider_id::text, s.name, s.email, s.phone, s.schedule::text, s.is_active,
	s.created_at, s.updated_at, s.version,
	ARRAY(SELECT ss.service_id::text FROM staff_services ss WHERE ss.staff_id = s.id ORDER BY ss.service_id)`

type staffRepo struct{ s *session }

func scanStaff(row interface{ Scan(...any) error }) (*domain.Staff, error) {
	var (
		snap           domain.StaffSnapshot
		id, providerID string
		schedule       *string
		serviceIDs     []string
	)
	if err := row.Scan(&id, &providerID, &snap.Name, &snap.Email, &snap.Phone, &schedule, &snap.Active,
		&snap.CreatedAt, &snap.UpdatedAt, &snap.Version, &serviceIDs); err != nil {
		return nil, err
	}
	var err error
	if snap.ID, err = parseID[domain.StaffID](id); err != nil {
		return nil, err
	}
	if snap.ProviderID, err = parseID[domain.ProviderID](providerID); err != nil {
		return nil, err
	}
	if snap.Schedule, err = decodeSchedule(schedule); err != nil {
		return nil, err
	}
	if snap.ServiceIDs, err = parseIDs[domain.ServiceID](serviceIDs); err != nil {
		return nil, err
	}
	return domain.RestoreStaff(snap)
}

func (r *staffRepo) GetByID(ctx context.Context, id domain.StaffID) (*domain.Staff, error) {
	if st, ok, err := tracked[*domain.Staff](r.s, domain.AggregateStaff, id.UUID()); ok {
		return st, err
	}
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	lock := ""
	if r.s.lockClause(ctx) != "" {
		lock = " FOR UPDATE OF s"
	}
	st, err := scanStaff(q.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff s WHERE s.id = $1`+lock, id.String()))
	if IsNotFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return load(r.s, st), nil
}

func (r *staffRepo) GetByProviderID(ctx context.Context, providerID domain.ProviderID) ([]*domain.Staff, error) {
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `SELECT `+staffColumns+` FROM staff s WHERE s.provider_id = $1 ORDER BY s.name, s.id`, providerID.String())
	if err != nil {
		return nil, err
	}
	return collect(r.s, rows, scanStaff)
}

func (r *staffRepo) GetByServiceID(ctx context.Context, serviceID domain.ServiceID) ([]*domain.Staff, error) {
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `
		SELECT `+staffColumns+`
		FROM staff s
		JOIN staff_services link ON link.staff_id = s.id
		WHERE link.service_id = $1
		ORDER BY s.name, s.id
	`, serviceID.String())
	if err != nil {
		return nil, err
	}
	return collect(r.s, rows, scanStaff)
}

func (r *staffRepo) Add(ctx context.Context, st *domain.Staff) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(st)
	return nil
}

func (r *staffRepo) Update(ctx context.Context, st *domain.Staff) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(st)
	return nil
}

func (r *staffRepo) Delete(ctx context.Context, id domain.StaffID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateStaff, id.UUID())
	return nil
}

// writeStaff stores the row and replaces its service assignments.
func writeStaff(ctx context.Context, q querier, s domain.StaffSnapshot, insert bool) (int, error) {
	schedule, err := encodeSchedule(s.Schedule)
	if err != nil {
		return 0, err
	}
	var n int
	if insert {
		tag, err := q.Exec(ctx, `
			INSERT INTO staff (id, provider_id, name, email, phone, schedule, is_active, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, s.ID.String(), s.ProviderID.String(), s.Name, s.Email, s.Phone, schedule, s.Active, s.CreatedAt, s.UpdatedAt, s.Version+1)
		if err != nil {
			return 0, err
		}
		n = int(tag.RowsAffected())
	} else {
		tag, err := q.Exec(ctx, `
			UPDATE staff
			SET name = $2, email = $3, phone = $4, schedule = $5, is_active = $6, updated_at = $7, version = version + 1
			WHERE id = $1 AND version = $8
		`, s.ID.String(), s.Name, s.Email, s.Phone, schedule, s.Active, s.UpdatedAt, s.Version)
		if err != nil {
			return 0, err
		}
		if n, err = checkVersion(tag, "staff", s.ID, s.Version); err != nil {
			return 0, err
		}
		if _, err := q.Exec(ctx, `DELETE FROM staff_services WHERE staff_id = $1`, s.ID.String()); err != nil {
			return 0, err
		}
	}

	if len(s.ServiceIDs) > 0 {
		ids := make([]string, 0, len(s.ServiceIDs))
		for _, id := range s.ServiceIDs {
			ids = append(ids, id.String())
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO staff_services (staff_id, service_id)
			SELECT $1::uuid, unnest($2::text[])::uuid
		`, s.ID.String(), ids); err != nil {
			return 0, err
		}
	}
	return n, nil
}
