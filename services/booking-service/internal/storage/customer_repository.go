package storage

import (
	"context"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

const customerColumns = `id::text, name, email, phone, created_at, updated_at, version`

type customerRepo struct{ s *session }

func scanCustomer(row interface{ Scan(...any) error }) (*domain.Customer, error) {
	var (
		snap domain.CustomerSnapshot
		id   string
	)
	if err := row.Scan(&id, &snap.Name, &snap.Email, &snap.Phone, &snap.CreatedAt, &snap.UpdatedAt, &snap.Version); err != nil {
		return nil, err
	}
	var err error
	if snap.ID, err = parseID[domain.CustomerID](id); err != nil {
		return nil, err
	}
	return domain.RestoreCustomer(snap)
}

func (r *customerRepo) getOne(ctx context.Context, where string, arg any) (*domain.Customer, error) {
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	c, err := scanCustomer(q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE `+where+r.s.lockClause(ctx), arg))
	if IsNotFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return load(r.s, c), nil
}

func (r *customerRepo) GetByID(ctx context.Context, id domain.CustomerID) (*domain.Customer, error) {
	if c, ok, err := tracked[*domain.Customer](r.s, domain.AggregateCustomer, id.UUID()); ok {
		return c, err
	}
	return r.getOne(ctx, "id = $1", id.String())
}

func (r *customerRepo) GetByEmail(ctx context.Context, email domain.Email) (*domain.Customer, error) {
	return r.getOne(ctx, "lower(email) = lower($1)", email.String())
}

func (r *customerRepo) Add(ctx context.Context, c *domain.Customer) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(c)
	return nil
}

func (r *customerRepo) Update(ctx context.Context, c *domain.Customer) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(c)
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id domain.CustomerID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateCustomer, id.UUID())
	return nil
}

func writeCustomer(ctx context.Context, q querier, c domain.CustomerSnapshot, insert bool) (int, error) {
	if insert {
		tag, err := q.Exec(ctx, `
			INSERT INTO customers (id, name, email, phone, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, c.ID.String(), c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt, c.Version+1)
		return int(tag.RowsAffected()), err
	}
	tag, err := q.Exec(ctx, `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $6
	`, c.ID.String(), c.Name, c.Email, c.Phone, c.UpdatedAt, c.Version)
	if err != nil {
		return 0, err
	}
	return checkVersion(tag, "customer", c.ID, c.Version)
}
