package storage

import (
	"context"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

const providerColumns = `id::text, name, slug, email, time_zone, description, phone, is_active, created_at, updated_at, version`

type providerRepo struct{ s *session }

func scanProvider(row interface{ Scan(...any) error }) (*domain.Provider, error) {
	var (
		snap domain.ProviderSnapshot
		id   string
	)
	if err := row.Scan(&id, &snap.Name, &snap.Slug, &snap.Email, &snap.TimeZone, &snap.Description, &snap.Phone,
		&snap.Active, &snap.CreatedAt, &snap.UpdatedAt, &snap.Version); err != nil {
		return nil, err
	}
	var err error
	if snap.ID, err = parseID[domain.ProviderID](id); err != nil {
		return nil, err
	}
	return domain.RestoreProvider(snap)
}

func (r *providerRepo) getOne(ctx context.Context, where string, arg any) (*domain.Provider, error) {
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	p, err := scanProvider(q.QueryRow(ctx, `SELECT `+providerColumns+` FROM providers WHERE `+where+r.s.lockClause(ctx), arg))
	if IsNotFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return load(r.s, p), nil
}

func (r *providerRepo) GetByID(ctx context.Context, id domain.ProviderID) (*domain.Provider, error) {
	if p, ok, err := tracked[*domain.Provider](r.s, domain.AggregateProvider, id.UUID()); ok {
		return p, err
	}
	return r.getOne(ctx, "id = $1", id.String())
}

func (r *providerRepo) GetBySlug(ctx context.Context, slug domain.Slug) (*domain.Provider, error) {
	return r.getOne(ctx, "slug = $1", slug.String())
}

func (r *providerRepo) SlugExists(ctx context.Context, slug domain.Slug) (bool, error) {
	q, err := r.s.conn(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	err = q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM providers WHERE slug = $1)`, slug.String()).Scan(&exists)
	return exists, err
}

func (r *providerRepo) Add(ctx context.Context, p *domain.Provider) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(p)
	return nil
}

func (r *providerRepo) Update(ctx context.Context, p *domain.Provider) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(p)
	return nil
}

func (r *providerRepo) Delete(ctx context.Context, id domain.ProviderID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateProvider, id.UUID())
	return nil
}

func writeProvider(ctx context.Context, q querier, p domain.ProviderSnapshot, insert bool) (int, error) {
	if insert {
		tag, err := q.Exec(ctx, `
			INSERT INTO providers (id, name, slug, email, time_zone, description, phone, is_active, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, p.ID.String(), p.Name, p.Slug, p.Email, p.TimeZone, p.Description, p.Phone, p.Active, p.CreatedAt, p.UpdatedAt, p.Version+1)
		return int(tag.RowsAffected()), err
	}
	tag, err := q.Exec(ctx, `
		UPDATE providers
		SET name = $2, email = $3, description = $4, phone = $5, is_active = $6, updated_at = $7, version = version + 1
		WHERE id = $1 AND version = $8
	`, p.ID.String(), p.Name, p.Email, p.Description, p.Phone, p.Active, p.UpdatedAt, p.Version)
	if err != nil {
		return 0, err
	}
	return checkVersion(tag, "provider", p.ID, p.Version)
}

