package storage

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

const bookingColumns = `id::text, booking_number, provider_id::text, service_id::text, COALESCE(staff_id::text, ''),
	customer_id::text, booking_date::text, start_time::text, end_time::text, status, service_name,
	service_price_minor, service_currency, staff_name, customer_notes, cancellation_reason, cancelled_at,
	created_at, updated_at, version`

type bookingRepo struct{ s *session }

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	var (
		snap                                 domain.BookingSnapshot
		id, providerID, serviceID, staffID   string
		customerID, date, startTime, endTime string
		status                               string
		cancelledAt                          *time.Time
	)
	if err := row.Scan(&id, &snap.Number, &providerID, &serviceID, &staffID, &customerID, &date, &startTime, &endTime,
		&status, &snap.ServiceName, &snap.ServicePrice, &snap.ServiceCurrency, &snap.StaffName, &snap.CustomerNotes,
		&snap.CancellationReason, &cancelledAt, &snap.CreatedAt, &snap.UpdatedAt, &snap.Version); err != nil {
		return nil, err
	}
	var err error
	if snap.ID, err = parseID[domain.BookingID](id); err != nil {
		return nil, err
	}
	if snap.ProviderID, err = parseID[domain.ProviderID](providerID); err != nil {
		return nil, err
	}
	if snap.ServiceID, err = parseID[domain.ServiceID](serviceID); err != nil {
		return nil, err
	}
	if staffID != "" {
		if snap.StaffID, err = parseID[domain.StaffID](staffID); err != nil {
			return nil, err
		}
	}
	if snap.CustomerID, err = parseID[domain.CustomerID](customerID); err != nil {
		return nil, err
	}
	if snap.Date, snap.StartTime, snap.EndTime, err = parseCivil(date, startTime, endTime); err != nil {
		return nil, err
	}
	if cancelledAt != nil {
		snap.CancelledAt = *cancelledAt
	}
	snap.Status = domain.BookingStatus(status)
	return domain.RestoreBooking(snap)
}

func (r *bookingRepo) getOne(ctx context.Context, where string, arg any) (*domain.Booking, error) {
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	b, err := scanBooking(q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+where+r.s.lockClause(ctx), arg))
	if IsNotFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return load(r.s, b), nil
}

func (r *bookingRepo) list(ctx context.Context, where string, args ...any) ([]*domain.Booking, error) {
	q, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY booking_date, start_time, id`, args...)
	if err != nil {
		return nil, err
	}
	return collect(r.s, rows, scanBooking)
}

func (r *bookingRepo) GetByID(ctx context.Context, id domain.BookingID) (*domain.Booking, error) {
	if b, ok, err := tracked[*domain.Booking](r.s, domain.AggregateBooking, id.UUID()); ok {
		return b, err
	}
	return r.getOne(ctx, "id = $1", id.String())
}

func (r *bookingRepo) GetByBookingNumber(ctx context.Context, number string) (*domain.Booking, error) {
	return r.getOne(ctx, "booking_number = $1", number)
}

func (r *bookingRepo) GetByServiceAndDate(ctx context.Context, serviceID domain.ServiceID, date civil.Date) ([]*domain.Booking, error) {
	return r.list(ctx, "service_id = $1 AND booking_date = $2::date", serviceID.String(), date.String())
}

func (r *bookingRepo) GetByStaffAndDate(ctx context.Context, staffID domain.StaffID, date civil.Date) ([]*domain.Booking, error) {
	return r.list(ctx, "staff_id = $1 AND booking_date = $2::date", staffID.String(), date.String())
}

func (r *bookingRepo) GetByCustomerID(ctx context.Context, customerID domain.CustomerID) ([]*domain.Booking, error) {
	return r.list(ctx, "customer_id = $1", customerID.String())
}

func (r *bookingRepo) Add(ctx context.Context, b *domain.Booking) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Add(b)
	return nil
}

func (r *bookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Update(b)
	return nil
}

func (r *bookingRepo) Delete(ctx context.Context, id domain.BookingID) error {
	if err := r.s.writable(); err != nil {
		return err
	}
	r.s.tracker.Remove(domain.AggregateBooking, id.UUID())
	return nil
}

func writeBooking(ctx context.Context, q querier, b domain.BookingSnapshot, insert bool) (int, error) {
	var cancelledAt *time.Time
	if !b.CancelledAt.IsZero() {
		cancelledAt = &b.CancelledAt
	}
	if insert {
		var staffID *string
		if !b.StaffID.IsZero() {
			s := b.StaffID.String()
			staffID = &s
		}
		tag, err := q.Exec(ctx, `
			INSERT INTO bookings (id, booking_number, provider_id, service_id, staff_id, customer_id, booking_date,
				start_time, end_time, status, service_name, service_price_minor, service_currency, staff_name,
				customer_notes, cancellation_reason, cancelled_at, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5::uuid, $6, $7::date, $8::time, $9::time, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		`, b.ID.String(), b.Number, b.ProviderID.String(), b.ServiceID.String(), staffID, b.CustomerID.String(),
			b.Date.String(), b.StartTime.String(), b.EndTime.String(), string(b.Status), b.ServiceName, b.ServicePrice,
			b.ServiceCurrency, b.StaffName, b.CustomerNotes, b.CancellationReason, cancelledAt, b.CreatedAt, b.UpdatedAt,
			b.Version+1)
		return int(tag.RowsAffected()), err
	}
	// Only the lifecycle fields change after creation.
	tag, err := q.Exec(ctx, `
		UPDATE bookings
		SET status = $2, cancellation_reason = $3, cancelled_at = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $6
	`, b.ID.String(), string(b.Status), b.CancellationReason, cancelledAt, b.UpdatedAt, b.Version)
	if err != nil {
		return 0, err
	}
	return checkVersion(tag, "booking", b.ID, b.Version)
}
