package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/md-rashed-zaman/slotbook/libs/db"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/outbox"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

// Store is the Postgres uow.Store. Each session owns at most one
// transaction, opened on first use. Read-write sessions lock the rows they
// load by id so concurrent commands on one aggregate serialise.
type Store struct {
	pool   *db.Pool
	outbox *outbox.Repository
	logger *slog.Logger
}

func NewStore(pool *db.Pool, outboxRepo *outbox.Repository, logger *slog.Logger) *Store {
	return &Store{pool: pool, outbox: outboxRepo, logger: logger}
}

func (s *Store) Begin(ctx context.Context, mode uow.Mode) (uow.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{store: s, mode: mode, tracker: uow.NewTracker()}, nil
}

// querier is satisfied by pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type session struct {
	store   *Store
	mode    uow.Mode
	tracker *uow.Tracker
	tx      pgx.Tx
	now     time.Time
}

func (s *session) SetClock(now time.Time) { s.now = now }

func (s *session) Providers() domain.ProviderRepository { return &providerRepo{s} }
func (s *session) Services() domain.ServiceRepository { return &serviceRepo{s} }
func (s *session) Staff() domain.StaffRepository { return &staffRepo{s} }
func (s *session) Customers() domain.CustomerRepository { return &customerRepo{s} }
func (s *session) Bookings() domain.BookingRepository { return &bookingRepo{s} }

func (s *session) CollectDomainEvents() []domain.Event { return s.tracker.Events() }
func (s *session) ClearDomainEvents() { s.tracker.ClearEvents() }

func (s *session) conn(ctx context.Context) (querier, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	if s.mode == uow.ReadOnly {
		opts.AccessMode = pgx.ReadOnly
	}
	tx, err := s.store.pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	s.tx = tx
	return tx, nil
}

// lockClause makes by-id loads in commands take a row lock unless ctx
// asks for a plain read.
func (s *session) lockClause(ctx context.Context) string {
	if s.mode == uow.ReadWrite && !uow.RowLockSkipped(ctx) {
		return " FOR UPDATE"
	}
	return ""
}

func (s *session) writable() error {
	if s.mode == uow.ReadOnly {
		return errors.New("storage: write in read-only session")
	}
	return nil
}

func (s *session) rollback(ctx context.Context) {
	if s.tx == nil {
		return
	}
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.store.logger.Warn("rollback failed", "err", err)
	}
	s.tx = nil
}

func (s *session) SaveChanges(ctx context.Context) (int, error) {
	if err := s.writable(); err != nil {
		return 0, err
	}
	now := s.now
	if now.IsZero() {
		now = time.Now()
	}
	s.tracker.Stamp(now)
	pending := s.tracker.Pending()
	events := s.tracker.Events()
	if len(pending) == 0 && len(events) == 0 {
		return 0, nil
	}

	q, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	rows := 0
	for _, e := range pending {
		n, err := s.write(ctx, q, e)
		if err != nil {
			s.rollback(ctx)
			return 0, classify(err)
		}
		rows += n
	}
	for _, evt := range events {
		env, err := outbox.FromDomain(evt)
		if err != nil {
			s.rollback(ctx)
			return 0, err
		}
		if err := s.store.outbox.Insert(ctx, s.tx, env); err != nil {
			s.rollback(ctx)
			return 0, classify(err)
		}
	}
	if err := s.tx.Commit(ctx); err != nil {
		s.tx = nil
		return 0, classify(err)
	}
	s.tx = nil
	s.tracker.AcceptChanges()
	return rows, nil
}

func (s *session) Close(ctx context.Context) error {
	s.rollback(ctx)
	return nil
}

func (s *session) write(ctx context.Context, q querier, e *uow.Entry) (int, error) {
	if e.State == uow.Deleted {
		return deleteRow(ctx, q, e.Key)
	}
	insert := e.State == uow.Added
	switch a := e.Aggregate.(type) {
	case *domain.Provider:
		return writeProvider(ctx, q, a.Snapshot(), insert)
	case *domain.Service:
		return writeService(ctx, q, a.Snapshot(), insert)
	case *domain.Staff:
		return writeStaff(ctx, q, a.Snapshot(), insert)
	case *domain.Customer:
		return writeCustomer(ctx, q, a.Snapshot(), insert)
	case *domain.Booking:
		return writeBooking(ctx, q, a.Snapshot(), insert)
	}
	return 0, fmt.Errorf("storage: unsupported aggregate %T", e.Aggregate)
}

var tables = map[string]string{
	domain.AggregateProvider: "providers",
	domain.AggregateService:  "services",
	domain.AggregateStaff:    "staff",
	domain.AggregateCustomer: "customers",
	domain.AggregateBooking:  "bookings",
}

func deleteRow(ctx context.Context, q querier, k uow.Key) (int, error) {
	table, ok := tables[k.Type]
	if !ok {
		return 0, fmt.Errorf("storage: unknown aggregate type %q", k.Type)
	}
	tag, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", k.ID.String())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// checkVersion turns an update that matched no row into a conflict.
func checkVersion(tag pgconn.CommandTag, kind string, id fmt.Stringer, version int64) (int, error) {
	if tag.RowsAffected() == 0 {
		return 0, &uow.ConflictError{
			Constraint: uow.ConstraintVersion,
			Err:        fmt.Errorf("%s %s was modified or deleted concurrently (expected version %d)", kind, id, version),
		}
	}
	return int(tag.RowsAffected()), nil
}

// load returns the tracked instance or attaches a freshly scanned one.
func load[A domain.Aggregate](s *session, a A) A {
	return s.tracker.Attach(a).(A)
}

func tracked[A domain.Aggregate](s *session, typ string, id uuid.UUID) (A, bool, error) {
	var zero A
	if s.tracker.Deleted(typ, id) {
		return zero, true, domain.ErrNotFound
	}
	if a, ok := s.tracker.Lookup(typ, id); ok {
		return a.(A), true, nil
	}
	return zero, false, nil
}

func parseID[T ~[16]byte](raw string) (T, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return T{}, fmt.Errorf("storage: bad uuid %q: %w", raw, err)
	}
	return T(u), nil
}

func parseIDs[T ~[16]byte](raw []string) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		id, err := parseID[T](r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func encodeSchedule(s *domain.WeeklySchedule) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func decodeSchedule(raw *string) (*domain.WeeklySchedule, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var s domain.WeeklySchedule
	if err := json.Unmarshal([]byte(*raw), &s); err != nil {
		return nil, fmt.Errorf("storage: decode schedule: %w", err)
	}
	return &s, nil
}

func parseCivil(date, start, end string) (civil.Date, civil.Time, civil.Time, error) {
	d, err := civil.ParseDate(date)
	if err != nil {
		return civil.Date{}, civil.Time{}, civil.Time{}, err
	}
	st, err := civil.ParseTime(start)
	if err != nil {
		return civil.Date{}, civil.Time{}, civil.Time{}, err
	}
	en, err := civil.ParseTime(end)
	if err != nil {
		return civil.Date{}, civil.Time{}, civil.Time{}, err
	}
	return d, st, en, nil
}
