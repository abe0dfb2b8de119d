package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/md-rashed-zaman/slotbook/libs/db"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/outbox"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

// openTestStore connects to SLOTBOOK_TEST_DATABASE_URL or skips.
func openTestStore(t *testing.T) (*Store, *db.Pool) {
	t.Helper()
	url := os.Getenv("SLOTBOOK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SLOTBOOK_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := db.Open(ctx, url, db.Options{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(pool, outbox.NewRepository(), logger), pool
}

func TestPostgres_ProviderLifecycle(t *testing.T) {
	store, pool := openTestStore(t)
	p := uow.NewPipeline(store, nil, nil)
	ctx := context.Background()
	slug := "pg-" + domain.NewProviderID().String()[:8]

	created, err := uow.Command(ctx, p, "create", func(ctx context.Context, s uow.Session) (*domain.Provider, error) {
		pr, err := domain.CreateProvider(domain.ProviderParams{Name: "PG Spa", Slug: slug, Email: "pg@example.com", TimeZone: "UTC"})
		if err != nil {
			return nil, err
		}
		return pr, s.Providers().Add(ctx, pr)
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = uow.Command(ctx, p, "deactivate", func(ctx context.Context, s uow.Session) (struct{}, error) {
		pr, err := s.Providers().GetByID(ctx, created.ID())
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, pr.Deactivate()
	})
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := uow.Query(ctx, p, "get", func(ctx context.Context, s uow.Session) (*domain.Provider, error) {
		slugVO, _ := domain.NewSlug(slug)
		return s.Providers().GetBySlug(ctx, slugVO)
	})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsActive() || got.Version() != 2 {
		t.Fatalf("expected inactive provider at version 2, got active=%v version=%d", got.IsActive(), got.Version())
	}

	var outboxRows int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM outbox_events WHERE aggregate_id = $1`, created.ID().String()).Scan(&outboxRows); err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if outboxRows != 2 {
		t.Fatalf("expected 2 outbox rows, got %d", outboxRows)
	}

	_, err = uow.Command(ctx, p, "dup", func(ctx context.Context, s uow.Session) (*domain.Provider, error) {
		pr, _ := domain.CreateProvider(domain.ProviderParams{Name: "Dup", Slug: slug, Email: "dup@example.com", TimeZone: "UTC"})
		return pr, s.Providers().Add(ctx, pr)
	})
	if !errors.Is(err, uow.ErrConflict) {
		t.Fatalf("expected slug conflict, got %v", err)
	}
}

func TestPostgres_StaffExclusion(t *testing.T) {
	store, _ := openTestStore(t)
	p := uow.NewPipeline(store, nil, nil)
	ctx := context.Background()

	type fixture struct {
		provider *domain.Provider
		service  *domain.Service
		staff    *domain.Staff
		customer *domain.Customer
	}
	fx, err := uow.Command(ctx, p, "seed", func(ctx context.Context, s uow.Session) (fixture, error) {
		tag := domain.NewProviderID().String()[:8]
		pr, _ := domain.CreateProvider(domain.ProviderParams{Name: "Ex", Slug: "ex-" + tag, Email: "ex@example.com", TimeZone: "UTC"})
		svc, _ := domain.CreateService(pr.ID(), "Cut", 30, 1000, "EUR", domain.BookingModeStaffBased)
		st, _ := domain.CreateStaff(pr.ID(), "Ana")
		_ = st.AssignService(svc.ID())
		c, _ := domain.CreateCustomer("C", "c-"+tag+"@example.com", "")
		for _, err := range []error{s.Providers().Add(ctx, pr), s.Services().Add(ctx, svc), s.Staff().Add(ctx, st), s.Customers().Add(ctx, c)} {
			if err != nil {
				return fixture{}, err
			}
		}
		return fixture{pr, svc, st, c}, nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	book := func(number, start, end string) error {
		_, err := uow.Command(ctx, p, "book", func(ctx context.Context, s uow.Session) (*domain.Booking, error) {
			st, _ := domain.ParseClock(start)
			en, _ := domain.ParseClock(end)
			b, err := domain.CreateWithStaff(domain.BookingParams{
				Number: number, ProviderID: fx.provider.ID(), ServiceID: fx.service.ID(), CustomerID: fx.customer.ID(),
				Date: civil.Date{Year: 2030, Month: 1, Day: 7}, StartTime: st, EndTime: en,
				ServiceName: "Cut", ServicePrice: 1000, ServiceCurrency: "EUR",
			}, fx.staff.ID(), "Ana")
			if err != nil {
				return nil, err
			}
			return b, s.Bookings().Add(ctx, b)
		})
		return err
	}
	prefix := "BK-" + fx.provider.ID().String()[:8]
	if err := book(prefix+"-1", "10:00", "10:30"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := book(prefix+"-2", "10:30", "11:00"); err != nil {
		t.Fatalf("back-to-back booking should be allowed: %v", err)
	}
	if err := book(prefix+"-3", "10:15", "10:45"); !errors.Is(err, uow.ErrConflict) {
		t.Fatalf("expected exclusion conflict, got %v", err)
	}

	staff, err := uow.Query(ctx, p, "staff", func(ctx context.Context, s uow.Session) ([]*domain.Staff, error) {
		return s.Staff().GetByServiceID(ctx, fx.service.ID())
	})
	if err != nil || len(staff) != 1 || !staff[0].IsAssignedTo(fx.service.ID()) {
		t.Fatalf("expected assigned staff, got %v %v", staff, err)
	}
}
