package availability

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

var testDate = civil.Date{Year: 2026, Month: time.March, Day: 2}

func TestKeyString(t *testing.T) {
	svc := domain.NewServiceID()
	staff := domain.NewStaffID()

	direct := Key{ServiceID: svc, Date: testDate}.String()
	if want := "slots:" + svc.String() + ":-:2026-03-02"; direct != want {
		t.Fatalf("expected %q, got %q", want, direct)
	}
	withStaff := Key{ServiceID: svc, StaffID: staff, Date: testDate}.String()
	if want := "slots:" + svc.String() + ":" + staff.String() + ":2026-03-02"; withStaff != want {
		t.Fatalf("expected %q, got %q", want, withStaff)
	}
}

func TestBookingPatterns(t *testing.T) {
	svc := domain.NewServiceID()
	staff := domain.NewStaffID()

	direct := bookingPatterns(svc, domain.StaffID{}, testDate)
	if len(direct) != 1 || direct[0] != (Key{ServiceID: svc, Date: testDate}).String() {
		t.Fatalf("unexpected direct patterns %v", direct)
	}
	staffed := bookingPatterns(svc, staff, testDate)
	if len(staffed) != 1 || staffed[0] != "slots:*:"+staff.String()+":2026-03-02" {
		t.Fatalf("unexpected staff patterns %v", staffed)
	}
}

func TestNilCacheIsEmpty(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	if _, ok, err := c.Get(ctx, Key{}); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Put(ctx, Key{}, []Slot{{}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := NewCache(nil, 0, nil).Invalidate(ctx, "slots:*"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("SLOTBOOK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SLOTBOOK_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return rdb
}

func TestCacheRoundTripAndInvalidation(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	c := NewCache(rdb, time.Minute, nil)
	d := uow.NewDispatcher(nil)
	c.Register(d)

	svc := domain.NewServiceID()
	key := Key{ServiceID: svc, Date: testDate}
	slots := []Slot{{Start: civil.Time{Hour: 9}, End: civil.Time{Hour: 10}, Remaining: 2}}
	if err := c.Put(ctx, key, slots); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0] != slots[0] {
		t.Fatalf("unexpected slots %+v", got)
	}

	if err := d.Publish(ctx, domain.ServiceCapacityChanged{ServiceID: svc}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatal("expected capacity change to invalidate the service's lists")
	}
}
