package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

const (
	keyPrefix  = "slots"
	anyStaff   = "-"
	scanCount  = 200
	defaultTTL = 5 * time.Minute
)

// Key identifies one cached slot list. StaffID is zero for direct services.
type Key struct {
	ServiceID domain.ServiceID
	StaffID   domain.StaffID
	Date      civil.Date
}

func (k Key) String() string {
	return keyPrefix + ":" + k.ServiceID.String() + ":" + staffPart(k.StaffID) + ":" + k.Date.String()
}

func staffPart(id domain.StaffID) string {
	if id.IsZero() {
		return anyStaff
	}
	return id.String()
}

// Cache keeps computed slot lists in Redis. A nil *Cache, or one built
// without a client, behaves as an always-empty cache.
type Cache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *Cache) enabled() bool { return c != nil && c.rdb != nil }

// Get returns the cached slots and whether the key was present.
func (c *Cache) Get(ctx context.Context, key Key) ([]Slot, bool, error) {
	if !c.enabled() {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	var slots []Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		// Undecodable entries are dropped and recomputed.
		_ = c.rdb.Del(ctx, key.String()).Err()
		return nil, false, nil
	}
	return slots, true, nil
}

func (c *Cache) Put(ctx context.Context, key Key, slots []Slot) error {
	if !c.enabled() {
		return nil
	}
	if slots == nil {
		slots = []Slot{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key.String(), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Invalidate deletes every key matching one of the glob patterns.
func (c *Cache) Invalidate(ctx context.Context, patterns ...string) error {
	if !c.enabled() {
		return nil
	}
	var errs []error
	for _, pattern := range patterns {
		if err := c.deleteMatching(ctx, pattern); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Cache) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("del %s: %w", pattern, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func servicePattern(id domain.ServiceID) string {
	return keyPrefix + ":" + id.String() + ":*"
}

func staffPattern(id domain.StaffID, date string) string {
	return keyPrefix + ":*:" + id.String() + ":" + date
}

// bookingPatterns covers every list a booking on date can affect. A staff
// member is exclusive across services, so all of their lists go.
func bookingPatterns(service domain.ServiceID, staff domain.StaffID, date civil.Date) []string {
	if staff.IsZero() {
		return []string{Key{ServiceID: service, Date: date}.String()}
	}
	return []string{staffPattern(staff, date.String())}
}

// Register subscribes cache invalidation to the events that change availability.
func (c *Cache) Register(d *uow.Dispatcher) {
	const name = "slot-cache"
	uow.On(d, name, func(ctx context.Context, e domain.BookingCreated) error {
		return c.Invalidate(ctx, bookingPatterns(e.ServiceID, e.StaffID, e.Date)...)
	})
	uow.On(d, name, func(ctx context.Context, e domain.BookingCancelled) error {
		return c.Invalidate(ctx, bookingPatterns(e.ServiceID, e.StaffID, e.Date)...)
	})
	uow.On(d, name, func(ctx context.Context, e domain.ServiceUpdated) error {
		return c.Invalidate(ctx, servicePattern(e.ServiceID))
	})
	uow.On(d, name, func(ctx context.Context, e domain.ServiceScheduleUpdated) error {
		return c.Invalidate(ctx, servicePattern(e.ServiceID))
	})
	uow.On(d, name, func(ctx context.Context, e domain.ServiceCapacityChanged) error {
		return c.Invalidate(ctx, servicePattern(e.ServiceID))
	})
	uow.On(d, name, func(ctx context.Context, e domain.StaffScheduleUpdated) error {
		return c.Invalidate(ctx, staffPattern(e.StaffID, "*"))
	})
}
