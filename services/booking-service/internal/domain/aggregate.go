package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Aggregate is what the unit of work needs from every aggregate root.
type Aggregate interface {
	AggregateID() uuid.UUID
	AggregateType() string
	DomainEvents() []Event
	ClearDomainEvents()
	HasChanges() bool
	Version() int64
	Stamp(now time.Time)
	MarkPersisted()
}

// Root is embedded by every aggregate. It carries the audit timestamps,
// the persisted version and the queue of events raised since the last
// successful save.
type Root struct {
	createdAt time.Time
	updatedAt time.Time
	version   int64
	changed   bool
	events    []Event
}

func (r *Root) CreatedAt() time.Time { return r.createdAt }
func (r *Root) UpdatedAt() time.Time { return r.updatedAt }

// Version is the number of committed saves. Zero means never persisted.
func (r *Root) Version() int64 { return r.version }

func (r *Root) HasChanges() bool { return r.changed }

// DomainEvents returns a copy of the queue in enqueue order.
func (r *Root) DomainEvents() []Event { return slices.Clone(r.events) }

func (r *Root) ClearDomainEvents() { r.events = nil }

// Stamp sets the audit timestamps. The unit of work calls it right before
// a save so all rows written together share one timestamp.
func (r *Root) Stamp(now time.Time) {
	now = now.UTC()
	if r.createdAt.IsZero() {
		r.createdAt = now
	}
	r.updatedAt = now
}

func (r *Root) MarkPersisted() {
	r.version++
	r.changed = false
}

func (r *Root) raise(e Event) {
	r.events = append(r.events, e)
	r.touch()
}

func (r *Root) touch() {
	r.updatedAt = time.Now().UTC()
	r.changed = true
}

func (r *Root) restore(createdAt, updatedAt time.Time, version int64) {
	r.createdAt = createdAt
	r.updatedAt = updatedAt
	r.version = version
	r.changed = false
	r.events = nil
}
