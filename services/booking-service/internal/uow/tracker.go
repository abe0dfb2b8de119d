package uow

import (
	"time"

	"github.com/google/uuid"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

type State int

const (
	Unchanged State = iota
	Added
	Modified
	Deleted
)

func (s State) String() string {
	switch s {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unchanged"
	}
}

type Key struct {
	Type string
	ID   uuid.UUID
}

// Entry is one tracked aggregate. Aggregate is nil for deletions of rows
// that were never loaded.
type Entry struct {
	Key       Key
	Aggregate domain.Aggregate
	State     State
}

// Tracker is the session's identity map. Entries keep the order in which
// aggregates were first touched, which is also the order events are
// collected in.
type Tracker struct {
	entries []*Entry
	index   map[Key]*Entry
}

func NewTracker() *Tracker {
	return &Tracker{index: make(map[Key]*Entry)}
}

func keyOf(a domain.Aggregate) Key {
	return Key{Type: a.AggregateType(), ID: a.AggregateID()}
}

func (t *Tracker) upsert(k Key, a domain.Aggregate, s State) *Entry {
	if e, ok := t.index[k]; ok {
		if a != nil {
			e.Aggregate = a
		}
		return e
	}
	e := &Entry{Key: k, Aggregate: a, State: s}
	t.entries = append(t.entries, e)
	t.index[k] = e
	return e
}

// Lookup returns the tracked instance, so repeated loads within one
// session observe the same object.
func (t *Tracker) Lookup(typ string, id uuid.UUID) (domain.Aggregate, bool) {
	e, ok := t.index[Key{Type: typ, ID: id}]
	if !ok || e.State == Deleted || e.Aggregate == nil {
		return nil, false
	}
	return e.Aggregate, true
}

// Deleted reports whether the aggregate was removed in this session.
func (t *Tracker) Deleted(typ string, id uuid.UUID) bool {
	e, ok := t.index[Key{Type: typ, ID: id}]
	return ok && e.State == Deleted
}

// Attach records an aggregate loaded from the store. If one with the same
// identity is already tracked, that instance wins and is returned.
func (t *Tracker) Attach(a domain.Aggregate) domain.Aggregate {
	e := t.index[keyOf(a)]
	if e != nil && e.Aggregate != nil {
		return e.Aggregate
	}
	return t.upsert(keyOf(a), a, Unchanged).Aggregate
}

func (t *Tracker) Add(a domain.Aggregate) {
	e := t.upsert(keyOf(a), a, Added)
	if e.State == Deleted {
		e.State = Modified
	}
}

func (t *Tracker) Update(a domain.Aggregate) {
	e := t.upsert(keyOf(a), a, Modified)
	if e.State == Unchanged {
		e.State = Modified
	}
}

// Remove schedules a deletion. Removing an aggregate added in this session
// just forgets the insert.
func (t *Tracker) Remove(typ string, id uuid.UUID) {
	e := t.upsert(Key{Type: typ, ID: id}, nil, Deleted)
	if e.State == Added {
		e.State = Unchanged
		e.Aggregate = nil
		return
	}
	e.State = Deleted
}

// Pending returns entries that need a write, in touch order. Loaded
// aggregates mutated without an explicit Update still count.
func (t *Tracker) Pending() []*Entry {
	var out []*Entry
	for _, e := range t.entries {
		switch {
		case e.State == Added, e.State == Deleted, e.State == Modified:
			out = append(out, e)
		case e.State == Unchanged && e.Aggregate != nil && e.Aggregate.HasChanges():
			e.State = Modified
			out = append(out, e)
		}
	}
	return out
}

// Stamp sets audit timestamps on everything about to be inserted or updated.
func (t *Tracker) Stamp(now time.Time) {
	for _, e := range t.Pending() {
		if e.State == Added || e.State == Modified {
			e.Aggregate.Stamp(now)
		}
	}
}

// Events collects queued events in touch order, then enqueue order.
func (t *Tracker) Events() []domain.Event {
	var out []domain.Event
	for _, e := range t.entries {
		if e.Aggregate != nil {
			out = append(out, e.Aggregate.DomainEvents()...)
		}
	}
	return out
}

func (t *Tracker) ClearEvents() {
	for _, e := range t.entries {
		if e.Aggregate != nil {
			e.Aggregate.ClearDomainEvents()
		}
	}
}

// AcceptChanges is called after a successful commit.
func (t *Tracker) AcceptChanges() {
	kept := t.entries[:0]
	for _, e := range t.entries {
		switch e.State {
		case Deleted:
			delete(t.index, e.Key)
			continue
		case Added, Modified:
			e.Aggregate.MarkPersisted()
			e.State = Unchanged
		}
		kept = append(kept, e)
	}
	t.entries = kept
}
