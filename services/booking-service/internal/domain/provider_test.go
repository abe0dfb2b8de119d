package domain

import (
	"testing"
	"time"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := CreateProvider(ProviderParams{
		Name:     "Sunshine Spa",
		Slug:     "sunshine-spa",
		Email:    "hello@sunshine.example",
		TimeZone: "Europe/Lisbon",
	})
	if err != nil {
		t.Fatalf("CreateProvider: %v", err)
	}
	return p
}

func TestCreateProvider_RaisesCreated(t *testing.T) {
	p := newTestProvider(t)
	if p.ID().IsZero() {
		t.Fatalf("expected generated id")
	}
	if !p.IsActive() {
		t.Fatalf("new providers start active")
	}
	events := p.DomainEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	created, ok := events[0].(ProviderCreated)
	if !ok {
		t.Fatalf("expected ProviderCreated, got %T", events[0])
	}
	if created.Slug != "sunshine-spa" || created.ProviderID != p.ID() {
		t.Fatalf("unexpected event payload: %+v", created)
	}
	if created.AggregateID() != p.AggregateID() {
		t.Fatalf("event aggregate id mismatch")
	}
	if !p.HasChanges() {
		t.Fatalf("new provider should be marked changed")
	}
}

func TestCreateProvider_InvalidInput(t *testing.T) {
	cases := []ProviderParams{
		{Name: "", Slug: "ok", Email: "a@b.co", TimeZone: "UTC"},
		{Name: "Spa", Slug: "Not Valid", Email: "a@b.co", TimeZone: "UTC"},
		{Name: "Spa", Slug: "ok", Email: "nope", TimeZone: "UTC"},
		{Name: "Spa", Slug: "ok", Email: "a@b.co", TimeZone: "Nowhere/Zone"},
		{Name: "Spa", Slug: "ok", Email: "a@b.co", TimeZone: "UTC", Phone: "012345678901234567890"},
	}
	for i, tc := range cases {
		p, err := CreateProvider(tc)
		if err == nil || p != nil {
			t.Fatalf("case %d: expected error and nil provider", i)
		}
		if !IsRuleViolation(err) {
			t.Fatalf("case %d: expected rule violation, got %v", i, err)
		}
	}
}

func TestProvider_UpdateIsAtomic(t *testing.T) {
	p := newTestProvider(t)
	p.ClearDomainEvents()

	if err := p.Update("New Name", "desc", "not-an-email", "123"); err == nil {
		t.Fatalf("expected error")
	}
	if p.Name() != "Sunshine Spa" || p.Description() != "" {
		t.Fatalf("failed update must not change state, got name=%q desc=%q", p.Name(), p.Description())
	}
	if len(p.DomainEvents()) != 0 {
		t.Fatalf("failed update must not raise events")
	}

	if err := p.Update("Moonlight Spa", "Relax", "moon@spa.example", "+351 555"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Name() != "Moonlight Spa" || p.Email().String() != "moon@spa.example" || p.Phone() != "+351 555" {
		t.Fatalf("update not applied: %+v", p.Snapshot())
	}
	if p.Slug().String() != "sunshine-spa" {
		t.Fatalf("slug must not change on update")
	}
	events := p.DomainEvents()
	if len(events) != 1 || events[0].EventName() != EventProviderUpdated {
		t.Fatalf("expected a single provider.updated event, got %v", events)
	}
}

func TestProvider_ActivationGuards(t *testing.T) {
	p := newTestProvider(t)
	if err := p.Activate(); err == nil {
		t.Fatalf("activating an active provider should fail")
	}
	if err := p.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if err := p.Deactivate(); err == nil {
		t.Fatalf("deactivating an inactive provider should fail")
	}
	if err := p.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	names := []string{}
	for _, e := range p.DomainEvents() {
		names = append(names, e.EventName())
	}
	want := []string{EventProviderCreated, EventProviderDeactivated, EventProviderActivated}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestProvider_SnapshotRoundTrip(t *testing.T) {
	p := newTestProvider(t)
	p.Stamp(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	p.MarkPersisted()

	restored, err := RestoreProvider(p.Snapshot())
	if err != nil {
		t.Fatalf("RestoreProvider: %v", err)
	}
	if restored.ID() != p.ID() || restored.Version() != 1 || restored.TimeZone().String() != "Europe/Lisbon" {
		t.Fatalf("restored provider mismatch: %+v", restored.Snapshot())
	}
	if len(restored.DomainEvents()) != 0 || restored.HasChanges() {
		t.Fatalf("restored aggregates carry no events and no pending changes")
	}
	if !restored.CreatedAt().Equal(p.CreatedAt()) {
		t.Fatalf("created at not preserved")
	}
}
