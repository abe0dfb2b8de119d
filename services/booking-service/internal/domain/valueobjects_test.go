package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewEmail(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"owner@sunshine.example", true},
		{"  padded@example.com ", true},
		{"", false},
		{"   ", false},
		{"no-at-sign.example", false},
		{"no-dot@example", false},
		{strings.Repeat("a", 250) + "@x.com", false},
	}
	for _, tc := range cases {
		e, err := NewEmail(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("NewEmail(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("NewEmail(%q) expected error", tc.in)
			}
			if !IsRuleViolation(err) {
				t.Fatalf("NewEmail(%q) expected rule violation, got %T", tc.in, err)
			}
			if !e.IsZero() {
				t.Fatalf("NewEmail(%q) returned partial value %q", tc.in, e)
			}
		}
	}
}

func TestNewSlug(t *testing.T) {
	valid := []string{"sunshine-spa", "a", "spa-24", strings.Repeat("x", 100)}
	for _, s := range valid {
		if _, err := NewSlug(s); err != nil {
			t.Fatalf("NewSlug(%q) unexpected error: %v", s, err)
		}
	}
	invalid := []string{"", "Sunshine", "sun shine", "spa_1", "spa!", strings.Repeat("x", 101)}
	for _, s := range invalid {
		if _, err := NewSlug(s); err == nil {
			t.Fatalf("NewSlug(%q) expected error", s)
		}
	}
}

func TestNewProviderName(t *testing.T) {
	if _, err := NewProviderName("Sunshine Spa"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewProviderName(" "); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := NewProviderName(strings.Repeat("n", 201)); err == nil {
		t.Fatalf("expected error for long name")
	}
}

func TestNewTimeZone(t *testing.T) {
	tz, err := NewTimeZone("Europe/Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tz.Location().String() != "Europe/Berlin" {
		t.Fatalf("expected Europe/Berlin location, got %s", tz.Location())
	}
	for _, raw := range []string{"", "Mars/Olympus", "Local"} {
		if _, err := NewTimeZone(raw); err == nil {
			t.Fatalf("NewTimeZone(%q) expected error", raw)
		}
	}
	if (TimeZone{}).Location() != time.UTC {
		t.Fatalf("zero time zone should fall back to UTC")
	}
}
