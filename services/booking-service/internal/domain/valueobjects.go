package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	maxEmailLength        = 255
	maxSlugLength         = 100
	maxProviderNameLength = 200
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Email is a syntactically plausible address. The zero value means absent.
type Email struct{ value string }

func NewEmail(raw string) (Email, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return Email{}, ruleViolation("email is required")
	case len(v) > maxEmailLength:
		return Email{}, ruleViolation("email must not exceed %d characters", maxEmailLength)
	case !strings.Contains(v, "@") || !strings.Contains(v, "."):
		return Email{}, ruleViolation("email %q is not a valid address", v)
	}
	return Email{value: v}, nil
}

// optionalEmail accepts an empty string as "no email".
func optionalEmail(raw string) (Email, error) {
	if strings.TrimSpace(raw) == "" {
		return Email{}, nil
	}
	return NewEmail(raw)
}

func (e Email) String() string { return e.value }
func (e Email) IsZero() bool { return e.value == "" }

// Slug is the URL-safe public handle of a provider.
type Slug struct{ value string }

func NewSlug(raw string) (Slug, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return Slug{}, ruleViolation("slug is required")
	case len(v) > maxSlugLength:
		return Slug{}, ruleViolation("slug must not exceed %d characters", maxSlugLength)
	case !slugPattern.MatchString(v):
		return Slug{}, ruleViolation("slug may only contain lowercase letters, digits and hyphens")
	}
	return Slug{value: v}, nil
}

func (s Slug) String() string { return s.value }

type ProviderName struct{ value string }

func NewProviderName(raw string) (ProviderName, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return ProviderName{}, ruleViolation("provider name is required")
	case len([]rune(v)) > maxProviderNameLength:
		return ProviderName{}, ruleViolation("provider name must not exceed %d characters", maxProviderNameLength)
	}
	return ProviderName{value: v}, nil
}

func (n ProviderName) String() string { return n.value }

// TimeZone is an IANA zone name that the runtime can load.
type TimeZone struct {
	name string
	loc  *time.Location
}

func NewTimeZone(raw string) (TimeZone, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return TimeZone{}, ruleViolation("time zone is required")
	}
	// "Local" depends on the host and is not an IANA name.
	if strings.EqualFold(v, "local") {
		return TimeZone{}, ruleViolation("time zone %q is not a valid IANA zone", v)
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		return TimeZone{}, ruleViolation("time zone %q is not a valid IANA zone", v)
	}
	return TimeZone{name: v, loc: loc}, nil
}

func (tz TimeZone) String() string { return tz.name }

// Location falls back to UTC for the zero value.
func (tz TimeZone) Location() *time.Location {
	if tz.loc == nil {
		return time.UTC
	}
	return tz.loc
}

func requireText(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", ruleViolation("%s is required", field)
	}
	return v, nil
}

func maxLength(field, value string, limit int) error {
	if len([]rune(value)) > limit {
		return ruleViolation("%s must not exceed %d characters", field, limit)
	}
	return nil
}
