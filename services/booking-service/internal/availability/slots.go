package availability

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

// Slot is a bookable interval together with how many more bookings it can take.
type Slot struct {
	Start     civil.Time `json:"start"`
	End       civil.Time `json:"end"`
	Remaining int        `json:"remaining"`
}

// AvailableSlots returns the slots of length duration, stepped by step inside window,
// where fewer than capacity busy ranges are active. Slots starting before notBefore are
// skipped; pass the zero civil.Time to keep all of them.
//
// Ranges are half-open, so a slot that starts exactly when a busy range ends is free.
func AvailableSlots(window domain.TimeRange, duration, step time.Duration, busy []domain.TimeRange, capacity int, notBefore civil.Time) []Slot {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !window.Start.Before(window.End) {
		return nil
	}
	if capacity < 1 {
		capacity = 1
	}

	var slots []Slot
	for start := window.Start; ; {
		end, ok := domain.ClockAdd(start, duration)
		if !ok || end.After(window.End) {
			break
		}
		if !start.Before(notBefore) {
			used := domain.PeakConcurrency(busy, domain.TimeRange{Start: start, End: end})
			if used < capacity {
				slots = append(slots, Slot{Start: start, End: end, Remaining: capacity - used})
			}
		}
		next, ok := domain.ClockAdd(start, step)
		if !ok {
			break
		}
		start = next
	}
	return slots
}
