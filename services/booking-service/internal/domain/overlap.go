package domain

import (
	"slices"

	"cloud.google.com/go/civil"
)

// TimeRange is a half-open interval [Start, End) within one day.
type TimeRange struct {
	Start civil.Time
	End   civil.Time
}

// Overlaps is false for ranges that only touch at a boundary.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// PeakConcurrency returns the largest number of ranges that are active at
// the same instant inside window.
func PeakConcurrency(ranges []TimeRange, window TimeRange) int {
	type edge struct {
		at    civil.Time
		delta int
	}
	var edges []edge
	for _, r := range ranges {
		if !r.Overlaps(window) {
			continue
		}
		start, end := r.Start, r.End
		if start.Before(window.Start) {
			start = window.Start
		}
		if end.After(window.End) {
			end = window.End
		}
		edges = append(edges, edge{start, +1}, edge{end, -1})
	}
	// Ends sort before starts at the same instant so back-to-back ranges
	// never count as concurrent.
	slices.SortFunc(edges, func(a, b edge) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return a.delta - b.delta
	})
	peak, cur := 0, 0
	for _, e := range edges {
		cur += e.delta
		peak = max(peak, cur)
	}
	return peak
}

// BlockingSpans returns the spans of bookings that still occupy their slot,
// skipping the booking identified by exclude.
func BlockingSpans(bookings []*Booking, exclude BookingID) []TimeRange {
	spans := make([]TimeRange, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || b.id == exclude || !b.status.Blocks() {
			continue
		}
		spans = append(spans, b.Span())
	}
	return spans
}

// EnsureCapacity returns ErrSlotTaken when adding want to existing would
// put more than capacity bookings in the same instant.
func EnsureCapacity(existing []*Booking, want TimeRange, capacity int, exclude BookingID) error {
	if capacity < 1 {
		capacity = 1
	}
	if PeakConcurrency(BlockingSpans(existing, exclude), want)+1 > capacity {
		return ErrSlotTaken
	}
	return nil
}
