package app

import (
	"context"
	"crypto/rand"
	"time"
)

// BookingNumberGenerator issues human-readable booking numbers. Numbers
// must be unique; the store rejects duplicates.
type BookingNumberGenerator interface {
	Next(ctx context.Context, at time.Time) (string, error)
}

// numberAlphabet leaves out 0/O and 1/I.
const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomNumbers produces BK-YYYYMMDD-XXXXXX with a random suffix.
type RandomNumbers struct{}

func (RandomNumbers) Next(_ context.Context, at time.Time) (string, error) {
	var raw [6]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	suffix := make([]byte, len(raw))
	for i, b := range raw {
		suffix[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return "BK-" + at.Format("20060102") + "-" + string(suffix), nil
}
