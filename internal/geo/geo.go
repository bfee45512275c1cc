// Package geo provides device position acquisition and reverse geocoding
// for the client form. Position sources are abstracted behind the Locator
// interface so the acquisition policy can be tested without hardware.
package geo

import (
	"context"
	"errors"
	"time"
)

// Static errors for position acquisition.
var (
	// ErrPermissionDenied is returned when the user refused location access.
	ErrPermissionDenied = errors.New("geo: location permission denied")
	// ErrPositionUnavailable is returned when no position fix could be obtained.
	ErrPositionUnavailable = errors.New("geo: position unavailable")
	// ErrTimeout is returned when the position request timed out.
	ErrTimeout = errors.New("geo: position request timed out")
	// ErrNotSupported is returned when the device has no location capability.
	ErrNotSupported = errors.New("geo: geolocation not supported")
)

// Position is a device position fix.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Options control a single position request.
type Options struct {
	// HighAccuracy requests a GPS-grade fix instead of a network-based one.
	HighAccuracy bool
	// Timeout bounds how long the request may take.
	Timeout time.Duration
}

// Locator obtains the device's current position.
type Locator interface {
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
}

// Acquisition timeouts. Mobile GPS fixes are slow, so the high-accuracy
// attempt gets the longer window.
const (
	highAccuracyTimeout = 15 * time.Second
	lowAccuracyTimeout  = 10 * time.Second
)

// AcquirePosition obtains a position fix with a fallback policy: first a
// high-accuracy attempt, and if that times out or the position is
// unavailable, one low-accuracy retry. An explicit permission denial is
// never retried.
func AcquirePosition(ctx context.Context, l Locator) (Position, error) {
	pos, err := l.CurrentPosition(ctx, Options{
		HighAccuracy: true,
		Timeout:      highAccuracyTimeout,
	})
	if err == nil {
		return pos, nil
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNotSupported) {
		return Position{}, err
	}

	return l.CurrentPosition(ctx, Options{
		HighAccuracy: false,
		Timeout:      lowAccuracyTimeout,
	})
}
