package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLocator replays one result per CurrentPosition call and records
// the options it was called with.
type scriptedLocator struct {
	results []func() (Position, error)
	calls   []Options
}

func (l *scriptedLocator) CurrentPosition(_ context.Context, opts Options) (Position, error) {
	l.calls = append(l.calls, opts)
	next := l.results[0]
	l.results = l.results[1:]
	return next()
}

func ok(lat, lng float64) func() (Position, error) {
	return func() (Position, error) { return Position{Latitude: lat, Longitude: lng}, nil }
}

func fail(err error) func() (Position, error) {
	return func() (Position, error) { return Position{}, err }
}

func TestAcquirePosition_HighAccuracyFirst(t *testing.T) {
	l := &scriptedLocator{results: []func() (Position, error){ok(19.07609, 72.877426)}}

	pos, err := AcquirePosition(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, 19.07609, pos.Latitude)

	require.Len(t, l.calls, 1)
	assert.True(t, l.calls[0].HighAccuracy)
	assert.Equal(t, highAccuracyTimeout, l.calls[0].Timeout)
}

func TestAcquirePosition_RetriesLowAccuracyOnTimeout(t *testing.T) {
	l := &scriptedLocator{results: []func() (Position, error){
		fail(ErrTimeout),
		ok(28.613939, 77.209021),
	}}

	pos, err := AcquirePosition(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, 28.613939, pos.Latitude)

	require.Len(t, l.calls, 2)
	assert.True(t, l.calls[0].HighAccuracy)
	assert.False(t, l.calls[1].HighAccuracy)
	assert.Equal(t, lowAccuracyTimeout, l.calls[1].Timeout)
}

func TestAcquirePosition_RetriesOnUnavailable(t *testing.T) {
	l := &scriptedLocator{results: []func() (Position, error){
		fail(ErrPositionUnavailable),
		fail(ErrPositionUnavailable),
	}}

	_, err := AcquirePosition(context.Background(), l)
	assert.ErrorIs(t, err, ErrPositionUnavailable)
	assert.Len(t, l.calls, 2)
}

func TestAcquirePosition_NoRetryOnPermissionDenied(t *testing.T) {
	l := &scriptedLocator{results: []func() (Position, error){
		fail(ErrPermissionDenied),
	}}

	_, err := AcquirePosition(context.Background(), l)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Len(t, l.calls, 1, "permission denial must not be retried")
}

func TestAcquirePosition_NoRetryWhenUnsupported(t *testing.T) {
	l := &scriptedLocator{results: []func() (Position, error){
		fail(ErrNotSupported),
	}}

	_, err := AcquirePosition(context.Background(), l)
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.Len(t, l.calls, 1)
}
