package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sakshamebdev873/ServiceOnboard/internal/center"
	"github.com/Sakshamebdev873/ServiceOnboard/internal/geo"
)

// recordingSubmitter counts submissions and replays a scripted result.
type recordingSubmitter struct {
	mu      sync.Mutex
	calls   int
	gate    chan struct{} // when non-nil, Submit blocks until closed
	lastIn  Data
	err     error
	created *center.ServiceCenter
}

func (s *recordingSubmitter) Submit(_ context.Context, data Data, _ []Image) (*center.ServiceCenter, error) {
	s.mu.Lock()
	s.calls++
	s.lastIn = data
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return s.created, s.err
}

func (s *recordingSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubLocator struct {
	pos geo.Position
	err error
}

func (l *stubLocator) CurrentPosition(context.Context, geo.Options) (geo.Position, error) {
	return l.pos, l.err
}

type stubGeocoder struct {
	addr geo.Address
	err  error
}

func (g *stubGeocoder) ReverseGeocode(context.Context, string, string) (geo.Address, error) {
	return g.addr, g.err
}

func newTestController(api Submitter) (*Controller, *MemoryPreviewStore) {
	previews := NewMemoryPreviewStore()
	c := NewController(api, &stubLocator{}, &stubGeocoder{}, previews)
	return c, previews
}

func fillValid(c *Controller) {
	c.SetField("centerName", "Sharma Auto Works")
	c.SetField("phone", "9876543210")
	c.SetField("email", "sharma@example.com")
	c.SetField("city", "Mumbai")
	c.SetField("state", "Maharashtra")
	c.SetField("zipCode", "400001")
	c.SetField("latitude", "19.076090")
	c.SetField("longitude", "72.877426")
	c.ToggleCategory("Mechanic")
	_ = c.AddImages(Image{Name: "a.jpg", Size: 1024, Data: []byte("x")})
}

func TestSetField_ClearsFieldError(t *testing.T) {
	c, _ := newTestController(&recordingSubmitter{})

	// Provoke validation errors, then edit one field.
	err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, c.Errors(), "phone")

	c.SetField("phone", "9876543210")
	assert.NotContains(t, c.Errors(), "phone")
	assert.Contains(t, c.Errors(), "email", "other errors stay until their field is edited")
}

func TestToggleCategory_Idempotent(t *testing.T) {
	c, _ := newTestController(&recordingSubmitter{})

	before := c.Data().Categories
	c.ToggleCategory("AC")
	assert.Equal(t, []string{"AC"}, c.Data().Categories)
	c.ToggleCategory("AC")
	assert.Equal(t, before, c.Data().Categories, "toggling twice restores the original selection")
}

func TestToggleCategory_PreservesOthers(t *testing.T) {
	c, _ := newTestController(&recordingSubmitter{})

	c.ToggleCategory("Mechanic")
	c.ToggleCategory("AC")
	c.ToggleCategory("Electrician")
	c.ToggleCategory("AC")
	assert.Equal(t, []string{"Mechanic", "Electrician"}, c.Data().Categories)
}

func TestAddImages_RejectsOversized(t *testing.T) {
	c, _ := newTestController(&recordingSubmitter{})

	err := c.AddImages(Image{Name: "big.jpg", Size: 6 * 1024 * 1024})
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Empty(t, c.Images(), "rejection leaves state unchanged")
	assert.Empty(t, c.Previews())
}

func TestAddImages_RejectsOverCount(t *testing.T) {
	c, _ := newTestController(&recordingSubmitter{})

	var six []Image
	for i := 0; i < 6; i++ {
		six = append(six, Image{Name: "a.jpg", Size: 1024 * 1024})
	}

	err := c.AddImages(six...)
	assert.ErrorIs(t, err, ErrTooManyImages)
	assert.Empty(t, c.Images())
}

func TestAddImages_CumulativeCap(t *testing.T) {
	c, _ := newTestController(&recordingSubmitter{})

	for i := 0; i < 5; i++ {
		require.NoError(t, c.AddImages(Image{Name: "a.jpg", Size: 1}))
	}
	err := c.AddImages(Image{Name: "one-too-many.jpg", Size: 1})
	assert.ErrorIs(t, err, ErrTooManyImages)
	assert.Len(t, c.Images(), 5)
}

func TestAddImages_CreatesPreviews(t *testing.T) {
	c, previews := newTestController(&recordingSubmitter{})

	require.NoError(t, c.AddImages(
		Image{Name: "a.jpg", Size: 1},
		Image{Name: "b.jpg", Size: 1},
	))
	assert.Len(t, c.Previews(), 2)
	assert.Equal(t, 2, previews.LiveCount())
}

func TestRemoveImage(t *testing.T) {
	c, previews := newTestController(&recordingSubmitter{})

	require.NoError(t, c.AddImages(
		Image{Name: "a.jpg", Size: 1},
		Image{Name: "b.jpg", Size: 1},
		Image{Name: "c.jpg", Size: 1},
	))

	c.RemoveImage(1)

	images := c.Images()
	require.Len(t, images, 2)
	assert.Equal(t, "a.jpg", images[0].Name)
	assert.Equal(t, "c.jpg", images[1].Name, "relative order of the rest is preserved")
	assert.Len(t, c.Previews(), 2)
	assert.Equal(t, 2, previews.LiveCount(), "removed preview handle is released")

	// Out-of-range indexes are ignored.
	c.RemoveImage(9)
	assert.Len(t, c.Images(), 2)
}

func TestAcquireLocation_RoundsToSixDecimals(t *testing.T) {
	previews := NewMemoryPreviewStore()
	locator := &stubLocator{pos: geo.Position{Latitude: 19.0760901234, Longitude: 72.8774261234}}
	c := NewController(&recordingSubmitter{}, locator, &stubGeocoder{}, previews)

	c.AcquireLocation(context.Background())

	data := c.Data()
	assert.Equal(t, "19.076090", data.Latitude)
	assert.Equal(t, "72.877426", data.Longitude)
	assert.False(t, c.Status().Locating)
}

func TestAcquireLocation_FailureLeavesCoordinates(t *testing.T) {
	previews := NewMemoryPreviewStore()
	locator := &stubLocator{err: geo.ErrPermissionDenied}
	c := NewController(&recordingSubmitter{}, locator, &stubGeocoder{}, previews)
	c.SetField("latitude", "1.000000")

	c.AcquireLocation(context.Background())

	assert.Equal(t, "1.000000", c.Data().Latitude)
	assert.Equal(t, "Unable to retrieve location", c.Errors()["location"])
}

func TestAutofillAddress(t *testing.T) {
	t.Run("requires coordinates", func(t *testing.T) {
		c, _ := newTestController(&recordingSubmitter{})

		err := c.AutofillAddress(context.Background())
		assert.ErrorIs(t, err, ErrNoCoordinates)
	})

	t.Run("fills address fields", func(t *testing.T) {
		previews := NewMemoryPreviewStore()
		geocoder := &stubGeocoder{addr: geo.Address{
			City: "Mumbai", State: "Maharashtra", ZipCode: "400001", Country: "India",
		}}
		c := NewController(&recordingSubmitter{}, &stubLocator{}, geocoder, previews)
		c.SetField("latitude", "19.076090")
		c.SetField("longitude", "72.877426")

		require.NoError(t, c.AutofillAddress(context.Background()))

		data := c.Data()
		assert.Equal(t, "Mumbai", data.City)
		assert.Equal(t, "Maharashtra", data.State)
		assert.Equal(t, "400001", data.ZipCode)
		assert.False(t, c.Status().FetchingAddress)
	})

	t.Run("failure leaves prior fields untouched", func(t *testing.T) {
		previews := NewMemoryPreviewStore()
		geocoder := &stubGeocoder{err: errors.New("lookup down")}
		c := NewController(&recordingSubmitter{}, &stubLocator{}, geocoder, previews)
		c.SetField("latitude", "19.076090")
		c.SetField("city", "Pune")

		err := c.AutofillAddress(context.Background())
		assert.ErrorIs(t, err, ErrAddressLookup)
		assert.Equal(t, "Pune", c.Data().City)
	})
}

func TestSubmit_ValidationVectors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Controller)
		wantKey string
	}{
		{"phone with leading digit below 6", func(c *Controller) { c.SetField("phone", "1234567890") }, "phone"},
		{"phone too short", func(c *Controller) { c.SetField("phone", "98765") }, "phone"},
		{"malformed email", func(c *Controller) { c.SetField("email", "not-an-email") }, "email"},
		{"zip too short", func(c *Controller) { c.SetField("zipCode", "4000") }, "zipCode"},
		{"missing center name", func(c *Controller) { c.SetField("centerName", "") }, "centerName"},
		{"missing location", func(c *Controller) { c.SetField("latitude", "") }, "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &recordingSubmitter{}
			c, _ := newTestController(api)
			fillValid(c)
			tt.mutate(c)

			err := c.Submit(context.Background())
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, c.Errors(), tt.wantKey)
			assert.Equal(t, 0, api.callCount(), "validation failure aborts before any network call")
		})
	}
}

func TestSubmit_ValidInputPasses(t *testing.T) {
	api := &recordingSubmitter{created: &center.ServiceCenter{ID: 1}}
	c, _ := newTestController(api)
	fillValid(c)

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, 1, api.callCount())
	assert.Equal(t, "9876543210", api.lastIn.Phone)
	assert.Equal(t, "400001", api.lastIn.ZipCode)
}

func TestSubmit_AllErrorsAtOnce(t *testing.T) {
	api := &recordingSubmitter{}
	c, _ := newTestController(api)

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrValidation)

	errs := c.Errors()
	for _, key := range []string{"centerName", "phone", "email", "city", "state", "zipCode", "location", "categories", "images"} {
		assert.Contains(t, errs, key)
	}
}

func TestSubmit_ResetsOnSuccess(t *testing.T) {
	api := &recordingSubmitter{created: &center.ServiceCenter{ID: 7}}
	previews := NewMemoryPreviewStore()
	c := NewController(api, &stubLocator{}, &stubGeocoder{}, previews)
	fillValid(c)

	require.NoError(t, c.Submit(context.Background()))

	data := c.Data()
	assert.Empty(t, data.CenterName)
	assert.Equal(t, "India", data.Country, "reset restores the initial state, including the country default")
	assert.Empty(t, data.Categories)
	assert.Empty(t, c.Images())
	assert.Empty(t, c.Previews())
	assert.Equal(t, 0, previews.LiveCount(), "all preview handles released")
	assert.False(t, c.Status().Submitting)
}

func TestSubmit_FailureKeepsState(t *testing.T) {
	api := &recordingSubmitter{err: ErrServerBusy}
	c, _ := newTestController(api)
	fillValid(c)

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrServerBusy)
	assert.Equal(t, "Sharma Auto Works", c.Data().CenterName, "state survives a failed submission")
	assert.False(t, c.Status().Submitting, "in-flight flag cleared on failure")
}

func TestSubmit_GuardsReentry(t *testing.T) {
	gate := make(chan struct{})
	api := &recordingSubmitter{created: &center.ServiceCenter{ID: 1}, gate: gate}
	c, _ := newTestController(api)
	fillValid(c)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()

	// Wait for the first submission to be in flight.
	require.Eventually(t, func() bool { return c.Status().Submitting }, 2*time.Second, time.Millisecond)

	// A second submit while in flight is a silent no-op.
	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, 1, api.callCount())

	close(gate)
	require.NoError(t, <-done)
}
