// Package form provides the headless client-side form controller for
// service center onboarding: field state, image selection with previews,
// geolocation and address autofill, validation and multipart submission.
package form

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/Sakshamebdev873/ServiceOnboard/internal/center"
	"github.com/Sakshamebdev873/ServiceOnboard/internal/geo"
)

// Client-side image limits, enforced before any network call.
const (
	// MaxFileSize is the per-image size ceiling in bytes.
	MaxFileSize = 5 * 1024 * 1024
	// MaxImages is the total image cap per submission.
	MaxImages = 5
)

// User-facing errors returned by controller operations.
var (
	// ErrImageTooLarge is returned when a selected image exceeds MaxFileSize.
	ErrImageTooLarge = errors.New("some images are too large, maximum size per image is 5MB")
	// ErrTooManyImages is returned when a selection would exceed MaxImages.
	ErrTooManyImages = errors.New("you can only upload a maximum of 5 images")
	// ErrValidation is returned by Submit when field validation failed.
	ErrValidation = errors.New("please fix all errors before submitting")
	// ErrNoCoordinates is returned by AutofillAddress when no position was acquired yet.
	ErrNoCoordinates = errors.New("fetch coordinates first")
	// ErrAddressLookup is returned when reverse geocoding failed.
	ErrAddressLookup = errors.New("could not fetch address details")
)

// Data holds the form's field values.
type Data struct {
	CenterName string `validate:"required"`
	Phone      string `validate:"required,inphone"`
	Email      string `validate:"required,email"`
	City       string `validate:"required"`
	State      string `validate:"required"`
	ZipCode    string `validate:"required,pincode"`
	Country    string
	Latitude   string `validate:"required"`
	Longitude  string
	Categories []string `validate:"min=1"`
}

// Image is one client-selected image file.
type Image struct {
	Name string
	Size int64
	Data []byte
}

// Status reports which asynchronous operations are in flight.
// The three flags are mutually independent.
type Status struct {
	Locating        bool
	FetchingAddress bool
	Submitting      bool
}

// Submitter sends a completed form to the backend.
type Submitter interface {
	Submit(ctx context.Context, data Data, images []Image) (*center.ServiceCenter, error)
}

// ReverseGeocoder resolves coordinates to an address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng string) (geo.Address, error)
}

// Controller is the client form state container. All state transitions go
// through its methods; blocking calls (geolocation, geocoding, submit)
// release the lock while waiting so other interactions stay responsive,
// and commit their results only if no newer trigger superseded them.
type Controller struct {
	mu       sync.Mutex
	data     Data
	images   []Image
	previews []string
	errs     map[string]string
	status   Status

	// Generation counters: a newer trigger invalidates an older in-flight
	// task's ability to commit its result.
	locateGen  int
	geocodeGen int

	api          Submitter
	locator      geo.Locator
	geocoder     ReverseGeocoder
	previewStore PreviewStore
	validate     *fieldValidator
}

// NewController creates a form controller wired to its collaborators.
// A nil previews store falls back to an in-memory one.
func NewController(api Submitter, locator geo.Locator, geocoder ReverseGeocoder, previews PreviewStore) *Controller {
	if previews == nil {
		previews = NewMemoryPreviewStore()
	}
	return &Controller{
		data:         initialData(),
		errs:         make(map[string]string),
		api:          api,
		locator:      locator,
		geocoder:     geocoder,
		previewStore: previews,
		validate:     newFieldValidator(),
	}
}

func initialData() Data {
	return Data{Country: center.DefaultCountry}
}

// Data returns a copy of the current field values.
func (c *Controller) Data() Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.data
	d.Categories = append([]string(nil), c.data.Categories...)
	return d
}

// Errors returns a copy of the current per-field validation errors.
func (c *Controller) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}

// Status returns the current in-flight flags.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Images returns a copy of the currently selected images.
func (c *Controller) Images() []Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Image(nil), c.images...)
}

// Previews returns the current preview handles, one per selected image.
func (c *Controller) Previews() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.previews...)
}

// SetField updates a single field and clears that field's prior error.
func (c *Controller) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "centerName":
		c.data.CenterName = value
	case "phone":
		c.data.Phone = value
	case "email":
		c.data.Email = value
	case "city":
		c.data.City = value
	case "state":
		c.data.State = value
	case "zipCode":
		c.data.ZipCode = value
	case "country":
		c.data.Country = value
	case "latitude":
		c.data.Latitude = value
	case "longitude":
		c.data.Longitude = value
	default:
		return
	}
	delete(c.errs, errorKey(name))
}

// errorKey maps a field name to its error map key. Latitude errors
// surface under the combined "location" key.
func errorKey(field string) string {
	if field == "latitude" || field == "longitude" {
		return "location"
	}
	return field
}

// ToggleCategory adds the category if absent and removes it if present.
// Toggling twice restores the original selection.
func (c *Controller) ToggleCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.data.Categories {
		if existing == category {
			c.data.Categories = append(c.data.Categories[:i], c.data.Categories[i+1:]...)
			delete(c.errs, "categories")
			return
		}
	}
	c.data.Categories = append(c.data.Categories, category)
	delete(c.errs, "categories")
}

// AddImages appends newly selected images and creates preview handles.
// The whole selection is rejected, with no state change, if any file
// exceeds MaxFileSize or the total count would exceed MaxImages.
func (c *Controller) AddImages(files ...Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range files {
		if f.Size > MaxFileSize {
			return ErrImageTooLarge
		}
	}
	if len(c.images)+len(files) > MaxImages {
		return ErrTooManyImages
	}

	for _, f := range files {
		c.images = append(c.images, f)
		c.previews = append(c.previews, c.previewStore.Create(f.Name))
	}
	delete(c.errs, "images")
	return nil
}

// RemoveImage releases the preview handle at index and removes both the
// image and its preview, preserving the relative order of the rest.
func (c *Controller) RemoveImage(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.images) {
		return
	}

	c.previewStore.Release(c.previews[index])
	c.images = append(c.images[:index], c.images[index+1:]...)
	c.previews = append(c.previews[:index], c.previews[index+1:]...)
}

// AcquireLocation obtains a device position fix and fills the latitude
// and longitude fields, rounded to six decimal places. On failure it sets
// a location error and leaves the coordinates untouched. If a newer
// AcquireLocation call starts while this one waits, the stale result is
// discarded.
func (c *Controller) AcquireLocation(ctx context.Context) {
	c.mu.Lock()
	c.locateGen++
	gen := c.locateGen
	c.status.Locating = true
	delete(c.errs, "location")
	c.mu.Unlock()

	pos, err := geo.AcquirePosition(ctx, c.locator)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.locateGen {
		return
	}
	c.status.Locating = false

	if err != nil {
		c.errs["location"] = "Unable to retrieve location"
		return
	}
	c.data.Latitude = strconv.FormatFloat(pos.Latitude, 'f', 6, 64)
	c.data.Longitude = strconv.FormatFloat(pos.Longitude, 'f', 6, 64)
}

// AutofillAddress resolves the acquired coordinates to city, state and
// zip code. Without coordinates it is a no-op returning ErrNoCoordinates.
// On lookup failure the prior address fields are left untouched. A stale
// completion, superseded by a newer call, is discarded.
func (c *Controller) AutofillAddress(ctx context.Context) error {
	c.mu.Lock()
	if c.data.Latitude == "" {
		c.mu.Unlock()
		return ErrNoCoordinates
	}
	c.geocodeGen++
	gen := c.geocodeGen
	c.status.FetchingAddress = true
	lat, lng := c.data.Latitude, c.data.Longitude
	c.mu.Unlock()

	addr, err := c.geocoder.ReverseGeocode(ctx, lat, lng)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.geocodeGen {
		return nil
	}
	c.status.FetchingAddress = false

	if err != nil {
		return ErrAddressLookup
	}

	c.data.City = addr.City
	c.data.State = addr.State
	c.data.ZipCode = addr.ZipCode
	if addr.Country != "" {
		c.data.Country = addr.Country
	}
	delete(c.errs, "city")
	delete(c.errs, "state")
	delete(c.errs, "zipCode")
	return nil
}

// Submit validates the whole form and sends it to the backend. It is a
// no-op while a prior submission is in flight. On validation failure all
// field errors are surfaced at once and nothing is sent. On success the
// form resets to its initial state and every preview handle is released.
// The in-flight flag is cleared on every path.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.status.Submitting {
		c.mu.Unlock()
		return nil
	}

	errs := c.validate.validateAll(c.data, len(c.images))
	if len(errs) > 0 {
		c.errs = errs
		c.mu.Unlock()
		return ErrValidation
	}

	c.status.Submitting = true
	data := c.data
	data.Categories = append([]string(nil), c.data.Categories...)
	images := append([]Image(nil), c.images...)
	c.mu.Unlock()

	_, err := c.api.Submit(ctx, data, images)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Submitting = false

	if err != nil {
		return err
	}

	for _, h := range c.previews {
		c.previewStore.Release(h)
	}
	c.data = initialData()
	c.images = nil
	c.previews = nil
	c.errs = make(map[string]string)
	return nil
}
