// Package center provides the ServiceCenter entity, its persistence ports
// and the onboarding service that writes records.
package center

import (
	"time"
)

// DefaultCountry is stored when a submission omits the country field.
const DefaultCountry = "India"

// Categories is the fixed vocabulary of service categories.
var Categories = []string{"Mechanic", "AC", "Electrician"}

// ServiceCenter is a persisted service center record. Records are
// immutable after creation: they are written once by the onboarding
// endpoint and only ever read afterwards.
type ServiceCenter struct {
	// ID is assigned by the repository on creation.
	ID int64 `json:"id"`
	// CenterName is the business name.
	CenterName string `json:"centerName"`
	// Phone is a 10-digit Indian mobile number.
	Phone string `json:"phone"`
	// Email is the contact email address.
	Email string `json:"email"`
	City  string `json:"city"`
	State string `json:"state"`
	// ZipCode is a 6-digit Indian postal code.
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	// Latitude and Longitude are six-decimal strings as produced by the
	// client's geolocation step.
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	// Categories holds at least one entry from the category vocabulary.
	Categories []string `json:"categories"`
	// ImagePaths holds the durable object store URLs of the uploaded
	// images, in upload order. Never local paths.
	ImagePaths []string `json:"imagePaths"`
	// CreatedAt is assigned by the repository on creation.
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the record.
func (c *ServiceCenter) Clone() *ServiceCenter {
	clone := *c
	clone.Categories = append([]string(nil), c.Categories...)
	clone.ImagePaths = append([]string(nil), c.ImagePaths...)
	return &clone
}
