package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrAddressNotFound is returned when reverse geocoding yields no address.
var ErrAddressNotFound = errors.New("geo: address not found")

// Address is the subset of a reverse-geocoded address the form needs.
type Address struct {
	City    string
	State   string
	ZipCode string
	Country string
}

// NominatimClient resolves coordinates to addresses using the OpenStreetMap
// Nominatim API.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NominatimOption is a function that configures a NominatimClient.
type NominatimOption func(*NominatimClient)

// WithBaseURL sets a custom base URL for the Nominatim API.
func WithBaseURL(u string) NominatimOption {
	return func(c *NominatimClient) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header. Nominatim's usage policy
// requires an identifying agent.
func WithUserAgent(ua string) NominatimOption {
	return func(c *NominatimClient) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) NominatimOption {
	return func(c *NominatimClient) {
		c.httpClient = hc
	}
}

// NewNominatimClient creates a new Nominatim reverse-geocoding client.
func NewNominatimClient(opts ...NominatimOption) *NominatimClient {
	c := &NominatimClient{
		baseURL:    "https://nominatim.openstreetmap.org",
		userAgent:  "ServiceOnboardApp/1.0",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// nominatimResponse mirrors the fields of the reverse endpoint we use.
type nominatimResponse struct {
	Address *nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	City          string `json:"city"`
	StateDistrict string `json:"state_district"`
	County        string `json:"county"`
	Town          string `json:"town"`
	Suburb        string `json:"suburb"`
	Village       string `json:"village"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
}

// ReverseGeocode resolves latitude/longitude strings to an Address.
// City falls back through district, county, town, suburb and village
// because rural Nominatim results rarely carry a city field.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lng string) (Address, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", lat)
	q.Set("lon", lng)
	q.Set("zoom", "10")
	q.Set("addressdetails", "1")
	q.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Address{}, fmt.Errorf("build reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("reverse geocode: unexpected status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("decode reverse geocode response: %w", err)
	}

	if body.Address == nil {
		return Address{}, ErrAddressNotFound
	}

	addr := body.Address
	city := firstNonEmpty(addr.City, addr.StateDistrict, addr.County, addr.Town, addr.Suburb, addr.Village)

	return Address{
		City:    city,
		State:   addr.State,
		ZipCode: addr.Postcode,
		Country: "India",
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
