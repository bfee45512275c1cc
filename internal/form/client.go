package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Sakshamebdev873/ServiceOnboard/internal/center"
)

// User-facing errors for failed submissions. A non-JSON response body
// means the request never reached the application handler (proxy limits,
// gateway timeouts), so the raw cause is translated rather than exposed.
var (
	// ErrPayloadTooLarge is returned on a non-JSON 413 response.
	ErrPayloadTooLarge = errors.New("the images you uploaded are too large for the server to process")
	// ErrServerTimeout is returned on a non-JSON 504 response.
	ErrServerTimeout = errors.New("the server took too long to respond, try uploading fewer images")
	// ErrServerBusy is returned when a JSON response body cannot be parsed.
	ErrServerBusy = errors.New("the server is temporarily busy or your images were too large to process, please try smaller files")
)

// APIClient talks to the service center backend.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// APIOption is a function that configures an APIClient.
type APIOption func(*APIClient)

// WithClientHTTP sets a custom HTTP client.
func WithClientHTTP(hc *http.Client) APIOption {
	return func(c *APIClient) {
		c.httpClient = hc
	}
}

// NewAPIClient creates a client for the service center API rooted at
// baseURL (e.g. "http://localhost:5000").
func NewAPIClient(baseURL string, opts ...APIOption) *APIClient {
	c := &APIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// submitEnvelope mirrors the backend's onboarding response bodies.
type submitEnvelope struct {
	Message string                `json:"message"`
	Data    *center.ServiceCenter `json:"data"`
	Error   string                `json:"error"`
}

// Submit posts the form as multipart data and returns the persisted
// record. Failures carry user-facing messages classified by response
// status and content type.
func (c *APIClient) Submit(ctx context.Context, data Data, images []Image) (*center.ServiceCenter, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"centerName": data.CenterName,
		"phone":      data.Phone,
		"email":      data.Email,
		"city":       data.City,
		"state":      data.State,
		"zipCode":    data.ZipCode,
		"country":    data.Country,
		"latitude":   data.Latitude,
		"longitude":  data.Longitude,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	for _, cat := range data.Categories {
		if err := mw.WriteField("categories", cat); err != nil {
			return nil, fmt.Errorf("write category field: %w", err)
		}
	}
	for _, img := range images {
		part, err := mw.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("write image part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/service-center", &buf)
	if err != nil {
		return nil, fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isJSONResponse(resp) {
		return nil, classifyNonJSON(resp)
	}

	var envelope submitEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, ErrServerBusy
	}

	if resp.StatusCode != http.StatusCreated {
		if envelope.Error != "" {
			return nil, errors.New(envelope.Error)
		}
		return nil, fmt.Errorf("server error: status %d", resp.StatusCode)
	}

	return envelope.Data, nil
}

// List fetches the service center directory, newest first.
func (c *APIClient) List(ctx context.Context) ([]*center.ServiceCenter, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/service-center", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list service centers: status %d", resp.StatusCode)
	}

	var centers []*center.ServiceCenter
	if err := json.NewDecoder(resp.Body).Decode(&centers); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return centers, nil
}

func isJSONResponse(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}

// classifyNonJSON maps a non-JSON response (typically an HTML error page
// from a proxy) to a user-facing error.
func classifyNonJSON(resp *http.Response) error {
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch resp.StatusCode {
	case http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case http.StatusGatewayTimeout:
		return ErrServerTimeout
	default:
		return fmt.Errorf("critical server error (%d), please try again later", resp.StatusCode)
	}
}
