// Package server provides the HTTP server for the service center API.
// It includes handlers, middleware, routes and response envelopes.
package server

import "github.com/Sakshamebdev873/ServiceOnboard/internal/center"

// OnboardResponse is the HTTP response after onboarding a service center.
type OnboardResponse struct {
	// Message is the human-readable success message.
	Message string `json:"message"`
	// Data is the persisted service center record.
	Data *center.ServiceCenter `json:"data"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Details carries the underlying cause, when safe to expose.
	Details string `json:"details,omitempty"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
