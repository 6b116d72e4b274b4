package blogapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Typed errors for blog API calls.
// Callers use errors.Is() instead of inspecting status codes or messages.
var (
	// ErrBadRequest indicates the API rejected the request as malformed (HTTP 400).
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound indicates the post, comment or image does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the API refused the change due to a conflict (HTTP 409).
	ErrConflict = errors.New("conflict")

	// ErrPayloadTooLarge indicates an upload exceeded the API's limit (HTTP 413).
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrServer indicates the API failed internally (HTTP 5xx).
	ErrServer = errors.New("blog API server error")

	// ErrUnexpectedStatus covers any other non-success status code.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrUnavailable indicates the API could not be reached at all.
	ErrUnavailable = errors.New("blog API unavailable")

	// ErrCircuitOpen indicates calls to an operation are failing fast after
	// repeated failures.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrImageTooLarge indicates an image response exceeded the configured limit.
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrDecode indicates the API answered with a body that could not be decoded.
	ErrDecode = errors.New("failed to decode response")
)

// statusError maps a non-success HTTP status to a typed error.
// body is a bounded prefix of the response body, included for diagnostics.
func statusError(operation string, status int, body []byte) error {
	var sentinel error
	switch {
	case status == http.StatusBadRequest:
		sentinel = ErrBadRequest
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusConflict:
		sentinel = ErrConflict
	case status == http.StatusRequestEntityTooLarge:
		sentinel = ErrPayloadTooLarge
	case status >= 500:
		sentinel = ErrServer
	default:
		sentinel = ErrUnexpectedStatus
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s: %w (status %d)", operation, sentinel, status)
	}
	return fmt.Errorf("%s: %w (status %d): %s", operation, sentinel, status, msg)
}

// IsUnavailable returns true if the error means the API could not serve the
// request at all, as opposed to rejecting it.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrCircuitOpen) ||
		errors.Is(err, ErrServer)
}
