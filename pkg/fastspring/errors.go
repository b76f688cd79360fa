package fastspring

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/fastspring-client/internal/auth"
	"github.com/fivetwenty-io/fastspring-client/internal/spec"
)

// ErrorTagGeneric tags responses whose status code the operation does not document.
const ErrorTagGeneric = "generic"

// ErrorPayload is the body FastSpring returns with a failed call.
type ErrorPayload struct {
	Action string                 `json:"action,omitempty" yaml:"action,omitempty"`
	Result string                 `json:"result,omitempty" yaml:"result,omitempty"`
	Error  map[string]interface{} `json:"error,omitempty"  yaml:"error,omitempty"`
}

// Messages flattens the error map into "field: message" strings, sorted by field.
func (p *ErrorPayload) Messages() []string {
	if p == nil || len(p.Error) == 0 {
		return nil
	}

	keys := make([]string, 0, len(p.Error))
	for k := range p.Error {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, fmt.Sprintf("%s: %v", k, p.Error[k]))
	}

	return messages
}

// ResponseError is returned for every non-2xx response.
type ResponseError struct {
	StatusCode int
	Method     string
	Path       string
	// Operation is the operationId of the called endpoint, empty for raw requests.
	Operation string
	// Documented reports whether the operation declares StatusCode.
	Documented bool
	// Payload is decoded only for documented statuses.
	Payload *ErrorPayload
	Body    []byte
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	target := e.Operation
	if target == "" {
		target = strings.TrimSpace(e.Method + " " + e.Path)
	}

	msg := fmt.Sprintf("%s returned %d (%s)", target, e.StatusCode, e.Tag())

	if messages := e.Payload.Messages(); len(messages) > 0 {
		return msg + ": " + strings.Join(messages, "; ")
	}

	return msg
}

// Tag is the status code as a string for documented statuses, ErrorTagGeneric otherwise.
func (e *ResponseError) Tag() string {
	if e.Documented {
		return strconv.Itoa(e.StatusCode)
	}

	return ErrorTagGeneric
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrAPIEndpointRequired   = errors.New("API endpoint is required")
	ErrNoHostInURL           = errors.New("no host specified in URL")
	ErrMissingPathParameter  = errors.New("missing path parameter")
	ErrNoMoreItems           = errors.New("no more items")
	ErrNotImplemented        = errors.New("not implemented")
	ErrInvalidCredentials    = auth.ErrInvalidCredentials
	ErrMissingServerVariable = spec.ErrMissingServerVariable
	ErrOperationNotFound     = spec.ErrOperationNotFound
)

// StatusCode returns the HTTP status of a *ResponseError in err's chain, or 0.
func StatusCode(err error) int {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}

	return 0
}

// IsDocumented reports whether err carries a status code the operation documents.
func IsDocumented(err error) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.Documented
	}

	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsBadRequest checks if the error is a bad request error.
func IsBadRequest(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsServerError checks if the error is a 5xx error.
func IsServerError(err error) bool {
	return StatusCode(err) >= http.StatusInternalServerError
}

// ParseErrorPayload parses an error response body from JSON.
func ParseErrorPayload(data []byte) (*ErrorPayload, error) {
	var payload ErrorPayload

	err := json.Unmarshal(data, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal error payload: %w", err)
	}

	return &payload, nil
}
