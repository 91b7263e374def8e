package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned by Session methods once the token has expired.
var ErrSessionExpired = errors.New("session token expired")

// msgValidation is the envelope message of every 400 response.
const msgValidation = "Validation Error."

// APIError is a non-2xx response from the service.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Message is the envelope message, e.g. "Email or Password wrong."
	Message string

	// Fields is set for validation failures
	Fields []FieldError
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s %v", e.StatusCode, e.Message, e.Fields)
}

// IsValidation reports whether the request was rejected by field validation.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsUnauthorized reports a 401, the status of every business-rule rejection.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// Field returns the message for field, or "" when it did not fail.
func (e *APIError) Field(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// parseErrorResponse builds an *APIError from an error envelope. Bodies that
// are not envelopes fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Message = env.Message

	if env.Message == msgValidation && len(env.Data) > 0 {
		_ = json.Unmarshal(env.Data, &apiErr.Fields)
	}

	return apiErr
}
