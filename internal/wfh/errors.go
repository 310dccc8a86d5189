package wfh

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syrilster/wfh-scheduler-web/internal/model"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Operation  string
	StatusCode int
	// Message is the backend's "error" field, empty when the body carried none.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend service (%s) returned status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend service (%s) returned status %d", e.Operation, e.StatusCode)
}

func newAPIError(operation string, status int, body []byte) *APIError {
	apiErr := &APIError{Operation: operation, StatusCode: status}
	var resp model.ErrorResponse
	if len(body) > 0 && json.Unmarshal(body, &resp) == nil {
		apiErr.Message = resp.Error
	}
	return apiErr
}

// MessageOr returns the backend's error message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
