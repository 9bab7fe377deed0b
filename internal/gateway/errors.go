package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, msg, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// IsValidation reports whether the API rejected the request payload.
func IsValidation(err error) bool {
	code := statusOf(err)
	return code == http.StatusBadRequest || code == http.StatusUnprocessableEntity
}

func IsConflict(err error) bool { return statusOf(err) == http.StatusConflict }
