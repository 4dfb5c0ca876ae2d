package client

import "fmt"

// FieldError is a single validation failure reported by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response decoded from the response envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool { return statusIs(err, 404) }

// IsUnauthorized reports whether err is an APIError with a 401 status.
func IsUnauthorized(err error) bool { return statusIs(err, 401) }

// IsForbidden reports whether err is an APIError with a 403 status.
func IsForbidden(err error) bool { return statusIs(err, 403) }

// IsConflict reports whether err is an APIError with a 409 status.
func IsConflict(err error) bool { return statusIs(err, 409) }

// IsValidation reports whether err is an APIError with a 422 status.
func IsValidation(err error) bool { return statusIs(err, 422) }

func statusIs(err error, status int) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == status
}
