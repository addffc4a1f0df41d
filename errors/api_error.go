package errors

import "fmt"

// APIError is the error shape returned by the HTTP surface.
type APIError struct {
	Status  int     `json:"status"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// NewAPIError creates a new APIError with the given status code, message and
// optional details.
func NewAPIError(status int, message string, details *string) APIError {
	return APIError{
		Status:  status,
		Message: message,
		Details: details,
	}
}

func (e APIError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %s (%s)", e.Status, e.Message, *e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Status, e.Message)
}
