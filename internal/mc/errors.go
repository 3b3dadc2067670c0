package mc

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
var (
	// ErrRetrieveFault is returned when the SOAP service reports a
	// non-OK overall status.
	ErrRetrieveFault = errors.New("soap retrieve fault")
)

// APIError is an upstream HTTP failure. It carries the diagnostic detail
// the HTTP boundary surfaces for fatal errors: status code and a capped
// copy of the upstream body.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream %s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// AsAPIError unwraps an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
