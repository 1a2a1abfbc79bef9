// Package clients holds the raw HTTP and SDK clients for the hosted speech
// and language models. Domain packages wrap them behind small interfaces.
package clients

import (
	"fmt"
	"net/http"
	"time"
)

// StatusError is a non-2xx answer from an upstream API.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s: %s", e.Service, e.Code, http.StatusText(e.Code), e.Body)
}

// Transient reports whether repeating the request could succeed.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// HTTP is a thin shared http.Client holder.
type HTTP struct{ c *http.Client }

// NewHTTP returns an HTTP client. Per-call deadlines come from the request
// context; timeout only bounds a stuck connection.
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}
	return &HTTP{c: &http.Client{Timeout: timeout}}
}
