package model

import "time"

// Response is what came back for a Request.
type Response struct {
	// StatusCode of the HTTP exchange, 0 when no transport was involved.
	StatusCode int `json:"status"`

	// StatusText accompanying StatusCode, e.g. "OK".
	StatusText string `json:"statusText"`

	// Duration of the round trip.
	Duration time.Duration `json:"duration"`

	// Body is the raw response document.
	Body []byte `json:"body"`
}

// Size returns the body size in bytes.
func (r *Response) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Body)
}
