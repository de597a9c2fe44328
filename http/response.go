package http

import (
	"net/http"
	"time"
)

// TimingInfo stores per-phase timing for one exchange, as far as the
// transport is able to observe it.
type TimingInfo struct {
	// StartTime is when the request was handed to the transport
	StartTime time.Time

	DNSLookupTime    time.Duration
	TCPConnectTime   time.Duration
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is measured from the end of the last connection phase
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	TotalTime time.Duration
}

// ResponseMeta describes a completed exchange apart from its body.
type ResponseMeta struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500)
	StatusCode int

	// Status is the HTTP status string (e.g., "200 OK")
	Status string

	Header http.Header

	// URL is the final URL after any redirects the transport followed
	URL string

	Timing TimingInfo
}

// TransportResponse is what a Transport hands back for a single exchange.
type TransportResponse struct {
	ResponseMeta
	Body []byte
}

// IsSuccess returns true if the status code is in the 2xx range.
func (m *ResponseMeta) IsSuccess() bool {
	return m.StatusCode >= 200 && m.StatusCode < 300
}

// IsRedirect returns true if the status code is in the 3xx range.
func (m *ResponseMeta) IsRedirect() bool {
	return m.StatusCode >= 300 && m.StatusCode < 400
}

// IsError reports whether the status is classified as a failure.
func (m *ResponseMeta) IsError() bool {
	return m.StatusCode >= StatusFailureThreshold
}

// TotalTimeMillis returns the total exchange time in milliseconds.
func (m *ResponseMeta) TotalTimeMillis() int64 {
	return m.Timing.TotalTime.Milliseconds()
}

// Outcome is the terminal result of a call. Err is nil on success. On an
// HTTP status failure Body and Meta still carry whatever the server sent.
type Outcome struct {
	Body []byte
	Meta *ResponseMeta
	Err  error
}

// Success reports whether the call succeeded.
func (o Outcome) Success() bool { return o.Err == nil }
