package http

// StatusFailureThreshold is the lowest status code classified as a failure.
// Every 4xx and 5xx response fails, 400 included.
const StatusFailureThreshold = 400

// Classify maps one transport exchange to an Outcome. A transport error is
// passed through untouched; otherwise a status at or above
// StatusFailureThreshold becomes an ErrHTTPStatus failure that still carries
// the response body. A transport that reports neither a response nor an
// error breaks its contract and yields an ErrNoResponse failure.
func Classify(resp *TransportResponse, transportErr error) Outcome {
	var out Outcome
	if resp != nil {
		meta := resp.ResponseMeta
		out.Meta = &meta
		out.Body = resp.Body
	}

	if transportErr != nil {
		out.Err = transportErr
		return out
	}

	if resp == nil {
		out.Err = newError(CodeNoResponse, "transport returned neither a response nor an error", ErrNoResponse, nil)
		return out
	}

	if out.Meta.StatusCode >= StatusFailureThreshold {
		out.Err = statusError(out.Meta.StatusCode)
	}
	return out
}
