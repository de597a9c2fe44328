package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// RequestSpec is a transport-ready request. It is built once per call and
// handed to exactly one Transport.Do.
type RequestSpec struct {
	Method Method
	URL    string
	Header http.Header
	Body   []byte
}

// BuildRequest assembles a RequestSpec. Headers are applied over defaults by
// key, the caller winning on collision. The body is attached only when the
// method allows one.
func BuildRequest(method Method, uri string, body []byte, headers map[string]string, defaults http.Header) (*RequestSpec, error) {
	if !method.Valid() {
		return nil, newError(CodeInvalidMethod, "unsupported method "+string(method), ErrInvalidMethod, nil)
	}
	if _, err := parseURI(uri); err != nil {
		return nil, err
	}

	spec := &RequestSpec{
		Method: method,
		URL:    uri,
		Header: make(http.Header, len(defaults)+len(headers)),
	}
	for key, values := range defaults {
		spec.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	for key, value := range headers {
		spec.Header.Set(key, value)
	}

	if method.AllowsBody() {
		spec.Body = body
	}
	return spec, nil
}

// Request describes a single call with a fluent builder pattern.
//
// Example:
//
//	req := http.NewRequest(http.MethodGet, "https://api.example.com/users").
//	    WithQueryParam("limit", "10").
//	    WithHeader("Authorization", "Bearer token").
//	    WithResponseFilter("while(1);")
type Request struct {
	Method         Method
	URI            string
	QueryParams    map[string]string
	Headers        map[string]string
	Body           interface{}
	ResponseFilter string
}

// NewRequest creates a request for the given method and absolute URI.
func NewRequest(method Method, uri string) *Request {
	return &Request{
		Method:      method,
		URI:         uri,
		QueryParams: make(map[string]string),
		Headers:     make(map[string]string),
	}
}

// WithHeader sets a header, overriding client defaults with the same key.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithHeaders sets multiple headers.
func (r *Request) WithHeaders(headers map[string]string) *Request {
	for key, value := range headers {
		r.Headers[key] = value
	}
	return r
}

// WithQueryParam adds a query parameter. Parameters are appended to any query
// already present in the URI and sorted by key when the request is built.
func (r *Request) WithQueryParam(key, value string) *Request {
	r.QueryParams[key] = value
	return r
}

// WithQueryParams adds multiple query parameters.
func (r *Request) WithQueryParams(params map[string]string) *Request {
	for key, value := range params {
		r.QueryParams[key] = value
	}
	return r
}

// WithBody sets the body of the request.
// The body can be:
//   - nil: no body is sent
//   - string, []byte, json.RawMessage: sent as-is
//   - io.Reader: read and sent
//   - any other type: encoded with the client's Codec
//
// Bodies on GET, HEAD and OPTIONS requests are ignored.
func (r *Request) WithBody(body interface{}) *Request {
	r.Body = body
	return r
}

// WithResponseFilter strips prefix from a successful response body before it
// is delivered, e.g. "while(1);" prepended by services guarding against JSON
// hijacking.
func (r *Request) WithResponseFilter(prefix string) *Request {
	r.ResponseFilter = prefix
	return r
}

// Build normalizes the URI, encodes the body and assembles the RequestSpec.
// A nil codec means JSONCodec.
func (r *Request) Build(codec Codec, defaults http.Header) (*RequestSpec, error) {
	if codec == nil {
		codec = JSONCodec{}
	}

	uri, err := NormalizeURL(r.URI, r.QueryParams)
	if err != nil {
		return nil, err
	}

	var body []byte
	if r.Method.AllowsBody() {
		body, err = encodeBody(codec, r.Body)
		if err != nil {
			return nil, err
		}
	}

	return BuildRequest(r.Method, uri, body, r.Headers, defaults)
}

func encodeBody(codec Codec, body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, newError(CodeBodyEncoding, "failed to read request body", ErrBodyEncoding, err)
		}
		return data, nil
	default:
		data, err := codec.Marshal(b)
		if err != nil {
			return nil, newError(CodeBodyEncoding, "failed to convert body to JSON", ErrBodyEncoding, err)
		}
		return data, nil
	}
}

// bodyReader returns a reader over the spec body, or nil when there is none.
func (s *RequestSpec) bodyReader() io.Reader {
	if s.Body == nil {
		return nil
	}
	return bytes.NewReader(s.Body)
}

// FlatHeader joins multi-valued headers for display.
func (s *RequestSpec) FlatHeader() map[string]string {
	out := make(map[string]string, len(s.Header))
	for key, values := range s.Header {
		out[key] = strings.Join(values, ", ")
	}
	return out
}
