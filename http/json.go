package http

import (
	"bytes"
	"context"
	"net/http"

	"github.com/tidwall/gjson"
)

// JSONHeaders returns the headers sent by default on JSON calls.
func JSONHeaders() http.Header {
	return http.Header{
		"Accept":       {"application/json"},
		"Content-Type": {"application/json"},
	}
}

// JSONResult is the terminal result of a JSON call.
//
// JSON holds the decoded body whenever the body is valid JSON, including on
// HTTP status failures, so server error payloads can be inspected. Body is
// always the raw (filtered) bytes.
type JSONResult struct {
	JSON gjson.Result
	Body []byte
	Meta *ResponseMeta
	Err  error

	codec Codec
}

// Decode unmarshals the body into v with the client's Codec.
func (r JSONResult) Decode(v interface{}) error {
	body := bytes.TrimSpace(r.Body)
	if len(body) == 0 {
		return newError(CodeDecode, "empty response body", ErrDecode, nil)
	}
	codec := r.codec
	if codec == nil {
		codec = JSONCodec{}
	}
	if err := codec.Unmarshal(body, v); err != nil {
		return newError(CodeDecode, "could not decode response body", ErrDecode, err)
	}
	return nil
}

// JSONCompletion receives the terminal JSONResult of a call.
type JSONCompletion func(JSONResult)

// JSONCall is the handle of a dispatched JSON request.
type JSONCall struct {
	*Call
	result JSONResult
}

// Wait blocks until the call completes and returns its JSONResult.
func (c *JSONCall) Wait() JSONResult {
	<-c.Done()
	return c.result
}

// DoJSON dispatches req with JSON Accept and Content-Type headers beneath the
// client defaults and the request's own headers, then decodes the body.
//
// A non-empty body that is not valid JSON yields an ErrDecode failure unless
// the call already failed; an empty body decodes to a JSON value that does
// not exist and is not an error.
func (c *Client) DoJSON(ctx context.Context, req *Request, done JSONCompletion) *JSONCall {
	jc := &JSONCall{}
	jc.Call = c.dispatch(ctx, req, c.jsonDefaults, func(o Outcome) {
		jc.result = decodeJSON(o, c.codec)
		if done != nil {
			done(jc.result)
		}
	})
	return jc
}

func decodeJSON(o Outcome, codec Codec) JSONResult {
	res := JSONResult{
		Body:  o.Body,
		Meta:  o.Meta,
		Err:   o.Err,
		codec: codec,
	}

	body := bytes.TrimSpace(o.Body)
	if len(body) == 0 {
		return res
	}
	if gjson.ValidBytes(body) {
		res.JSON = gjson.ParseBytes(body)
		return res
	}
	if res.Err == nil {
		res.Err = newError(CodeDecode, "response body is not valid JSON", ErrDecode, nil)
	}
	return res
}

// GetJSON issues a JSON GET. filter, when non-empty, is stripped from the
// front of the response body before decoding.
func (c *Client) GetJSON(ctx context.Context, uri string, params map[string]string, filter string, done JSONCompletion) *JSONCall {
	req := NewRequest(MethodGet, uri).
		WithQueryParams(params).
		WithResponseFilter(filter)
	return c.DoJSON(ctx, req, done)
}

// PostJSON issues a JSON POST. body is encoded with the client's Codec; a
// nil body sends no payload.
func (c *Client) PostJSON(ctx context.Context, uri string, body interface{}, filter string, done JSONCompletion) *JSONCall {
	return c.DoJSON(ctx, NewRequest(MethodPost, uri).WithBody(body).WithResponseFilter(filter), done)
}

// PutJSON issues a JSON PUT.
func (c *Client) PutJSON(ctx context.Context, uri string, body interface{}, filter string, done JSONCompletion) *JSONCall {
	return c.DoJSON(ctx, NewRequest(MethodPut, uri).WithBody(body).WithResponseFilter(filter), done)
}

// DeleteJSON issues a JSON DELETE.
func (c *Client) DeleteJSON(ctx context.Context, uri string, body interface{}, filter string, done JSONCompletion) *JSONCall {
	return c.DoJSON(ctx, NewRequest(MethodDelete, uri).WithBody(body).WithResponseFilter(filter), done)
}
