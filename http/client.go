package http

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Client dispatches requests through a Transport and reports each result
// through a single completion.
// Client is safe for concurrent use by multiple goroutines; calls share only
// the immutable default headers.
type Client struct {
	transport    Transport
	codec        Codec
	defaults     http.Header
	jsonDefaults http.Header

	ctx    context.Context
	cancel context.CancelFunc
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new client with the given options.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithHeader("Authorization", "Bearer token"),
//	)
//	defer client.Close()
//
//	client.GetJSON(ctx, "https://httpbin.org/get", map[string]string{"herp": "derp"}, "",
//	    func(res http.JSONResult) {
//	        fmt.Println(res.JSON.Get("args.herp").String())
//	    })
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		codec:    JSONCodec{},
		defaults: make(http.Header),
	}

	for _, option := range options {
		option(client)
	}

	if client.transport == nil {
		client.transport = &NetTransport{
			httpClient: &http.Client{Timeout: DefaultTimeout},
			logger:     zap.NewNop(),
		}
	}

	client.jsonDefaults = JSONHeaders()
	for key, values := range client.defaults {
		client.jsonDefaults[key] = values
	}

	client.ctx, client.cancel = context.WithCancel(context.Background())
	return client
}

// WithTransport sets the Transport used for every call. The default is a
// NetTransport with a 30 second timeout.
func WithTransport(transport Transport) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithCodec sets the Codec used to encode structured request bodies and to
// decode JSON results.
func WithCodec(codec Codec) ClientOption {
	return func(c *Client) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithHeader adds a default header to all requests made by this client.
// Headers set on individual requests will override these defaults.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaults.Set(key, value)
	}
}

// WithDefaultHeaders adds multiple default headers.
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for key, value := range headers {
			c.defaults.Set(key, value)
		}
	}
}

// Do dispatches req and invokes done exactly once with the outcome.
//
// Building failures (invalid URI or method, unencodable body) complete the
// call before Do returns, without contacting the transport. Otherwise the
// exchange runs on its own goroutine; the response is classified, a
// successful body is passed through the request's response filter, and done
// is called.
func (c *Client) Do(ctx context.Context, req *Request, done Completion) *Call {
	return c.dispatch(ctx, req, c.defaults, done)
}

func (c *Client) dispatch(ctx context.Context, req *Request, defaults http.Header, notify func(Outcome)) *Call {
	callCtx, cancel := c.callContext(ctx)
	call := newCall(cancel)

	if req == nil {
		cancel()
		call.complete(Outcome{Err: newError(CodeInvalidURI, "nil request", ErrInvalidURI, nil)}, notify)
		return call
	}

	spec, err := req.Build(c.codec, defaults)
	if err != nil {
		cancel()
		call.complete(Outcome{Err: err}, notify)
		return call
	}

	filter := req.ResponseFilter
	go func() {
		defer cancel()

		resp, err := c.roundTrip(callCtx, spec)
		out := Classify(resp, err)
		if out.Err == nil && filter != "" {
			out.Body = FilterPrefix(filter, out.Body)
		}
		call.complete(out, notify)
	}()

	return call
}

// roundTrip submits spec exactly once. A panicking transport is reported as a
// transport error instead of crashing the caller.
func (c *Client) roundTrip(ctx context.Context, spec *RequestSpec) (resp *TransportResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("transport panic: %v", r)
		}
	}()
	return c.transport.Do(ctx, spec)
}

// callContext derives a per-call context that is also cancelled by Close.
func (c *Client) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(c.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Close cancels every in-flight call and releases idle transport connections.
// Calls cancelled this way still complete, with the transport's cancellation
// error.
func (c *Client) Close() error {
	c.cancel()
	if ic, ok := c.transport.(idleCloser); ok {
		ic.CloseIdleConnections()
	}
	return nil
}

// Get is a convenience method for GET requests with query parameters.
func (c *Client) Get(ctx context.Context, uri string, params map[string]string, done Completion) *Call {
	return c.Do(ctx, NewRequest(MethodGet, uri).WithQueryParams(params), done)
}

// Head is a convenience method for HEAD requests.
func (c *Client) Head(ctx context.Context, uri string, params map[string]string, done Completion) *Call {
	return c.Do(ctx, NewRequest(MethodHead, uri).WithQueryParams(params), done)
}

// Options is a convenience method for OPTIONS requests.
func (c *Client) Options(ctx context.Context, uri string, params map[string]string, done Completion) *Call {
	return c.Do(ctx, NewRequest(MethodOptions, uri).WithQueryParams(params), done)
}

// Post is a convenience method for POST requests. A nil body sends a POST
// without payload.
func (c *Client) Post(ctx context.Context, uri string, body interface{}, done Completion) *Call {
	return c.Do(ctx, NewRequest(MethodPost, uri).WithBody(body), done)
}

// Put is a convenience method for PUT requests.
func (c *Client) Put(ctx context.Context, uri string, body interface{}, done Completion) *Call {
	return c.Do(ctx, NewRequest(MethodPut, uri).WithBody(body), done)
}

// Delete is a convenience method for DELETE requests.
func (c *Client) Delete(ctx context.Context, uri string, body interface{}, done Completion) *Call {
	return c.Do(ctx, NewRequest(MethodDelete, uri).WithBody(body), done)
}
