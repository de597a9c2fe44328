package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// DefaultTimeout bounds a single exchange on the bundled transports.
const DefaultTimeout = 30 * time.Second

const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Transport performs one HTTP exchange. It blocks until the response body has
// been read or the exchange failed, and must honor ctx cancellation.
//
// A non-nil error is a transport-level failure (DNS, connection, TLS,
// timeout) and is handed to the caller unmodified. HTTP error statuses are
// not errors at this level.
type Transport interface {
	Do(ctx context.Context, req *RequestSpec) (*TransportResponse, error)
}

// idleCloser is implemented by transports that pool connections.
type idleCloser interface {
	CloseIdleConnections()
}

// NetTransport is a Transport backed by net/http that records phase timing.
// NetTransport is safe for concurrent use by multiple goroutines.
type NetTransport struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NetOption configures a NetTransport.
type NetOption func(*netConfig)

type netConfig struct {
	timeout            time.Duration
	insecureSkipVerify bool
	enableHTTP2        bool
	httpClient         *http.Client
	logger             *zap.Logger
}

// WithNetTimeout sets the per-exchange timeout. The default is 30 seconds.
func WithNetTimeout(timeout time.Duration) NetOption {
	return func(c *netConfig) {
		c.timeout = timeout
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// WARNING: This should only be used for testing purposes.
func WithInsecureSkipVerify() NetOption {
	return func(c *netConfig) {
		c.insecureSkipVerify = true
	}
}

// WithHTTP2 negotiates HTTP/2 over TLS through golang.org/x/net/http2.
func WithHTTP2() NetOption {
	return func(c *netConfig) {
		c.enableHTTP2 = true
	}
}

// WithHTTPClient uses a caller-supplied *http.Client as is. Timeout, TLS and
// HTTP/2 options are ignored when it is set.
func WithHTTPClient(httpClient *http.Client) NetOption {
	return func(c *netConfig) {
		c.httpClient = httpClient
	}
}

// WithNetLogger logs each exchange at debug level.
func WithNetLogger(logger *zap.Logger) NetOption {
	return func(c *netConfig) {
		c.logger = logger
	}
}

// NewNetTransport creates a net/http backed Transport.
func NewNetTransport(options ...NetOption) (*NetTransport, error) {
	cfg := netConfig{timeout: DefaultTimeout}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if cfg.httpClient != nil {
		return &NetTransport{httpClient: cfg.httpClient, logger: cfg.logger}, nil
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	}
	if cfg.insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in
	}
	if cfg.enableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("configure http2: %w", err)
		}
	}

	return &NetTransport{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.timeout,
		},
		logger: cfg.logger,
	}, nil
}

// Do executes the request and reads the whole response body.
func (t *NetTransport) Do(ctx context.Context, req *RequestSpec) (*TransportResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method.String(), req.URL, req.bodyReader())
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header = req.Header.Clone()
	if httpReq.Header == nil {
		httpReq.Header = make(http.Header)
	}

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			now := time.Now()
			timing.DNSLookupTime = now.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = now
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				now := time.Now()
				timing.TCPConnectTime = now.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = now
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				now := time.Now()
				timing.TLSHandshakeTime = now.Sub(tlsHandshakeStart)
				lastPhaseEnd = now
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(ctx, trace))

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		t.logger.Debug("exchange failed",
			zap.String("method", req.Method.String()),
			zap.String("url", req.URL),
			zap.Error(err))
		return nil, err
	}
	defer httpResp.Body.Close()

	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	resp := &TransportResponse{
		ResponseMeta: ResponseMeta{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Header:     httpResp.Header,
			URL:        httpResp.Request.URL.String(),
			Timing:     timing,
		},
		Body: body,
	}
	if err != nil {
		return resp, fmt.Errorf("read response body: %w", err)
	}

	t.logger.Debug("exchange completed",
		zap.String("method", req.Method.String()),
		zap.String("url", resp.URL),
		zap.Int("status", resp.StatusCode),
		zap.Bool("dns_resolved", dnsDone),
		zap.Duration("total", timing.TotalTime))
	return resp, nil
}

// CloseIdleConnections releases pooled connections.
func (t *NetTransport) CloseIdleConnections() {
	t.httpClient.CloseIdleConnections()
}
