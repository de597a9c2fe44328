package http

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
	logger *zap.Logger
}

// NewRestyTransport creates a resty backed Transport with the specified
// timeout. A nil logger disables logging.
func NewRestyTransport(timeout time.Duration, logger *zap.Logger) *RestyTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetLogger(logger.Sugar())
	return &RestyTransport{client: c, logger: logger}
}

// NewRestyTransportFromClient wraps an already configured resty.Client.
func NewRestyTransportFromClient(c *resty.Client) *RestyTransport {
	return &RestyTransport{client: c, logger: zap.NewNop()}
}

// Do performs the request with the specified context and returns the full
// response body.
func (r *RestyTransport) Do(ctx context.Context, req *RequestSpec) (*TransportResponse, error) {
	rr := r.client.R().
		SetContext(ctx).
		EnableTrace()
	if len(req.Header) > 0 {
		rr.SetHeaderMultiValues(req.Header)
	}
	if req.Body != nil {
		rr.SetBody(req.Body)
	}

	resp, err := rr.Execute(req.Method.String(), req.URL)
	if err != nil {
		r.logger.Debug("exchange failed",
			zap.String("method", req.Method.String()),
			zap.String("url", req.URL),
			zap.Error(err))
		return nil, err
	}

	out := &TransportResponse{
		ResponseMeta: ResponseMeta{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Header:     resp.Header(),
			URL:        finalURL(resp, req.URL),
			Timing:     restyTiming(resp),
		},
		Body: resp.Body(),
	}

	r.logger.Debug("exchange completed",
		zap.String("method", req.Method.String()),
		zap.String("url", out.URL),
		zap.Int("status", out.StatusCode),
		zap.Duration("total", out.Timing.TotalTime))
	return out, nil
}

// CloseIdleConnections releases pooled connections of the underlying client.
func (r *RestyTransport) CloseIdleConnections() {
	r.client.GetClient().CloseIdleConnections()
}

func finalURL(resp *resty.Response, fallback string) string {
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		return resp.RawResponse.Request.URL.String()
	}
	return fallback
}

func restyTiming(resp *resty.Response) TimingInfo {
	ti := resp.Request.TraceInfo()
	return TimingInfo{
		StartTime:           resp.Request.Time,
		DNSLookupTime:       ti.DNSLookup,
		TCPConnectTime:      ti.TCPConnTime,
		TLSHandshakeTime:    ti.TLSHandshake,
		TimeToFirstByte:     ti.ServerTime,
		ContentTransferTime: ti.ResponseTime,
		TotalTime:           ti.TotalTime,
	}
}

var (
	_ Transport = (*RestyTransport)(nil)
	_ Transport = (*NetTransport)(nil)
)
