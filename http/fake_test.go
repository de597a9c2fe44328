package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
)

// fakeTransport records every submitted request and answers with respond.
type fakeTransport struct {
	mu       sync.Mutex
	requests []*RequestSpec
	respond  func(ctx context.Context, req *RequestSpec) (*TransportResponse, error)
}

func (f *fakeTransport) Do(ctx context.Context, req *RequestSpec) (*TransportResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.respond(ctx, req)
}

func (f *fakeTransport) Requests() []*RequestSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*RequestSpec(nil), f.requests...)
}

func staticTransport(status int, body string) *fakeTransport {
	return &fakeTransport{
		respond: func(_ context.Context, req *RequestSpec) (*TransportResponse, error) {
			resp := response(status, body)
			resp.URL = req.URL
			return resp, nil
		},
	}
}

// echoTransport answers like httpbin: query args, method and the raw body.
func echoTransport() *fakeTransport {
	return &fakeTransport{
		respond: func(_ context.Context, req *RequestSpec) (*TransportResponse, error) {
			u, err := url.Parse(req.URL)
			if err != nil {
				return nil, err
			}
			args := make(map[string]string)
			for key, values := range u.Query() {
				args[key] = values[0]
			}
			payload, _ := json.Marshal(map[string]interface{}{
				"args":    args,
				"method":  req.Method,
				"data":    string(req.Body),
				"headers": req.FlatHeader(),
			})
			return &TransportResponse{
				ResponseMeta: ResponseMeta{
					StatusCode: http.StatusOK,
					Status:     "200 OK",
					Header:     http.Header{"Content-Type": {"application/json"}},
					URL:        req.URL,
				},
				Body: payload,
			}, nil
		},
	}
}
