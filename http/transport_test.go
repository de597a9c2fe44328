package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/redirect":
			http.Redirect(w, r, "/final?from=redirect", http.StatusFound)
			return
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
			return
		case "/slow":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Custom", r.Header.Get("X-Custom"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func transportsUnderTest(t *testing.T) map[string]Transport {
	t.Helper()
	netTransport, err := NewNetTransport(WithNetTimeout(5 * time.Second))
	require.NoError(t, err)
	return map[string]Transport{
		"net":   netTransport,
		"resty": NewRestyTransport(5*time.Second, nil),
	}
}

func TestTransports_Exchange(t *testing.T) {
	server := newEchoServer(t)

	for name, transport := range transportsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			spec, err := BuildRequest(MethodPut, server.URL+"/echo", []byte(`{"a":1}`),
				map[string]string{"X-Custom": "yes"}, nil)
			require.NoError(t, err)

			resp, err := transport.Do(context.Background(), spec)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "PUT", resp.Header.Get("X-Method"))
			assert.Equal(t, "yes", resp.Header.Get("X-Custom"))
			assert.Equal(t, `{"a":1}`, string(resp.Body))
			assert.Equal(t, server.URL+"/echo", resp.URL)
			assert.Greater(t, resp.Timing.TotalTime, time.Duration(0))
		})
	}
}

func TestTransports_FollowRedirects(t *testing.T) {
	server := newEchoServer(t)

	for name, transport := range transportsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			spec, err := BuildRequest(MethodGet, server.URL+"/redirect", nil, nil, nil)
			require.NoError(t, err)

			resp, err := transport.Do(context.Background(), spec)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, server.URL+"/final?from=redirect", resp.URL)
		})
	}
}

func TestTransports_ErrorStatusIsNotAnError(t *testing.T) {
	server := newEchoServer(t)

	for name, transport := range transportsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			spec, err := BuildRequest(MethodGet, server.URL+"/missing", nil, nil, nil)
			require.NoError(t, err)

			resp, err := transport.Do(context.Background(), spec)
			require.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.JSONEq(t, `{"message":"not found"}`, string(resp.Body))
		})
	}
}

func TestTransports_PostWithoutBody(t *testing.T) {
	server := newEchoServer(t)

	for name, transport := range transportsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			spec, err := BuildRequest(MethodPost, server.URL+"/echo", nil, nil, nil)
			require.NoError(t, err)

			resp, err := transport.Do(context.Background(), spec)
			require.NoError(t, err)
			assert.Equal(t, "POST", resp.Header.Get("X-Method"))
			assert.Empty(t, resp.Body)
		})
	}
}

func TestTransports_ContextCancellation(t *testing.T) {
	server := newEchoServer(t)

	for name, transport := range transportsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			spec, err := BuildRequest(MethodGet, server.URL+"/slow", nil, nil, nil)
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err = transport.Do(ctx, spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, context.DeadlineExceeded))
		})
	}
}

func TestTransports_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	for name, transport := range transportsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			spec, err := BuildRequest(MethodGet, addr, nil, nil, nil)
			require.NoError(t, err)

			_, err = transport.Do(context.Background(), spec)
			assert.Error(t, err)
		})
	}
}

func TestNewNetTransport_Options(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	transport, err := NewNetTransport(WithHTTPClient(custom))
	require.NoError(t, err)
	assert.Same(t, custom, transport.httpClient)

	transport, err = NewNetTransport(WithHTTP2(), WithInsecureSkipVerify(), WithNetTimeout(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, transport.httpClient.Timeout)
	rt, ok := transport.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, rt.TLSClientConfig.InsecureSkipVerify)
	assert.Contains(t, rt.TLSClientConfig.NextProtos, "h2")
}

func TestClient_OverNetTransport(t *testing.T) {
	server := newEchoServer(t)
	transport, err := NewNetTransport()
	require.NoError(t, err)

	client := NewClient(WithTransport(transport))
	defer client.Close()

	o := client.Get(context.Background(), server.URL+"/missing", nil, nil).Wait()
	code, ok := StatusCode(o.Err)
	require.True(t, ok)
	assert.Equal(t, 404, code)
	assert.Equal(t, "HTTP Error 404", o.Err.(*Error).Reason)
	assert.JSONEq(t, `{"message":"not found"}`, string(o.Body))
}
