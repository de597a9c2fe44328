package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHTTPBin answers like httpbin.org for the paths the tests use.
func newHTTPBin(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/status/500":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		case "/hijack":
			_, _ = w.Write([]byte(`while(1);{"ok":true}`))
			return
		}

		body, _ := io.ReadAll(r.Body)
		args := map[string]string{}
		for key, values := range r.URL.Query() {
			args[key] = values[0]
		}
		headers := map[string]string{}
		for key := range r.Header {
			headers[key] = r.Header.Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"args":    args,
			"method":  r.Method,
			"data":    string(body),
			"headers": headers,
			"url":     r.URL.String(),
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append(args, "--no-color"))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGet_SortsQueryParameters(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "get", server.URL+"/get?zeta=1", "-q", "herp=derp", "-q", "alpha=2", "--select", "url", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, "/get?alpha=2&herp=derp&zeta=1", out)
}

func TestGet_JSONSelect(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "get", server.URL+"/get", "-q", "herp=derp", "--json", "--select", "args.herp", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, "derp", out)

	out, _, err = runCLI(t, "get", server.URL+"/get", "--json", "--select", "headers.Accept", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, "application/json", out)
}

func TestGet_HeaderFlag(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "get", server.URL+"/get", "-H", "X-Token: secret", "--select", "headers.X-Token", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, "secret", out)
}

func TestPost_JSONBody(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "post", server.URL+"/post", "-j", `{"herp":"derp"}`, "-o", "json")
	require.NoError(t, err)

	var data struct {
		StatusCode int `json:"statusCode"`
		Body       struct {
			Method  string            `json:"method"`
			Data    string            `json:"data"`
			Headers map[string]string `json:"headers"`
		} `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, 200, data.StatusCode)
	assert.Equal(t, "POST", data.Body.Method)
	assert.JSONEq(t, `{"herp":"derp"}`, data.Body.Data)
	assert.Equal(t, "application/json", data.Body.Headers["Content-Type"])
}

func TestPut_DataAndDeleteWithoutBody(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "put", server.URL+"/put", "-d", "plain", "--select", "data", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	out, _, err = runCLI(t, "delete", server.URL+"/delete", "--select", "method", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, "DELETE", out)
}

func TestPost_ConflictingBodies(t *testing.T) {
	_, _, err := runCLI(t, "post", "http://127.0.0.1:1/", "-d", "a", "-j", "{}")
	assert.Error(t, err)

	_, _, err = runCLI(t, "post", "http://127.0.0.1:1/", "-j", "{nope")
	assert.Error(t, err)
}

func TestGet_StatusFailure(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "get", server.URL+"/status/500")
	require.ErrorIs(t, err, errRequestFailed)
	assert.Contains(t, out, "boom", "body still shown on failure")
	assert.Contains(t, out, "HTTP Error 500")
}

func TestGet_ResponseFilter(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "get", server.URL+"/hijack", "--filter", "while(1);", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)

	_, _, err = runCLI(t, "get", server.URL+"/hijack", "--json")
	assert.ErrorIs(t, err, errRequestFailed, "prefixed body is not JSON")
}

func TestGet_InvalidURL(t *testing.T) {
	out, _, err := runCLI(t, "get", "not a url")
	require.ErrorIs(t, err, errRequestFailed)
	assert.Contains(t, out, "could not create URL from string")
}

func TestGet_SchemaValidation(t *testing.T) {
	server := newHTTPBin(t)
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{
		"type": "object",
		"required": ["args"],
		"properties": {"args": {"required": ["herp"]}}
	}`), 0644))

	_, _, err := runCLI(t, "get", server.URL+"/get", "-q", "herp=derp", "--schema", schema)
	assert.NoError(t, err)

	out, _, err := runCLI(t, "get", server.URL+"/get", "--schema", schema)
	require.ErrorIs(t, err, errRequestFailed)
	assert.Contains(t, out, "schema validation failed")
}

func TestConfigFile(t *testing.T) {
	server := newHTTPBin(t)
	path := filepath.Join(t.TempDir(), "naive.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: resty\nheaders:\n  X-From-Config: yes\n"), 0644))

	out, _, err := runCLI(t, "get", server.URL+"/get", "--config", path, "--select", "headers.X-From-Config", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, "yes", out)
}

func TestInvalidFlags(t *testing.T) {
	_, _, err := runCLI(t, "get", "http://example.com", "-o", "xml")
	assert.Error(t, err)

	_, _, err = runCLI(t, "get", "http://example.com", "-q", "novalue")
	assert.Error(t, err)

	_, _, err = runCLI(t, "get", "http://example.com", "--transport", "smoke-signal")
	assert.Error(t, err)

	_, _, err = runCLI(t, "get")
	assert.Error(t, err)
}

func TestVerboseShowsRequest(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "get", server.URL+"/get", "-q", "b=2", "-q", "a=1", "-v", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "REQUEST: GET "+server.URL+"/get?a=1&b=2")
	assert.Contains(t, out, "Accept: application/json")
	assert.Contains(t, out, "Timing:")
}

func TestParsePairs(t *testing.T) {
	pairs, err := parsePairs([]string{"a=1", "b = two words ", "a=3", "empty="}, "=")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3", "b": "two words", "empty": ""}, pairs)

	_, err = parsePairs([]string{"=x"}, "=")
	assert.Error(t, err)
}

func TestJSONOutputIsCompactWithoutColor(t *testing.T) {
	server := newHTTPBin(t)

	out, _, err := runCLI(t, "get", server.URL+"/get", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("\n")))
	assert.True(t, json.Valid([]byte(out)))
}
