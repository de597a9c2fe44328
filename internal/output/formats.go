package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/naivehttp/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
	// FormatRaw writes the response body only
	FormatRaw OutputFormat = "raw"
)

// Formats lists every supported output format.
var Formats = []OutputFormat{FormatText, FormatJSON, FormatYAML, FormatRaw}

// ParseFormat validates a format name.
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range Formats {
		if f == format {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Exchange is what the formatters render for a completed call.
type Exchange struct {
	Meta *http.ResponseMeta
	Body []byte
	Err  error
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *http.RequestSpec) string
	FormatResponse(ex Exchange) string
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ErrorData is the structured form of a failed outcome.
type ErrorData struct {
	Domain  string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Code    int    `json:"code,omitempty" yaml:"code,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	StatusCode int               `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Status     string            `json:"status,omitempty" yaml:"status,omitempty"`
	URL        string            `json:"url,omitempty" yaml:"url,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timing     *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
	Error      *ErrorData        `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp  string            `json:"timestamp" yaml:"timestamp"`
}

func requestData(req *http.RequestSpec) RequestData {
	data := RequestData{
		Method:    req.Method.String(),
		URL:       req.URL,
		Headers:   req.FlatHeader(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(req.Body) > 0 {
		data.Body = decodeBody(req.Body)
	}
	return data
}

func responseData(ex Exchange, verbose bool) ResponseData {
	data := ResponseData{
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if ex.Meta != nil {
		data.StatusCode = ex.Meta.StatusCode
		data.Status = ex.Meta.Status
		data.URL = ex.Meta.URL
		data.Timing = &TimingData{Total: ex.Meta.TotalTimeMillis()}
		if verbose {
			timing := ex.Meta.Timing
			data.Timing.DNSLookup = timing.DNSLookupTime.Milliseconds()
			data.Timing.TCPConnection = timing.TCPConnectTime.Milliseconds()
			data.Timing.TLSHandshake = timing.TLSHandshakeTime.Milliseconds()
			data.Timing.TimeToFirstByte = timing.TimeToFirstByte.Milliseconds()
			data.Timing.ContentTransfer = timing.ContentTransferTime.Milliseconds()

			data.Headers = make(map[string]string, len(ex.Meta.Header))
			for key, values := range ex.Meta.Header {
				data.Headers[key] = strings.Join(values, ", ")
			}
		}
	}
	if len(ex.Body) > 0 {
		data.Body = decodeBody(ex.Body)
	}
	if ex.Err != nil {
		data.Error = errorData(ex.Err)
	}
	return data
}

func errorData(err error) *ErrorData {
	var herr *http.Error
	if errors.As(err, &herr) {
		return &ErrorData{Domain: herr.Domain, Code: herr.Code, Message: herr.Error()}
	}
	return &ErrorData{Message: err.Error()}
}

// decodeBody returns the body as a JSON value when it parses, as a string otherwise.
func decodeBody(body []byte) interface{} {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

// JSONFormatter formats output as JSON. Pretty output is indented; compact
// output is one document per line.
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v interface{}) string {
	var (
		output []byte
		err    error
	)
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error": "Failed to marshal: %s"}`, err)
	}
	return string(output) + "\n"
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *http.RequestSpec) string {
	return f.marshal(requestData(req))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(ex Exchange) string {
	return f.marshal(responseData(ex, f.Verbose))
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *http.RequestSpec) string {
	output, err := yaml.Marshal(requestData(req))
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal request: %s\n", err)
	}
	return string(output)
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(ex Exchange) string {
	output, err := yaml.Marshal(responseData(ex, f.Verbose))
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal response: %s\n", err)
	}
	return string(output)
}

// RawFormatter writes the body bytes untouched, for piping.
type RawFormatter struct{}

// FormatRequest returns nothing; raw output carries only the response.
func (RawFormatter) FormatRequest(*http.RequestSpec) string { return "" }

// FormatResponse returns the body as is.
func (RawFormatter) FormatResponse(ex Exchange) string { return string(ex.Body) }

// GetFormatter returns the appropriate formatter for the given format.
// JSON is indented for terminals and compact when color is off, which is the
// case whenever output is piped.
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: !noColor}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	case FormatRaw:
		return RawFormatter{}
	default:
		return NewFormatter(verbose, noColor)
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
