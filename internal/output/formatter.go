package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wesleyorama2/naivehttp/http"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool

	colors *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(req *http.RequestSpec) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.colors.Method.Sprint(req.Method), f.colors.URL.Sprint(req.URL)))

	if f.Verbose && len(req.Header) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(req.Header) {
			for _, value := range req.Header[key] {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), value))
			}
		}
	}

	if len(req.Body) > 0 {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(req.Body)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(ex Exchange) string {
	var buf strings.Builder

	if ex.Meta != nil {
		buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
			f.colors.Status(ex.Meta.StatusCode).Sprint(ex.Meta.Status),
			ex.Meta.TotalTimeMillis()))

		if f.Verbose {
			timing := ex.Meta.Timing
			buf.WriteString("  Timing:\n")
			buf.WriteString(fmt.Sprintf("    DNS Lookup:      %dms\n", timing.DNSLookupTime.Milliseconds()))
			buf.WriteString(fmt.Sprintf("    TCP Connection:  %dms\n", timing.TCPConnectTime.Milliseconds()))
			buf.WriteString(fmt.Sprintf("    TLS Handshake:   %dms\n", timing.TLSHandshakeTime.Milliseconds()))
			buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", timing.TimeToFirstByte.Milliseconds()))
			buf.WriteString(fmt.Sprintf("    Content Transfer:  %dms\n", timing.ContentTransferTime.Milliseconds()))
			buf.WriteString(fmt.Sprintf("    Total:           %dms\n", timing.TotalTime.Milliseconds()))

			if ex.Meta.URL != "" {
				buf.WriteString(fmt.Sprintf("  URL: %s\n", ex.Meta.URL))
			}

			buf.WriteString("  Headers:\n")
			for _, key := range sortedKeys(ex.Meta.Header) {
				for _, value := range ex.Meta.Header[key] {
					buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), value))
				}
			}
		}
	}

	if len(ex.Body) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(string(ex.Body)))
		buf.WriteString("\n")
	}

	if ex.Err != nil {
		buf.WriteString(fmt.Sprintf("%s %s\n", ErrorIcon(f.NoColor), f.colors.Error.Sprint(ex.Err.Error())))
	}

	return buf.String()
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return "  " + prettyJSON.String()
}
