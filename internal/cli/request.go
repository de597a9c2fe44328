package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/naivehttp/config"
	"github.com/wesleyorama2/naivehttp/http"
	"github.com/wesleyorama2/naivehttp/internal/logger"
	"github.com/wesleyorama2/naivehttp/internal/output"
	"github.com/wesleyorama2/naivehttp/pkg/jsonschema"
)

// addRequestFlags registers the flags shared by every method command.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("query", "q", []string{}, "Query parameter key=value (can be used multiple times)")
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().String("filter", "", "Prefix to strip from successful responses, e.g. 'while(1);'")
	cmd.Flags().Bool("json", false, "Send JSON headers and require a JSON response")
	cmd.Flags().String("schema", "", "Validate the JSON response against this schema file")
	cmd.Flags().String("select", "", "Print only the value at this gjson path")
}

// addBodyFlags registers the payload flags of POST, PUT and DELETE.
func addBodyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("data", "d", "", "Data to send in the request body")
	cmd.Flags().StringP("json-body", "j", "", "JSON data to send in the request body")
}

func runMethod(method http.Method) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return executeRequest(cmd, method, args[0])
	}
}

// executeRequest performs one call and renders its outcome.
func executeRequest(cmd *cobra.Command, method http.Method, uri string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(mustString(cmd, "output"))
	if err != nil {
		return err
	}
	noColor := output.ShouldDisableColor(mustBool(cmd, "no-color"), cmd.OutOrStdout())
	verbose := mustBool(cmd, "verbose")
	formatter := output.GetFormatter(format, verbose, noColor)

	log := logger.New(cfg.LogLevel, cmd.ErrOrStderr())
	defer log.Sync() //nolint:errcheck

	transport, err := newTransport(cfg, log)
	if err != nil {
		return err
	}
	client := http.NewClient(
		http.WithTransport(transport),
		http.WithDefaultHeaders(cfg.Headers),
	)
	defer client.Close()

	req, jsonMode, err := buildRequest(cmd, method, uri, cfg)
	if err != nil {
		return err
	}

	if verbose {
		defaults := nethttp.Header{}
		if jsonMode {
			defaults = http.JSONHeaders()
		}
		for key, value := range cfg.Headers {
			defaults.Set(key, value)
		}
		if spec, err := req.Build(http.JSONCodec{}, defaults); err == nil {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRequest(spec))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var ex output.Exchange
	if jsonMode {
		res := client.DoJSON(ctx, req, nil).Wait()
		ex = output.Exchange{Meta: res.Meta, Body: res.Body, Err: res.Err}
	} else {
		o := client.Do(ctx, req, nil).Wait()
		ex = output.Exchange{Meta: o.Meta, Body: o.Body, Err: o.Err}
	}
	log.Debug("call completed",
		zap.String("method", method.String()),
		zap.String("url", uri),
		zap.Bool("success", ex.Err == nil))

	ex = postProcess(cmd, ex)

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResponse(ex))
	if ex.Err != nil {
		if format == output.FormatRaw {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", ex.Err)
		}
		return errRequestFailed
	}
	return nil
}

// buildRequest turns flags into a Request. It reports whether the call is a
// JSON call.
func buildRequest(cmd *cobra.Command, method http.Method, uri string, cfg *config.Config) (*http.Request, bool, error) {
	params, err := parsePairs(mustStringArray(cmd, "query"), "=")
	if err != nil {
		return nil, false, fmt.Errorf("invalid query parameter: %w", err)
	}
	headers, err := parsePairs(mustStringArray(cmd, "header"), ":")
	if err != nil {
		return nil, false, fmt.Errorf("invalid header: %w", err)
	}

	filter := cfg.ResponseFilter
	if cmd.Flags().Changed("filter") {
		filter = mustString(cmd, "filter")
	}

	req := http.NewRequest(method, uri).
		WithQueryParams(params).
		WithHeaders(headers).
		WithResponseFilter(filter)

	jsonMode := mustBool(cmd, "json")
	if method.AllowsBody() {
		data := mustString(cmd, "data")
		jsonBody := mustString(cmd, "json-body")
		switch {
		case data != "" && jsonBody != "":
			return nil, false, errors.New("--data and --json-body are mutually exclusive")
		case data != "":
			req.WithBody([]byte(data))
		case jsonBody != "":
			if !json.Valid([]byte(jsonBody)) {
				return nil, false, errors.New("--json-body is not valid JSON")
			}
			req.WithBody(json.RawMessage(jsonBody))
			jsonMode = true
		}
	}

	if mustString(cmd, "schema") != "" {
		jsonMode = true
	}
	return req, jsonMode, nil
}

// postProcess applies schema validation and selection to a successful outcome.
func postProcess(cmd *cobra.Command, ex output.Exchange) output.Exchange {
	if ex.Err != nil {
		return ex
	}

	if path := mustString(cmd, "schema"); path != "" {
		validator, err := jsonschema.CompileFile(path)
		if err != nil {
			ex.Err = err
			return ex
		}
		if err := validator.Validate(ex.Body); err != nil {
			ex.Err = fmt.Errorf("schema validation failed: %w", err)
			return ex
		}
	}

	if path := mustString(cmd, "select"); path != "" {
		selected, err := output.Select(ex.Body, path)
		if err != nil {
			ex.Err = err
			return ex
		}
		ex.Body = selected
	}
	return ex
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(mustString(cmd, "config"))
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("transport") {
		cfg.Transport = strings.ToLower(mustString(cmd, "transport"))
	}
	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// newTransport creates the backend selected by cfg.
func newTransport(cfg *config.Config, log *zap.Logger) (http.Transport, error) {
	switch cfg.Transport {
	case config.TransportResty:
		return http.NewRestyTransport(cfg.Timeout, log), nil
	default:
		options := []http.NetOption{
			http.WithNetTimeout(cfg.Timeout),
			http.WithNetLogger(log),
		}
		if cfg.HTTP2 {
			options = append(options, http.WithHTTP2())
		}
		if cfg.InsecureSkipVerify {
			options = append(options, http.WithInsecureSkipVerify())
		}
		return http.NewNetTransport(options...)
	}
}

// parsePairs splits "key<sep>value" arguments. Later duplicates win.
func parsePairs(items []string, sep string) (map[string]string, error) {
	pairs := make(map[string]string, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, sep)
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%q is not in key%svalue form", item, sep)
		}
		pairs[key] = strings.TrimSpace(value)
	}
	return pairs, nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func mustStringArray(cmd *cobra.Command, name string) []string {
	v, _ := cmd.Flags().GetStringArray(name)
	return v
}
