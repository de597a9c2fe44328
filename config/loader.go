package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NAIVE"

// Transport kinds.
const (
	TransportNet   = "net"
	TransportResty = "resty"
)

// Config holds the settings shared by every naive command.
type Config struct {
	// Transport selects the HTTP backend: "net" or "resty"
	Transport string `mapstructure:"transport"`

	// Timeout bounds a single exchange
	Timeout time.Duration `mapstructure:"timeout"`

	// HTTP2 negotiates HTTP/2 over TLS on the net transport
	HTTP2 bool `mapstructure:"http2"`

	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`

	// LogLevel is a zap level name
	LogLevel string `mapstructure:"log_level"`

	// ResponseFilter is stripped from the front of successful bodies
	ResponseFilter string `mapstructure:"response_filter"`

	// Headers are sent with every request unless overridden per call
	Headers map[string]string `mapstructure:"headers"`
}

// Load resolves the configuration. path may be empty, in which case only
// defaults and the environment apply. envFiles are loaded with godotenv
// before the environment is read; when none are given ".env" in the working
// directory is tried. Missing env files are ignored, a missing config file
// is not.
//
// Example:
//
//	cfg, err := config.Load("", "testdata/ci.env")
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))

	if errs := ValidateConfig(&cfg); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Transport: TransportNet,
		Timeout:   30 * time.Second,
		LogLevel:  "warn",
		Headers:   map[string]string{},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("transport", d.Transport)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("http2", d.HTTP2)
	v.SetDefault("insecure_skip_verify", d.InsecureSkipVerify)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("response_filter", d.ResponseFilter)
	v.SetDefault("headers", d.Headers)
}
