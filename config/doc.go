// Package config loads naive's runtime settings.
//
// Settings are resolved in increasing order of precedence:
//   - built-in defaults
//   - an optional YAML or JSON file
//   - NAIVE_* environment variables, optionally seeded from a .env file
//
// Basic Usage:
//
//	cfg, err := config.Load("naive.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Transport, cfg.Timeout)
//
// Example file:
//
//	transport: resty
//	timeout: 10s
//	http2: true
//	log_level: debug
//	response_filter: "while(1);"
//	headers:
//	  Authorization: Bearer token
//
// Header names read from files are case-folded by the loader; they are
// canonicalized again when the request is built.
package config
