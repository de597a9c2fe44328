package http

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

type queryItem struct {
	key      string
	value    string
	hasValue bool
}

// NormalizeURL appends params to the query already present in uri and sorts
// every item by key in ascending byte order. Items sharing a key keep their
// relative order, existing ones first, so repeated keys are retained rather
// than overwritten.
//
// When there are no params and uri carries no query, uri is returned
// unchanged. The result is stable: normalizing it again without params
// yields the same string.
//
//	NormalizeURL("http://example.com?c=xxx", map[string]string{"a": "123"})
//	// http://example.com?a=123&c=xxx
func NormalizeURL(uri string, params map[string]string) (string, error) {
	u, err := parseURI(uri)
	if err != nil {
		return "", err
	}

	items, err := parseQueryItems(u.RawQuery)
	if err != nil {
		return "", newError(CodeInvalidURI, "could not parse query", ErrInvalidURI, err)
	}
	for key, value := range params {
		items = append(items, queryItem{key: key, value: value, hasValue: true})
	}

	if len(items) == 0 {
		return uri, nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].key < items[j].key
	})

	u.RawQuery = encodeQueryItems(items)
	u.ForceQuery = false
	return u.String(), nil
}

// parseURI accepts absolute URIs with a host only.
func parseURI(uri string) (*url.URL, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, newError(CodeInvalidURI, "could not create URL from string", ErrInvalidURI, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, newError(CodeInvalidURI, "could not create URL from string", ErrInvalidURI,
			fmt.Errorf("%q is not an absolute URL", uri))
	}
	return u, nil
}

func parseQueryItems(raw string) ([]queryItem, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, "&")
	items := make([]queryItem, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		rawKey, rawValue, hasValue := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("query key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("query value for %q: %w", key, err)
		}
		items = append(items, queryItem{key: key, value: value, hasValue: hasValue})
	}
	return items, nil
}

func encodeQueryItems(items []queryItem) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(item.key))
		if item.hasValue {
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(item.value))
		}
	}
	return sb.String()
}
