package http

import (
	"fmt"
	"strings"
)

// Method is one of the HTTP verbs the client knows how to send.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
)

// Methods lists every supported method in declaration order.
var Methods = []Method{MethodGet, MethodHead, MethodOptions, MethodPost, MethodPut, MethodDelete}

// ParseMethod resolves a case-insensitive method name.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", newError(CodeInvalidMethod, fmt.Sprintf("unsupported method %q", s), ErrInvalidMethod, nil)
	}
	return m, nil
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodHead, MethodOptions, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// AllowsBody reports whether a request body is sent for this method.
// Bodies handed to GET, HEAD or OPTIONS are dropped.
func (m Method) AllowsBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodDelete
}

func (m Method) String() string { return string(m) }
