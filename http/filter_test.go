package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		body   []byte
		want   []byte
	}{
		{"strips prefix", "while(1);", []byte("while(1);[1,2]"), []byte("[1,2]")},
		{"prefix absent", "while(1);", []byte("[1,2]"), []byte("[1,2]")},
		{"prefix not at start", "while(1);", []byte("[1] while(1);"), []byte("[1] while(1);")},
		{"keeps whitespace after prefix", "while(1);", []byte("while(1);\n[\"bleh\"]"), []byte("\n[\"bleh\"]")},
		{"invalid utf8 untouched", "while(1);", []byte("while(1);\xff\xfe"), []byte("while(1);\xff\xfe")},
		{"empty body", "while(1);", []byte{}, []byte{}},
		{"body equals prefix", ")]}'", []byte(")]}'"), []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterPrefix(tt.prefix, tt.body))
		})
	}
}

func TestFilterPrefix_NoPrefixIsIdentity(t *testing.T) {
	for _, body := range [][]byte{nil, {}, []byte("while(1);[]"), []byte("\xff")} {
		assert.Equal(t, body, FilterPrefix("", body))
	}
}

func TestFilterPrefix_ReturnsSuffixOfInput(t *testing.T) {
	body := []byte("while(1);{\"a\":1}")
	got := FilterPrefix("while(1);", body)
	// same backing array, no re-encoding
	assert.Equal(t, &body[len("while(1);")], &got[0])
}
