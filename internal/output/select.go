package output

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Select extracts the value at a gjson path from a JSON body. Strings are
// returned unquoted, everything else as raw JSON.
//
// Example:
//
//	Select([]byte(`{"args":{"herp":"derp"}}`), "args.herp") // "derp"
func Select(body []byte, path string) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("cannot select %q: response body is not JSON", path)
	}

	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return nil, fmt.Errorf("path %q not found in response", path)
	}
	if result.Type == gjson.String {
		return []byte(result.String()), nil
	}
	return []byte(result.Raw), nil
}
