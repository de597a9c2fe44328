// Package jsonschema validates response bodies against JSON Schema documents.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validator is a compiled schema. It is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a schema document. Formats such as "email"
// and "date-time" are asserted, not only annotated.
func Compile(schema string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if err := compiler.AddResource(resourceName, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// CompileFile reads and compiles the schema stored at path.
func CompileFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Compile(string(data))
}

// Validate checks a JSON document. It returns ValidationErrors when the
// document does not satisfy the schema and a plain error when body is not
// JSON at all.
func (v *Validator) Validate(body []byte) error {
	doc, err := decode(body)
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := v.schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return extractValidationErrors(validationErr)
		}
		return ValidationErrors{err}
	}
	return nil
}

// Validate validates a JSON string against a JSON Schema.
// It reports false without an error when the document violates the schema;
// an error means the schema or the document could not be parsed.
func Validate(jsonStr, schemaStr string) (bool, error) {
	v, err := Compile(schemaStr)
	if err != nil {
		return false, err
	}

	err = v.Validate([]byte(jsonStr))
	var verrs ValidationErrors
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &verrs):
		return false, nil
	default:
		return false, err
	}
}

// ValidateWithErrors validates a JSON string against a JSON Schema and
// returns every violation found.
func ValidateWithErrors(jsonStr, schemaStr string) (bool, ValidationErrors) {
	v, err := Compile(schemaStr)
	if err != nil {
		return false, ValidationErrors{err}
	}

	err = v.Validate([]byte(jsonStr))
	if err == nil {
		return true, nil
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return false, verrs
	}
	return false, ValidationErrors{err}
}

// decode keeps numbers as json.Number so integer checks are exact.
func decode(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return doc, nil
}

// extractValidationErrors flattens a jsonschema.ValidationError tree
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var errors ValidationErrors

	if err.Message != "" {
		errors = append(errors, fmt.Errorf("validation error at %s: %s", err.InstanceLocation, err.Message))
	}

	for _, childErr := range err.Causes {
		errors = append(errors, extractValidationErrors(childErr)...)
	}

	return errors
}
