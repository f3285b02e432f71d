package job

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"ffjob/internal/services"
)

//go:embed job.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// SchemaJSON returns the embedded job document schema.
func SchemaJSON() string { return schemaJSON }

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("job.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// SchemaError reports every violation found while validating a job document.
type SchemaError struct {
	Source   string
	Problems []string
}

func (e *SchemaError) Error() string {
	subject := "job document"
	if e.Source != "" {
		subject = e.Source
	}
	if len(e.Problems) == 0 {
		return fmt.Sprintf("%s does not match the job schema", subject)
	}
	return fmt.Sprintf("%s does not match the job schema: %s", subject, strings.Join(e.Problems, "; "))
}

// Unwrap exposes the validation marker for errors.Is.
func (e *SchemaError) Unwrap() error { return services.ErrValidation }

// ValidateDocument checks raw JSON against the job schema.
func ValidateDocument(source string, data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return &SchemaError{Source: source, Problems: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}
	if decoder.More() {
		return &SchemaError{Source: source, Problems: []string{"invalid JSON: trailing data after document"}}
	}

	compiled, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile job schema: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &SchemaError{Source: source, Problems: collectProblems(verr)}
		}
		return &SchemaError{Source: source, Problems: []string{err.Error()}}
	}
	return nil
}

func collectProblems(root *jsonschema.ValidationError) []string {
	var problems []string
	var walk func(*jsonschema.ValidationError)
	walk = func(verr *jsonschema.ValidationError) {
		if len(verr.Causes) == 0 {
			location := verr.InstanceLocation
			if location == "" {
				location = "/"
			}
			problems = append(problems, fmt.Sprintf("%s: %s", location, verr.Message))
			return
		}
		for _, cause := range verr.Causes {
			walk(cause)
		}
	}
	walk(root)
	sort.Strings(problems)
	return dedupe(problems)
}

func dedupe(values []string) []string {
	out := values[:0]
	var prev string
	for i, v := range values {
		if i > 0 && v == prev {
			continue
		}
		out = append(out, v)
		prev = v
	}
	return out
}
