// Package validation checks harness result documents against the results
// JSON schema before any of their fields are trusted.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ResultsSchemaFileName is the schema file shipped in the problem builds directory.
const ResultsSchemaFileName = "results_validation_schema.json"

// schemaIDKey is the self-referential identifier stripped before compiling.
const schemaIDKey = "$id"

// ErrNoSchema is reported when validation is attempted without a compiled schema.
var ErrNoSchema = errors.New("no results schema loaded")

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// ResultsValidator validates result documents against a compiled schema.
type ResultsValidator struct {
	schema *jsonschema.Schema
}

// LoadResultsValidator reads and compiles the schema file at path.
func LoadResultsValidator(path string) (*ResultsValidator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results schema: %w", err)
	}

	var schemaDoc any
	if err := json.Unmarshal(data, &schemaDoc); err != nil {
		return nil, fmt.Errorf("parsing results schema %q: %w", path, err)
	}
	return NewResultsValidator(schemaDoc)
}

// NewResultsValidator compiles a parsed schema document.
//
// The schema's "$id" is always removed first: a relative self-id gets
// resolved as a network URL by some validators, which then fail closed.
func NewResultsValidator(schemaDoc any) (*ResultsValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(ResultsSchemaFileName, StripSchemaID(schemaDoc)); err != nil {
		return nil, fmt.Errorf("adding results schema resource: %w", err)
	}

	sch, err := compiler.Compile(ResultsSchemaFileName)
	if err != nil {
		return nil, fmt.Errorf("compiling results schema: %w", err)
	}
	return &ResultsValidator{schema: sch}, nil
}

// StripSchemaID returns the schema without its top-level "$id". The input is
// not modified.
func StripSchemaID(schemaDoc any) any {
	m, ok := schemaDoc.(map[string]any)
	if !ok {
		return schemaDoc
	}
	if _, has := m[schemaIDKey]; !has {
		return m
	}

	stripped := make(map[string]any, len(m)-1)
	for k, v := range m {
		if k != schemaIDKey {
			stripped[k] = v
		}
	}
	return stripped
}

// Validate returns the field-level errors for doc; an empty result means the
// document is valid. Errors are logged. Anything that goes wrong inside the
// validator counts as invalid.
func (v *ResultsValidator) Validate(doc any) (errs []string) {
	defer func() {
		if r := recover(); r != nil {
			errs = []string{fmt.Sprintf("schema: validator failed: %v", r)}
			slog.Error("Results schema validation failed", "panic", r)
		}
	}()

	if v == nil || v.schema == nil {
		errs = []string{fmt.Sprintf("schema: %v", ErrNoSchema)}
	} else {
		errs = validateAgainstSchema(v.schema, doc)
	}

	if len(errs) > 0 {
		slog.Warn("Result document failed schema validation", "errors", errs)
	}
	return errs
}

// Valid reports whether doc satisfies the schema.
func (v *ResultsValidator) Valid(doc any) bool {
	return len(v.Validate(doc)) == 0
}

// ValidateBytes parses raw JSON and validates it. It returns the parsed
// document so callers don't decode twice.
func (v *ResultsValidator) ValidateBytes(data []byte) (any, []string) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		errs := []string{fmt.Sprintf("JSON parse error: %v", err)}
		slog.Warn("Result document is not valid JSON", "error", err)
		return nil, errs
	}
	return doc, v.Validate(doc)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
