package block

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

// Schema is the declared set of fields of a block input or output.
type Schema struct {
	schema    *jsonschema.Schema
	fields    []string
	fieldSet  map[string]struct{}
	validator *gojsonschema.Schema
}

// reflectSchema builds a Schema from the struct v. enums restricts string
// fields to a closed set of values and defaults, when non-nil, is reported as
// the default value of every optional field it sets. Required fields never
// carry a default.
func reflectSchema(v any, enums map[string][]any, defaults any) (*Schema, error) {
	reflector := jsonschema.Reflector{
		// Expand definitions inline instead of using $refs
		DoNotReference: true,
	}
	s := reflector.Reflect(v)
	if s.Type == "" {
		s.Type = "object"
	}
	// The validator only understands older drafts; the field set is the same.
	s.Version = ""

	var fields []string
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			fields = append(fields, pair.Key)
		}
	}
	fieldSet := lo.Keyify(fields)

	for name, values := range enums {
		if _, ok := fieldSet[name]; !ok {
			return nil, fmt.Errorf("enum for undeclared field %q", name)
		}
		prop, _ := s.Properties.Get(name)
		prop.Enum = values
	}

	if defaults != nil {
		data, err := json.Marshal(defaults)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal defaults: %w", err)
		}
		var values map[string]any
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("failed to read defaults: %w", err)
		}
		required := lo.Keyify(s.Required)
		for name, value := range values {
			if _, ok := fieldSet[name]; !ok {
				continue
			}
			if _, ok := required[name]; ok {
				continue
			}
			prop, _ := s.Properties.Get(name)
			prop.Default = value
		}
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	validator, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		schema:    s,
		fields:    fields,
		fieldSet:  fieldSet,
		validator: validator,
	}, nil
}

// Fields returns the declared field names in declaration order.
func (s *Schema) Fields() []string {
	return append([]string(nil), s.fields...)
}

// Has reports whether name is a declared field.
func (s *Schema) Has(name string) bool {
	_, ok := s.fieldSet[name]
	return ok
}

// Required returns the fields a caller must supply.
func (s *Schema) Required() []string {
	return append([]string(nil), s.schema.Required...)
}

// Default returns the declared default of a field.
func (s *Schema) Default(name string) (any, bool) {
	prop := s.property(name)
	if prop == nil || prop.Default == nil {
		return nil, false
	}
	return prop.Default, true
}

// Enum returns the allowed values of a field, or nil when it is unrestricted.
func (s *Schema) Enum(name string) []any {
	prop := s.property(name)
	if prop == nil {
		return nil
	}
	return prop.Enum
}

func (s *Schema) property(name string) *jsonschema.Schema {
	if !s.Has(name) {
		return nil
	}
	prop, _ := s.schema.Properties.Get(name)
	return prop
}

// JSONSchema returns the underlying JSON schema document.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	return s.schema
}

// MarshalJSON renders the schema as a JSON schema document.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.schema)
}

// Validate checks a raw input against the schema.
func (s *Schema) Validate(input map[string]any) error {
	if input == nil {
		input = map[string]any{}
	}
	result, err := s.validator.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	if result.Valid() {
		return nil
	}
	descriptions := lo.Map(result.Errors(), func(desc gojsonschema.ResultError, _ int) string {
		return desc.String()
	})
	return &ValidationError{Problems: descriptions}
}

// ValidationError lists every way an input failed its schema.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}
