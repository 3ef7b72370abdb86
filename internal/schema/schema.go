// Package schema describes predictor inputs and outputs for documentation.
//
// Descriptors are registered next to a predictor rather than attached to its
// method signature. They are rendered into JSON Schema for external tooling and
// are never used to validate request values.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

type Type string

const (
	String  Type = "string"
	Integer Type = "integer"
	Number  Type = "number"
	Boolean Type = "boolean"
)

var dataTypes = map[Type]jsonschema.DataType{
	String:  jsonschema.String,
	Integer: jsonschema.Integer,
	Number:  jsonschema.Number,
	Boolean: jsonschema.Boolean,
}

var ErrInvalidSignature = errors.New("invalid predictor signature")

// Field describes one named predictor input.
type Field struct {
	Name        string
	Description string
	Type        Type
	Required    bool
}

type Signature struct {
	Inputs []Field
	Output Type
}

func (s Signature) Validate() error {
	seen := make(map[string]struct{}, len(s.Inputs))
	for idx, field := range s.Inputs {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w: input %d has no name", ErrInvalidSignature, idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate input %q", ErrInvalidSignature, name)
		}
		seen[name] = struct{}{}
		if _, ok := dataTypes[field.Type]; !ok {
			return fmt.Errorf("%w: input %q has unsupported type %q", ErrInvalidSignature, name, field.Type)
		}
	}
	if _, ok := dataTypes[s.Output]; !ok {
		return fmt.Errorf("%w: unsupported output type %q", ErrInvalidSignature, s.Output)
	}
	return nil
}

// Field returns the descriptor for the named input.
func (s Signature) Field(name string) (Field, bool) {
	for _, field := range s.Inputs {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (s Signature) InputDefinition() jsonschema.Definition {
	properties := make(map[string]jsonschema.Definition, len(s.Inputs))
	var required []string
	for _, field := range s.Inputs {
		properties[field.Name] = jsonschema.Definition{
			Type:        dataTypes[field.Type],
			Description: field.Description,
		}
		if field.Required {
			required = append(required, field.Name)
		}
	}
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: properties,
		Required:   required,
	}
}

func (s Signature) OutputDefinition() jsonschema.Definition {
	return jsonschema.Definition{Type: dataTypes[s.Output]}
}

type document struct {
	Input  *jsonschema.Definition `json:"Input"`
	Output *jsonschema.Definition `json:"Output"`
}

// Document renders the signature as an indented JSON document with "Input"
// and "Output" components.
func (s Signature) Document() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	input := s.InputDefinition()
	output := s.OutputDefinition()
	return json.MarshalIndent(document{Input: &input, Output: &output}, "", "  ")
}
