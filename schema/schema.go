package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Builder is implemented by every schema builder in this package.
type Builder interface {
	// Build validates the schema and serializes it.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error.
	MustBuild() json.RawMessage

	// schema exposes the internal node for composition.
	schema() *node
}

// node is the internal JSON Schema representation shared by all
// builders. Only the fields relevant to the node's type are set.
type node struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	Items       *node `json:"items,omitempty"`
	MinItems    *int  `json:"minItems,omitempty"`
	MaxItems    *int  `json:"maxItems,omitempty"`
	UniqueItems bool  `json:"uniqueItems,omitempty"`

	Properties           map[string]*node `json:"properties,omitempty"`
	Required             []string         `json:"required,omitempty"`
	AdditionalProperties *bool            `json:"additionalProperties,omitempty"`
}

var (
	// ErrInvalidRange is returned when a minimum constraint exceeds its
	// maximum counterpart.
	ErrInvalidRange = errors.New("schema: minimum exceeds maximum")

	// ErrInvalidPattern is returned when a regex pattern does not compile.
	ErrInvalidPattern = errors.New("schema: invalid regex pattern")

	// ErrNilItems is returned when an array schema has no items schema.
	ErrNilItems = errors.New("schema: array requires items schema")
)

// ValidationError reports a constraint violation found during Build.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (n *node) validate() error {
	switch n.Type {
	case "string":
		if n.MinLength != nil && n.MaxLength != nil && *n.MinLength > *n.MaxLength {
			return &ValidationError{Message: "minLength exceeds maxLength", Err: ErrInvalidRange}
		}
		if n.Pattern != "" {
			if _, err := regexp.Compile(n.Pattern); err != nil {
				return &ValidationError{Message: fmt.Sprintf("invalid pattern %q: %v", n.Pattern, err), Err: ErrInvalidPattern}
			}
		}
	case "integer", "number":
		if n.Minimum != nil && n.Maximum != nil && *n.Minimum > *n.Maximum {
			return &ValidationError{Message: "minimum exceeds maximum", Err: ErrInvalidRange}
		}
		if n.ExclusiveMinimum != nil && n.ExclusiveMaximum != nil && *n.ExclusiveMinimum >= *n.ExclusiveMaximum {
			return &ValidationError{Message: "exclusiveMinimum >= exclusiveMaximum", Err: ErrInvalidRange}
		}
	case "array":
		if n.Items == nil {
			return &ValidationError{Message: "array requires items schema", Err: ErrNilItems}
		}
		if n.MinItems != nil && n.MaxItems != nil && *n.MinItems > *n.MaxItems {
			return &ValidationError{Message: "minItems exceeds maxItems", Err: ErrInvalidRange}
		}
		if err := n.Items.validate(); err != nil {
			return &ValidationError{Message: fmt.Sprintf("invalid items schema: %v", err), Err: err}
		}
	case "object":
		for name, prop := range n.Properties {
			if err := prop.validate(); err != nil {
				return &ValidationError{Field: name, Message: err.Error(), Err: err}
			}
		}
	}
	return nil
}

// base carries the node and the Builder plumbing every typed builder
// shares. Chainable constraint methods live on the concrete builders so
// that chaining keeps the concrete type.
type base struct {
	n *node
}

// Build validates the schema and serializes it.
func (b base) Build() (json.RawMessage, error) {
	if err := b.n.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(b.n)
}

// MustBuild is like Build but panics on error.
func (b base) MustBuild() json.RawMessage {
	data, err := b.Build()
	if err != nil {
		panic(err)
	}
	return data
}

func (b base) schema() *node { return b.n }

// Required marks the field as required when used in an object.
func (b base) Required() *RequiredField {
	return &RequiredField{builder: b}
}

// RequiredField wraps a builder to mark it required in an enclosing
// object. Produced by the builders' Required method.
type RequiredField struct {
	builder Builder
}

func ptr[T any](v T) *T { return &v }
