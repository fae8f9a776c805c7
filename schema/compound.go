package schema

import (
	"fmt"

	ai "github.com/calebmweir/parley"
)

// Array creates an array schema builder with the given item schema.
func Array(items Builder) *ArrayBuilder {
	return &ArrayBuilder{base{n: &node{Type: "array", Items: items.schema()}}}
}

// ArrayBuilder constructs array schemas.
type ArrayBuilder struct {
	base
}

// Desc sets the description.
func (b *ArrayBuilder) Desc(description string) *ArrayBuilder {
	b.n.Description = description
	return b
}

// MinItems sets the minimum item count.
func (b *ArrayBuilder) MinItems(n int) *ArrayBuilder {
	b.n.MinItems = ptr(n)
	return b
}

// MaxItems sets the maximum item count.
func (b *ArrayBuilder) MaxItems(n int) *ArrayBuilder {
	b.n.MaxItems = ptr(n)
	return b
}

// UniqueItems requires all items to be distinct.
func (b *ArrayBuilder) UniqueItems() *ArrayBuilder {
	b.n.UniqueItems = true
	return b
}

// Object creates an object schema builder.
func Object() *ObjectBuilder {
	return &ObjectBuilder{base{n: &node{Type: "object", Properties: make(map[string]*node)}}}
}

// ObjectBuilder constructs object schemas.
type ObjectBuilder struct {
	base
}

// Desc sets the description.
func (b *ObjectBuilder) Desc(description string) *ObjectBuilder {
	b.n.Description = description
	return b
}

// Field adds a named property. Pass a Builder for an optional field or
// the result of its Required method for a required one.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.n.Properties[name] = f.builder.schema()
		b.addRequired(name)
	case Builder:
		b.n.Properties[name] = f.schema()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

func (b *ObjectBuilder) addRequired(name string) {
	for _, r := range b.n.Required {
		if r == name {
			return
		}
	}
	b.n.Required = append(b.n.Required, name)
}

// AdditionalProperties controls whether properties outside the declared
// set are accepted.
func (b *ObjectBuilder) AdditionalProperties(allowed bool) *ObjectBuilder {
	b.n.AdditionalProperties = ptr(allowed)
	return b
}

// NewTool builds a tool declaration with the given object schema as its
// input schema.
func NewTool(name, description string, input *ObjectBuilder) (ai.Tool, error) {
	data, err := input.Build()
	if err != nil {
		return ai.Tool{}, err
	}
	return ai.Tool{Name: name, Description: description, InputSchema: data}, nil
}

// MustTool is like NewTool but panics on error.
func MustTool(name, description string, input *ObjectBuilder) ai.Tool {
	t, err := NewTool(name, description, input)
	if err != nil {
		panic(err)
	}
	return t
}
