package tool

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SchemaFor generates a JSON Schema object from a struct type T.
//
// Field names come from `json` tags (falling back to the Go name), types
// map to JSON Schema types, and three extra tags refine the schema:
//
//	`desc:"..."`      sets the property description
//	`required:"true"` adds the property to the required list
//	`enum:"a,b,c"`    restricts a string property to the listed values
//
// Returns an error if T is not a struct type.
func SchemaFor[T any]() (json.RawMessage, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("tool: cannot derive schema from interface type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool: cannot derive schema from %s, want struct", t.Kind())
	}

	node := structSchema(t)
	return json.Marshal(node)
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

// schemaNode is the serialized shape of one schema level. Properties keep
// declaration order via an ordered map emitted by hand in MarshalJSON.
type schemaNode struct {
	Type        string        `json:"type"`
	Description string        `json:"description,omitempty"`
	Enum        []string      `json:"enum,omitempty"`
	Items       *schemaNode   `json:"items,omitempty"`
	Properties  orderedProps  `json:"properties,omitempty"`
	Required    []string      `json:"required,omitempty"`
}

type orderedProp struct {
	name string
	node *schemaNode
}

// orderedProps serializes properties in struct declaration order, which
// keeps generated schemas stable across runs.
type orderedProps []orderedProp

func (p orderedProps) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		name, err := json.Marshal(prop.name)
		if err != nil {
			return nil, err
		}
		node, err := json.Marshal(prop.node)
		if err != nil {
			return nil, err
		}
		sb.Write(name)
		sb.WriteByte(':')
		sb.Write(node)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

func structSchema(t reflect.Type) *schemaNode {
	node := &schemaNode{Type: "object", Properties: orderedProps{}}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop := typeSchema(field.Type)
		if desc := field.Tag.Get("desc"); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" && prop.Type == "string" {
			prop.Enum = strings.Split(enum, ",")
		}
		node.Properties = append(node.Properties, orderedProp{name: name, node: prop})

		if field.Tag.Get("required") == "true" {
			node.Required = append(node.Required, name)
		}
	}
	return node
}

func typeSchema(t reflect.Type) *schemaNode {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &schemaNode{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &schemaNode{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &schemaNode{Type: "number"}
	case reflect.Bool:
		return &schemaNode{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &schemaNode{Type: "array", Items: typeSchema(t.Elem())}
	case reflect.Struct:
		return structSchema(t)
	case reflect.Map:
		return &schemaNode{Type: "object"}
	default:
		return &schemaNode{Type: "string"}
	}
}
