package router

import (
	"encoding/json"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	rawMessageType = reflect.TypeOf(json.RawMessage{})
)

// schemaRegistry tracks named schema definitions so they are emitted once
// under components and referenced everywhere else
type schemaRegistry struct {
	schemas map[string]map[string]any
}

// newSchemaRegistry creates a new schema registry
func newSchemaRegistry() *schemaRegistry {
	return &schemaRegistry{
		schemas: make(map[string]map[string]any),
	}
}

// all returns all registered schemas
func (r *schemaRegistry) all() map[string]any {
	result := make(map[string]any, len(r.schemas))
	for name, schema := range r.schemas {
		result[name] = schema
	}
	return result
}

// schemaOf converts a Go value's type to a JSON Schema
func (r *schemaRegistry) schemaOf(v any) map[string]any {
	return r.schemaFor(reflect.TypeOf(v))
}

// schemaFor converts a Go type to a JSON Schema. Named structs become
// component references.
func (r *schemaRegistry) schemaFor(typ reflect.Type) map[string]any {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	switch {
	case typ == timeType:
		return map[string]any{"type": "string", "format": "date-time"}
	case typ == rawMessageType:
		return map[string]any{"type": "object"}
	}

	if schema := basicTypeSchema(typ.Kind()); schema != nil {
		return schema
	}

	switch typ.Kind() {
	case reflect.Struct:
		if typ.Name() == "" {
			return r.structSchema(typ)
		}
		return r.ref(typ)
	case reflect.Slice, reflect.Array:
		return map[string]any{
			"type":  "array",
			"items": r.schemaFor(typ.Elem()),
		}
	case reflect.Map:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": r.schemaFor(typ.Elem()),
		}
	default:
		return map[string]any{"type": "object"}
	}
}

// ref registers a named struct and returns a reference to it
func (r *schemaRegistry) ref(typ reflect.Type) map[string]any {
	name := typ.Name()

	if _, exists := r.schemas[name]; !exists {
		// placeholder first so self references terminate
		r.schemas[name] = map[string]any{}
		r.schemas[name] = r.structSchema(typ)
	}

	return map[string]any{
		"$ref": "#/components/schemas/" + name,
	}
}

// structSchema converts a struct type to an object schema
func (r *schemaRegistry) structSchema(typ reflect.Type) map[string]any {
	properties := make(map[string]any)
	required := []string{}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		// skip unexported fields
		if field.PkgPath != "" {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, isRequired := parseJsonTag(jsonTag, field.Name)
		if isRequired {
			required = append(required, name)
		}

		properties[name] = r.fieldSchema(field)
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// fieldSchema converts a struct field, adding documentation from its tags
func (r *schemaRegistry) fieldSchema(field reflect.StructField) map[string]any {
	schema := r.schemaFor(field.Type)

	// references cannot carry siblings
	if _, isRef := schema["$ref"]; isRef {
		return schema
	}

	if field.Type.Kind() == reflect.Ptr {
		schema["nullable"] = true
	}

	addFieldMetadata(schema, field)
	return schema
}

// parseJsonTag extracts name and required status from a json tag
func parseJsonTag(jsonTag, fieldName string) (string, bool) {
	if jsonTag == "" {
		return fieldName, true
	}

	parts := strings.Split(jsonTag, ",")
	name := parts[0]
	if name == "" {
		name = fieldName
	}

	return name, !slices.Contains(parts[1:], "omitempty")
}

// addFieldMetadata adds documentation from struct tags to a schema
func addFieldMetadata(schema map[string]any, field reflect.StructField) {
	if docTag := field.Tag.Get("doc"); docTag != "" {
		schema["description"] = docTag
	}

	if exampleTag := field.Tag.Get("example"); exampleTag != "" {
		schema["example"] = exampleValue(schema["type"], exampleTag)
	}

	if enumTag := field.Tag.Get("enum"); enumTag != "" {
		schema["enum"] = strings.Split(enumTag, ",")
	}
}

// exampleValue converts an example tag to the schema's type, keeping the
// raw text when it does not parse
func exampleValue(schemaType any, example string) any {
	switch schemaType {
	case "integer":
		if v, err := strconv.ParseInt(example, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(example, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(example); err == nil {
			return v
		}
	}
	return example
}

// basicTypeSchema creates a schema for a basic Go type
func basicTypeSchema(kind reflect.Kind) map[string]any {
	switch kind {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return map[string]any{"type": "integer"}
	case reflect.Int64, reflect.Uint64:
		return map[string]any{"type": "integer", "format": "int64"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.String:
		return map[string]any{"type": "string"}
	default:
		return nil
	}
}
