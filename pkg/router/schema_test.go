package router

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test structs used in the tests
type SimpleStruct struct {
	String  string  `json:"string"`
	Int     int     `json:"int"`
	Bool    bool    `json:"bool"`
	Float   float64 `json:"float"`
	Pointer *string `json:"pointer,omitempty"`
}

type StructWithCollections struct {
	StringArray []string                `json:"stringArray"`
	ObjArray    []SimpleStruct          `json:"objArray"`
	IntMap      map[string]int          `json:"intMap"`
	ObjMap      map[string]SimpleStruct `json:"objMap"`
}

type StructWithTags struct {
	Required    string `json:"required"`
	Optional    string `json:"optional,omitempty"`
	WithDoc     string `json:"withDoc" doc:"This is documentation"`
	WithExample int64  `json:"withExample" example:"42"`
	WithEnum    string `json:"withEnum" enum:"value1,value2,value3"`
	Ignored     string `json:"-"`
	unexported  string
}

type StructWithSpecialTypes struct {
	Created time.Time       `json:"created"`
	Data    json.RawMessage `json:"data"`
}

type CircularStruct struct {
	Name     string           `json:"name"`
	Self     *CircularStruct  `json:"self,omitempty"`
	Children []CircularStruct `json:"children"`
}

func TestParseJsonTag(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		jsonTag      string
		fieldName    string
		wantName     string
		wantRequired bool
	}{
		"empty tag uses field name and required": {
			jsonTag:      "",
			fieldName:    "FieldName",
			wantName:     "FieldName",
			wantRequired: true,
		},
		"simple tag": {
			jsonTag:      "propertyName",
			fieldName:    "FieldName",
			wantName:     "propertyName",
			wantRequired: true,
		},
		"optional tag": {
			jsonTag:      "propertyName,omitempty",
			fieldName:    "FieldName",
			wantName:     "propertyName",
			wantRequired: false,
		},
		"multiple options": {
			jsonTag:      "propertyName,string,omitempty",
			fieldName:    "FieldName",
			wantName:     "propertyName",
			wantRequired: false,
		},
		"empty name in tag": {
			jsonTag:      ",omitempty",
			fieldName:    "FieldName",
			wantName:     "FieldName",
			wantRequired: false,
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			gotName, gotRequired := parseJsonTag(tc.jsonTag, tc.fieldName)
			assert.Equal(t, tc.wantName, gotName)
			assert.Equal(t, tc.wantRequired, gotRequired)
		})
	}
}

func TestBasicTypeSchema(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		kind reflect.Kind
		want map[string]any
	}{
		"bool":    {kind: reflect.Bool, want: map[string]any{"type": "boolean"}},
		"int":     {kind: reflect.Int, want: map[string]any{"type": "integer"}},
		"int64":   {kind: reflect.Int64, want: map[string]any{"type": "integer", "format": "int64"}},
		"uint8":   {kind: reflect.Uint8, want: map[string]any{"type": "integer"}},
		"float64": {kind: reflect.Float64, want: map[string]any{"type": "number"}},
		"string":  {kind: reflect.String, want: map[string]any{"type": "string"}},
		"struct":  {kind: reflect.Struct, want: nil},
		"chan":    {kind: reflect.Chan, want: nil},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.want, basicTypeSchema(tc.kind)); diff != "" {
				t.Errorf("schema mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchemaRegistry_Struct(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		value       any
		wantName    string
		want        map[string]any
		wantSchemas []string
	}{
		"simple struct": {
			value:    SimpleStruct{},
			wantName: "SimpleStruct",
			want: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"string":  map[string]any{"type": "string"},
					"int":     map[string]any{"type": "integer"},
					"bool":    map[string]any{"type": "boolean"},
					"float":   map[string]any{"type": "number"},
					"pointer": map[string]any{"type": "string", "nullable": true},
				},
				"required": []string{"string", "int", "bool", "float"},
			},
			wantSchemas: []string{"SimpleStruct"},
		},
		"collections": {
			value:    StructWithCollections{},
			wantName: "StructWithCollections",
			want: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"stringArray": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"objArray": map[string]any{
						"type":  "array",
						"items": map[string]any{"$ref": "#/components/schemas/SimpleStruct"},
					},
					"intMap": map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"type": "integer"},
					},
					"objMap": map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"$ref": "#/components/schemas/SimpleStruct"},
					},
				},
				"required": []string{"stringArray", "objArray", "intMap", "objMap"},
			},
			wantSchemas: []string{"StructWithCollections", "SimpleStruct"},
		},
		"tags": {
			value:    &StructWithTags{},
			wantName: "StructWithTags",
			want: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"required":    map[string]any{"type": "string"},
					"optional":    map[string]any{"type": "string"},
					"withDoc":     map[string]any{"type": "string", "description": "This is documentation"},
					"withExample": map[string]any{"type": "integer", "format": "int64", "example": int64(42)},
					"withEnum":    map[string]any{"type": "string", "enum": []string{"value1", "value2", "value3"}},
				},
				"required": []string{"required", "withDoc", "withExample", "withEnum"},
			},
			wantSchemas: []string{"StructWithTags"},
		},
		"special types": {
			value:    StructWithSpecialTypes{},
			wantName: "StructWithSpecialTypes",
			want: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"created": map[string]any{"type": "string", "format": "date-time"},
					"data":    map[string]any{"type": "object"},
				},
				"required": []string{"created", "data"},
			},
			wantSchemas: []string{"StructWithSpecialTypes"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			registry := newSchemaRegistry()
			ref := registry.schemaOf(tc.value)
			assert.Equal(t, map[string]any{"$ref": "#/components/schemas/" + tc.wantName}, ref)

			schemas := registry.all()
			assert.Len(t, schemas, len(tc.wantSchemas))
			for _, s := range tc.wantSchemas {
				assert.Contains(t, schemas, s)
			}

			if diff := cmp.Diff(tc.want, schemas[tc.wantName]); diff != "" {
				t.Errorf("schema mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchemaRegistry_AnonymousStruct(t *testing.T) {
	t.Parallel()

	registry := newSchemaRegistry()
	got := registry.schemaOf(struct {
		Status string `json:"status"`
	}{})

	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string"},
		},
		"required": []string{"status"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, registry.all())
}

func TestSchemaRegistry_CircularReference(t *testing.T) {
	t.Parallel()

	registry := newSchemaRegistry()
	ref := registry.schemaOf(CircularStruct{})
	assert.Equal(t, map[string]any{"$ref": "#/components/schemas/CircularStruct"}, ref)

	schemas := registry.all()
	require.Len(t, schemas, 1)

	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"self": map[string]any{"$ref": "#/components/schemas/CircularStruct"},
			"children": map[string]any{
				"type":  "array",
				"items": map[string]any{"$ref": "#/components/schemas/CircularStruct"},
			},
		},
		"required": []string{"name", "children"},
	}
	if diff := cmp.Diff(want, schemas["CircularStruct"]); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestExampleValue(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		schemaType any
		example    string
		want       any
	}{
		"integer":         {schemaType: "integer", example: "7", want: int64(7)},
		"invalid integer": {schemaType: "integer", example: "seven", want: "seven"},
		"number":          {schemaType: "number", example: "1.5", want: 1.5},
		"boolean":         {schemaType: "boolean", example: "true", want: true},
		"string":          {schemaType: "string", example: "Buy milk", want: "Buy milk"},
		"no type":         {schemaType: nil, example: "x", want: "x"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, exampleValue(tc.schemaType, tc.example))
		})
	}
}
