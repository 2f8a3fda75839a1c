package router

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// OpenAPIVersion is the version of the generated documents
const OpenAPIVersion = "3.0.3"

// OpenAPIGenerator generates OpenAPI specs from route info
type OpenAPIGenerator struct {
	Title       string
	Description string
	Version     string
	Routes      []RouteInfo
	Tags        []Tag

	schemaRegistry *schemaRegistry
}

// NewOpenAPIGenerator creates a new OpenAPI generator
func NewOpenAPIGenerator(title, description, version string, routes []RouteInfo) *OpenAPIGenerator {
	return &OpenAPIGenerator{
		Title:          title,
		Description:    description,
		Version:        version,
		Routes:         routes,
		schemaRegistry: newSchemaRegistry(),
	}
}

// Generate creates and returns an OpenAPI document
func (g *OpenAPIGenerator) Generate() map[string]any {
	doc := map[string]any{
		"openapi": OpenAPIVersion,
		"info": map[string]any{
			"title":       g.Title,
			"description": g.Description,
			"version":     g.Version,
		},
		// paths first, they fill the schema registry
		"paths": g.generatePaths(),
	}

	if len(g.Tags) > 0 {
		tags := make([]any, 0, len(g.Tags))
		for _, tag := range g.Tags {
			tags = append(tags, map[string]any{
				"name":        tag.Name,
				"description": tag.Description,
			})
		}
		doc["tags"] = tags
	}

	doc["components"] = map[string]any{
		"schemas": g.schemaRegistry.all(),
	}

	return doc
}

// schemaRef returns the schema of t, registering named types as components
func (g *OpenAPIGenerator) schemaRef(t any) map[string]any {
	if t == nil {
		return nil
	}
	return g.schemaRegistry.schemaOf(t)
}

// extractPathParams gets path parameters from a URL path
func extractPathParams(path string) []string {
	var params []string

	for _, part := range strings.Split(path, "/") {
		if len(part) > 2 && part[0] == '{' && part[len(part)-1] == '}' {
			// {name...} wildcards document as name
			params = append(params, strings.TrimSuffix(part[1:len(part)-1], "..."))
		}
	}

	return params
}

// generateParameters creates parameter objects for path and query parameters
func generateParameters(route RouteInfo) []any {
	documented := make(map[string]Param)
	for _, p := range route.Params {
		if p.In == "path" {
			documented[p.Name] = p
		}
	}

	var parameters []any
	for _, name := range extractPathParams(route.Path) {
		p, ok := documented[name]
		if !ok {
			p = Param{Name: name, In: "path", Required: true, Description: fmt.Sprintf("%s parameter", name)}
		}
		parameters = append(parameters, parameterObject(p))
	}

	for _, p := range route.Params {
		if p.In == "query" {
			parameters = append(parameters, parameterObject(p))
		}
	}

	return parameters
}

func parameterObject(p Param) map[string]any {
	typ := p.Type
	if typ == "" {
		typ = "string"
	}

	schema := map[string]any{"type": typ}
	if typ == "integer" {
		schema["format"] = "int64"
	}
	if len(p.Enum) > 0 {
		schema["enum"] = p.Enum
	}

	return map[string]any{
		"name":        p.Name,
		"in":          p.In,
		"required":    p.Required || p.In == "path",
		"description": p.Description,
		"schema":      schema,
	}
}

// operationID derives a stable identifier such as get_todos_id
func operationID(method, path string) string {
	replacer := strings.NewReplacer("/", "_", "{", "", "}", "", ".", "_")
	return strings.ToLower(method) + "_" + strings.Trim(replacer.Replace(path), "_")
}

// generatePaths creates the paths section of the OpenAPI spec
func (g *OpenAPIGenerator) generatePaths() map[string]any {
	paths := map[string]any{}

	for _, route := range g.Routes {
		if _, exists := paths[route.Path]; !exists {
			paths[route.Path] = map[string]any{}
		}

		pathItem := paths[route.Path].(map[string]any)
		method := strings.ToLower(route.Method)

		operation := map[string]any{
			"summary":     route.Name,
			"description": route.Description,
			"operationId": operationID(route.Method, route.Path),
			"responses":   g.generateResponses(route),
		}

		if len(route.Tags) > 0 {
			operation["tags"] = route.Tags
		}

		if params := generateParameters(route); len(params) > 0 {
			operation["parameters"] = params
		}

		// request bodies only for POST, PUT, PATCH
		if route.RequestType != nil && (method == "post" || method == "put" || method == "patch") {
			operation["requestBody"] = g.generateRequestBody(route)
		}

		pathItem[method] = operation
	}

	return paths
}

// generateResponses creates response documentation
func (g *OpenAPIGenerator) generateResponses(route RouteInfo) map[string]any {
	responses := map[string]any{}

	for statusCode, routeResponse := range route.Responses {
		content := map[string]any{}

		if routeResponse.Schema != nil {
			content["schema"] = g.schemaRef(routeResponse.Schema)
		}

		if len(routeResponse.Examples) > 0 {
			examples := map[string]any{}
			for _, example := range routeResponse.Examples {
				examples[example.Name] = map[string]any{
					"value": example.Value,
				}
			}
			content["examples"] = examples
		}

		response := map[string]any{
			"description": routeResponse.Description,
		}
		if len(content) > 0 {
			response["content"] = map[string]any{
				"application/json": content,
			}
		}

		responses[statusCode] = response
	}

	status := route.SuccessStatus
	if status == 0 {
		status = http.StatusOK
	}
	code := strconv.Itoa(status)

	// error responses never override the success response
	success := map[string]any{
		"description": strings.ToLower(http.StatusText(status)),
	}
	if route.ResponseType != nil {
		success["content"] = map[string]any{
			"application/json": map[string]any{
				"schema": g.schemaRef(route.ResponseType),
			},
		}
	}
	responses[code] = success

	return responses
}

// generateRequestBody creates request body documentation
func (g *OpenAPIGenerator) generateRequestBody(route RouteInfo) map[string]any {
	return map[string]any{
		"description": fmt.Sprintf("request body for %s", route.Name),
		"required":    true,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": g.schemaRef(route.RequestType),
			},
		},
	}
}
