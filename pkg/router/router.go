// package router provides a router wrapper that captures documentation data
package router

import (
	"net/http"
	"strconv"
	"sync"
)

// RouteResponse represents a documented response for a specific HTTP status code
type RouteResponse struct {
	StatusCode  string    // HTTP status code (e.g., "200", "400")
	Description string    // Description of the response
	Schema      any       // Response schema/type (optional)
	Examples    []Example // Example responses (optional)
}

// Example represents an example response for documentation
type Example struct {
	Name  string // Name of the example, unique per response
	Value any    // Example payload, rendered as JSON
}

// Param documents a path or query parameter
type Param struct {
	Name        string
	In          string // "path" or "query"
	Type        string // JSON schema type, "string" when empty
	Description string
	Required    bool
	Enum        []string
}

// Tag groups operations in the generated document
type Tag struct {
	Name        string
	Description string
}

// RouteInfo stores documentation for a route
type RouteInfo struct {
	Method        string                   // HTTP method (GET, POST, etc.)
	Path          string                   // URL path
	Name          string                   // Friendly name for the endpoint
	Description   string                   // Description of what the endpoint does
	Handler       http.Handler             // The actual handler
	RequestType   any                      // Example request type (for schema generation)
	ResponseType  any                      // Example success response type (for schema generation)
	SuccessStatus int                      // Status of the success response
	Responses     map[string]RouteResponse // Map of HTTP status codes to error responses
	Params        []Param                  // Path and query parameters
	Tags          []string                 // Tags for grouping endpoints
}

// RouteConfig is a builder for route configuration
type RouteConfig struct {
	router *DocRouter
	info   RouteInfo
}

// DocRouter wraps http.ServeMux to add documentation capabilities
type DocRouter struct {
	mux         *http.ServeMux
	routes      []RouteInfo
	middlewares []func(http.Handler) http.Handler
	tags        []Tag

	title       string
	description string
	version     string

	once    sync.Once
	handler http.Handler
}

// NewDocRouter creates a new documented router
func NewDocRouter(title, description, version string) *DocRouter {
	return &DocRouter{
		mux:         http.NewServeMux(),
		routes:      []RouteInfo{},
		title:       title,
		description: description,
		version:     version,
	}
}

// WithTag declares a tag used to group routes in the generated document
func (dr *DocRouter) WithTag(name, description string) *DocRouter {
	dr.tags = append(dr.tags, Tag{Name: name, Description: description})
	return dr
}

// Route starts a route configuration chain
func (dr *DocRouter) Route(method, path string, handler http.Handler) *RouteConfig {
	return &RouteConfig{
		router: dr,
		info: RouteInfo{
			Method:        method,
			Path:          path,
			Handler:       handler,
			SuccessStatus: http.StatusOK,
			Responses:     make(map[string]RouteResponse),
		},
	}
}

// WithName adds a name to the route
func (rc *RouteConfig) WithName(name string) *RouteConfig {
	rc.info.Name = name
	return rc
}

// WithDescription adds a description to the route
func (rc *RouteConfig) WithDescription(description string) *RouteConfig {
	rc.info.Description = description
	return rc
}

// WithRequest adds a request type to the route
func (rc *RouteConfig) WithRequest(requestType any) *RouteConfig {
	rc.info.RequestType = requestType
	return rc
}

// WithResponse adds a success response type to the route
func (rc *RouteConfig) WithResponse(status int, responseType any) *RouteConfig {
	rc.info.SuccessStatus = status
	rc.info.ResponseType = responseType
	return rc
}

// WithErrorResponse adds an error response to the route
func (rc *RouteConfig) WithErrorResponse(status int, description string, schema any, examples ...Example) *RouteConfig {
	code := strconv.Itoa(status)
	rc.info.Responses[code] = RouteResponse{
		StatusCode:  code,
		Description: description,
		Schema:      schema,
		Examples:    examples,
	}
	return rc
}

// WithPathParam documents a path parameter. Parameters found in the path
// but not documented are described as strings.
func (rc *RouteConfig) WithPathParam(name, typ, description string) *RouteConfig {
	rc.info.Params = append(rc.info.Params, Param{
		Name:        name,
		In:          "path",
		Type:        typ,
		Description: description,
		Required:    true,
	})
	return rc
}

// WithQueryParam documents an optional query parameter
func (rc *RouteConfig) WithQueryParam(name, description string, enum ...string) *RouteConfig {
	rc.info.Params = append(rc.info.Params, Param{
		Name:        name,
		In:          "query",
		Type:        "string",
		Description: description,
		Enum:        enum,
	})
	return rc
}

// WithTags adds tags to the route
func (rc *RouteConfig) WithTags(tags ...string) *RouteConfig {
	rc.info.Tags = tags
	return rc
}

// Register finalizes the route configuration and registers it with the router
func (rc *RouteConfig) Register() {
	// go 1.22 pattern with method
	rc.router.mux.Handle(rc.info.Method+" "+rc.info.Path, rc.info.Handler)
	rc.router.routes = append(rc.router.routes, rc.info)
}

// GetRoutes returns all documented routes
func (dr *DocRouter) GetRoutes() []RouteInfo {
	return dr.routes
}

// Use adds middlewares wrapping every route. The first middleware is the
// outermost one. Middlewares must be added before the router serves.
func (dr *DocRouter) Use(middleware ...func(http.Handler) http.Handler) {
	dr.middlewares = append(dr.middlewares, middleware...)
}

// ServeHTTP makes DocRouter implement the http.Handler interface
func (dr *DocRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dr.once.Do(func() {
		var handler http.Handler = dr.mux
		for i := len(dr.middlewares) - 1; i >= 0; i-- {
			handler = dr.middlewares[i](handler)
		}
		dr.handler = handler
	})

	dr.handler.ServeHTTP(w, r)
}

// OpenAPI generates the OpenAPI document for the registered routes
func (dr *DocRouter) OpenAPI() map[string]any {
	gen := NewOpenAPIGenerator(dr.title, dr.description, dr.version, dr.routes)
	gen.Tags = dr.tags
	return gen.Generate()
}
