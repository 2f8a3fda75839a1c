// package api provides the HTTP API for the application
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cirocosta/todoapi/internal/errs"
	"github.com/cirocosta/todoapi/internal/model"
	"github.com/cirocosta/todoapi/internal/validation"
	"github.com/cirocosta/todoapi/pkg/router"
)

// API metadata used in the generated document
const (
	Title       = "Todo API"
	Description = "CRUD service for todo items"
	Version     = "1.0.0"
)

// TodoService defines the capability set needed by the API
type TodoService interface {
	// GetAll returns all todos, newest first
	GetAll(ctx context.Context) ([]model.TodoView, error)

	// GetCompleted returns completed todos, newest first
	GetCompleted(ctx context.Context) ([]model.TodoView, error)

	// GetPending returns pending todos, newest first
	GetPending(ctx context.Context) ([]model.TodoView, error)

	// GetByID returns a todo by ID, or nil if it does not exist
	GetByID(ctx context.Context, id int64) (*model.TodoView, error)

	// Create creates a new todo
	Create(ctx context.Context, req model.CreateTodoRequest) (model.TodoView, error)

	// Update updates an existing todo, returning nil if it does not exist
	Update(ctx context.Context, id int64, req model.UpdateTodoRequest) (*model.TodoView, error)

	// Delete deletes a todo and reports whether it existed
	Delete(ctx context.Context, id int64) (bool, error)
}

// RequestValidator checks request bodies before they reach the service
type RequestValidator interface {
	ValidateCreate(req model.CreateTodoRequest) []validation.Violation
	ValidateUpdate(req model.UpdateTodoRequest) []validation.Violation
}

// Pinger reports whether the store is reachable
type Pinger func(ctx context.Context) error

// API holds the components needed to register routes
type API struct {
	router      *router.DocRouter
	todoHandler *TodoHandler
	ping        Pinger
}

// NewRouter creates a new router with all routes and middlewares configured
func NewRouter(todoService TodoService, validator RequestValidator, ping Pinger, log zerolog.Logger) *router.DocRouter {
	r := router.NewDocRouter(Title, Description, Version)

	r.Use(
		requestIDMiddleware(log),
		accessLogMiddleware,
		recovererMiddleware,
	)

	api := &API{
		router:      r,
		todoHandler: NewTodoHandler(todoService, validator),
		ping:        ping,
	}
	api.registerRoutes()

	return r
}

// registerRoutes configures all API routes with documentation
func (api *API) registerRoutes() {
	errSchema := &errs.HTTPError{}

	api.router.
		WithTag("Todos", "Operations related to todo items").
		WithTag("Core", "Core API endpoints")

	api.router.Route(http.MethodGet, "/health", handle(api.health)).
		WithName("Health Check").
		WithDescription("Reports whether the todo store is reachable").
		WithResponse(http.StatusOK, &model.HealthResponse{}).
		WithErrorResponse(http.StatusServiceUnavailable, "Service Unavailable", &model.HealthResponse{},
			router.Example{Name: "unavailable", Value: model.HealthResponse{Status: healthUnavailable}}).
		WithTags("Core").
		Register()

	openAPI := sync.OnceValue(api.router.OpenAPI)
	api.router.Route(http.MethodGet, "/openapi.json", handle(func(w http.ResponseWriter, r *http.Request) error {
		return writeJSON(w, http.StatusOK, openAPI())
	})).
		WithName("OpenAPI Document").
		WithDescription("The OpenAPI document describing this API").
		WithTags("Core").
		Register()

	api.router.Route(http.MethodGet, "/todos", handle(api.todoHandler.ListTodos)).
		WithName("List Todos").
		WithDescription("Get all todo items, newest first").
		WithQueryParam("status", "Only return todo items in this state", StatusCompleted, StatusPending).
		WithResponse(http.StatusOK, []model.TodoView{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema).
		WithErrorResponse(http.StatusInternalServerError, "Internal Server Error", errSchema).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodPost, "/todos", handle(api.todoHandler.CreateTodo)).
		WithName("Create Todo").
		WithDescription("Create a new todo item").
		WithRequest(&model.CreateTodoRequest{}).
		WithResponse(http.StatusCreated, &model.TodoView{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema,
			router.Example{
				Name: "validation",
				Value: errs.NewValidationError([]errs.FieldError{
					{Field: "title", Code: validation.CodeRequiredField, Message: "Title is required"},
				}),
			},
			router.Example{Name: "format", Value: errs.NewBadRequestError(msgInvalidFormat)}).
		WithErrorResponse(http.StatusInternalServerError, "Internal Server Error", errSchema).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodGet, "/todos/{id}", handle(api.todoHandler.GetTodo)).
		WithName("Get Todo").
		WithDescription("Get a todo item by ID").
		WithPathParam("id", "integer", "Todo identifier").
		WithResponse(http.StatusOK, &model.TodoView{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema,
			router.Example{Name: "missing", Value: errs.NewNotFoundError(notFoundMessage(1))}).
		WithErrorResponse(http.StatusInternalServerError, "Internal Server Error", errSchema).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodPut, "/todos/{id}", handle(api.todoHandler.UpdateTodo)).
		WithName("Update Todo").
		WithDescription("Replace the title, description and completion of a todo item").
		WithPathParam("id", "integer", "Todo identifier").
		WithRequest(&model.UpdateTodoRequest{}).
		WithResponse(http.StatusOK, &model.TodoView{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema).
		WithErrorResponse(http.StatusInternalServerError, "Internal Server Error", errSchema).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodDelete, "/todos/{id}", handle(api.todoHandler.DeleteTodo)).
		WithName("Delete Todo").
		WithDescription("Delete a todo item").
		WithPathParam("id", "integer", "Todo identifier").
		WithResponse(http.StatusOK, &model.DeleteResponse{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema).
		WithErrorResponse(http.StatusInternalServerError, "Internal Server Error", errSchema).
		WithTags("Todos").
		Register()
}

const (
	healthOK          = "ok"
	healthUnavailable = "unavailable"
)

// health handles GET /health
func (api *API) health(w http.ResponseWriter, r *http.Request) error {
	if err := api.ping(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("todo store unreachable")
		return writeJSON(w, http.StatusServiceUnavailable, model.HealthResponse{Status: healthUnavailable})
	}

	return writeJSON(w, http.StatusOK, model.HealthResponse{Status: healthOK})
}

// GenerateOpenAPI renders the API document without a store behind it
func GenerateOpenAPI() ([]byte, error) {
	r := NewRouter(
		NewNoopTodoService(),
		validation.New(),
		func(context.Context) error { return nil },
		zerolog.Nop(),
	)

	return json.MarshalIndent(r.OpenAPI(), "", "  ")
}
