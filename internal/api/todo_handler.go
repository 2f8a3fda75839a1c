package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cirocosta/todoapi/internal/errs"
	"github.com/cirocosta/todoapi/internal/model"
	"github.com/cirocosta/todoapi/internal/validation"
)

// Values accepted by the status filter of GET /todos
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

const (
	msgInvalidFormat = "invalid request format"
	msgInvalidID     = "invalid todo id"
	msgDeleted       = "Todo deleted successfully"

	// maxBodyBytes bounds request bodies
	maxBodyBytes = 1 << 20
)

// TodoHandler handles HTTP requests for todo operations
type TodoHandler struct {
	todoService TodoService
	validator   RequestValidator
}

// NewTodoHandler creates a new todo handler with the given service
func NewTodoHandler(todoService TodoService, validator RequestValidator) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		validator:   validator,
	}
}

// ListTodos handles GET /todos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) error {
	var (
		todos []model.TodoView
		err   error
	)

	switch status := r.URL.Query().Get("status"); status {
	case "":
		todos, err = h.todoService.GetAll(r.Context())
	case StatusCompleted:
		todos, err = h.todoService.GetCompleted(r.Context())
	case StatusPending:
		todos, err = h.todoService.GetPending(r.Context())
	default:
		return errs.NewValidationError([]errs.FieldError{{
			Field:   "status",
			Code:    "invalid_value",
			Message: fmt.Sprintf("Status must be one of: %s, %s", StatusCompleted, StatusPending),
		}})
	}
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, todos)
}

// GetTodo handles GET /todos/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}

	todo, err := h.todoService.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	if todo == nil {
		return errs.NewNotFoundError(notFoundMessage(id))
	}

	return writeJSON(w, http.StatusOK, todo)
}

// CreateTodo handles POST /todos
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) error {
	var req model.CreateTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	if violations := h.validator.ValidateCreate(req); len(violations) > 0 {
		return validationError(violations)
	}

	todo, err := h.todoService.Create(r.Context(), req)
	if err != nil {
		return err
	}

	w.Header().Set("Location", fmt.Sprintf("/todos/%d", todo.ID))
	return writeJSON(w, http.StatusCreated, todo)
}

// UpdateTodo handles PUT /todos/{id}
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}

	var req model.UpdateTodoRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	if violations := h.validator.ValidateUpdate(req); len(violations) > 0 {
		return validationError(violations)
	}

	todo, err := h.todoService.Update(r.Context(), id, req)
	if err != nil {
		return err
	}
	if todo == nil {
		return errs.NewNotFoundError(notFoundMessage(id))
	}

	return writeJSON(w, http.StatusOK, todo)
}

// DeleteTodo handles DELETE /todos/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}

	deleted, err := h.todoService.Delete(r.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NewNotFoundError(notFoundMessage(id))
	}

	return writeJSON(w, http.StatusOK, model.DeleteResponse{Message: msgDeleted})
}

// parseID reads the positive integer id from the request path
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewBadRequestError(msgInvalidID)
	}
	return id, nil
}

// decodeBody reads exactly one JSON value from the request body
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	err := dec.Decode(dst)
	if err == nil {
		if _, terr := dec.Token(); !errors.Is(terr, io.EOF) {
			err = errors.New("unexpected data after JSON value")
		}
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("rejected request body")
		return errs.NewBadRequestError(msgInvalidFormat)
	}
	return nil
}

func validationError(violations []validation.Violation) error {
	fieldErrors := make([]errs.FieldError, 0, len(violations))
	for _, v := range violations {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:   v.Field,
			Code:    v.Code,
			Message: v.Message,
		})
	}
	return errs.NewValidationError(fieldErrors)
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Todo with id %d not found", id)
}
