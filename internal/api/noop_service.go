package api

import (
	"context"

	"github.com/cirocosta/todoapi/internal/model"
)

// NoopTodoService is an implementation of TodoService that does nothing
// and is used solely for OpenAPI documentation generation
type NoopTodoService struct{}

var _ TodoService = NoopTodoService{}

// NewNoopTodoService creates a new no-op todo service
func NewNoopTodoService() NoopTodoService {
	return NoopTodoService{}
}

// GetAll implements TodoService
func (NoopTodoService) GetAll(context.Context) ([]model.TodoView, error) {
	return []model.TodoView{}, nil
}

// GetCompleted implements TodoService
func (NoopTodoService) GetCompleted(context.Context) ([]model.TodoView, error) {
	return []model.TodoView{}, nil
}

// GetPending implements TodoService
func (NoopTodoService) GetPending(context.Context) ([]model.TodoView, error) {
	return []model.TodoView{}, nil
}

// GetByID implements TodoService
func (NoopTodoService) GetByID(context.Context, int64) (*model.TodoView, error) {
	return nil, nil
}

// Create implements TodoService
func (NoopTodoService) Create(context.Context, model.CreateTodoRequest) (model.TodoView, error) {
	return model.TodoView{}, nil
}

// Update implements TodoService
func (NoopTodoService) Update(context.Context, int64, model.UpdateTodoRequest) (*model.TodoView, error) {
	return nil, nil
}

// Delete implements TodoService
func (NoopTodoService) Delete(context.Context, int64) (bool, error) {
	return false, nil
}
