package repository

import (
	"context"

	"github.com/cirocosta/todoapi/internal/model"
)

// TodoRepository defines the interface for todo data access.
//
// Lookups report absence as a nil result with a nil error. Every other
// failure of the underlying store is returned as a *StorageError.
type TodoRepository interface {
	// Add inserts a new todo and returns it with its store-assigned ID
	Add(ctx context.Context, todo model.Todo) (model.Todo, error)

	// GetByID returns the todo with the given ID, or nil if there is none
	GetByID(ctx context.Context, id int64) (*model.Todo, error)

	// GetAll returns all todos, newest first
	GetAll(ctx context.Context) ([]model.Todo, error)

	// GetCompleted returns the completed todos, newest first
	GetCompleted(ctx context.Context) ([]model.Todo, error)

	// GetPending returns the todos not yet completed, newest first
	GetPending(ctx context.Context) ([]model.Todo, error)

	// Update overwrites title, description and completion of the todo with
	// todo.ID. It is a no-op when no such todo exists.
	Update(ctx context.Context, todo model.Todo) (model.Todo, error)

	// Delete removes a todo and reports whether a row was removed
	Delete(ctx context.Context, id int64) (bool, error)

	// Exists reports whether a todo with the given ID exists
	Exists(ctx context.Context, id int64) (bool, error)
}
