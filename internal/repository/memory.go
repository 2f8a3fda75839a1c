package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/cirocosta/todoapi/internal/model"
)

// InMemoryTodoRepository implements TodoRepository with an in-memory map.
// It has the same semantics as the sqlite repository and never fails.
type InMemoryTodoRepository struct {
	todos  map[int64]model.Todo
	nextID int64
	mutex  sync.RWMutex
}

var _ TodoRepository = (*InMemoryTodoRepository)(nil)

// NewInMemoryTodoRepository creates an empty in-memory todo repository
func NewInMemoryTodoRepository() *InMemoryTodoRepository {
	return &InMemoryTodoRepository{
		todos: make(map[int64]model.Todo),
	}
}

// Add stores a new todo under the next free ID
func (r *InMemoryTodoRepository) Add(ctx context.Context, todo model.Todo) (model.Todo, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextID++
	todo.ID = r.nextID
	r.todos[todo.ID] = cloneTodo(todo)

	return todo, nil
}

// GetByID returns a specific todo by ID
func (r *InMemoryTodoRepository) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	todo, exists := r.todos[id]
	if !exists {
		return nil, nil
	}

	todo = cloneTodo(todo)
	return &todo, nil
}

// GetAll returns all todos
func (r *InMemoryTodoRepository) GetAll(ctx context.Context) ([]model.Todo, error) {
	return r.filter(func(model.Todo) bool { return true }), nil
}

// GetCompleted returns completed todos
func (r *InMemoryTodoRepository) GetCompleted(ctx context.Context) ([]model.Todo, error) {
	return r.filter(func(t model.Todo) bool { return t.IsCompleted }), nil
}

// GetPending returns pending todos
func (r *InMemoryTodoRepository) GetPending(ctx context.Context) ([]model.Todo, error) {
	return r.filter(func(t model.Todo) bool { return !t.IsCompleted }), nil
}

// Update modifies the mutable fields of an existing todo
func (r *InMemoryTodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.todos[todo.ID]
	if !exists {
		return todo, nil
	}

	// id and creation time are never overwritten
	existing.Title = todo.Title
	existing.Description = todo.Description
	existing.IsCompleted = todo.IsCompleted
	r.todos[todo.ID] = cloneTodo(existing)

	return todo, nil
}

// Delete removes a todo
func (r *InMemoryTodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.todos[id]; !exists {
		return false, nil
	}

	delete(r.todos, id)
	return true, nil
}

// Exists reports whether a todo exists
func (r *InMemoryTodoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.todos[id]
	return exists, nil
}

func (r *InMemoryTodoRepository) filter(keep func(model.Todo) bool) []model.Todo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	todos := make([]model.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		if keep(todo) {
			todos = append(todos, cloneTodo(todo))
		}
	}

	// newest first, ties broken by ID like the sqlite repository
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})

	return todos
}

// cloneTodo copies the description so callers cannot mutate stored state
func cloneTodo(todo model.Todo) model.Todo {
	if todo.Description != nil {
		description := *todo.Description
		todo.Description = &description
	}
	return todo
}
