// package service implements business logic for the application
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cirocosta/todoapi/internal/model"
	"github.com/cirocosta/todoapi/internal/repository"
)

// TodoService handles business logic for todo operations. It is the only
// place where entities are mapped to views. Repository errors are returned
// unchanged.
type TodoService struct {
	repo repository.TodoRepository
	log  zerolog.Logger
	now  func() time.Time
}

// Option configures a TodoService
type Option func(*TodoService)

// WithClock replaces the time source used for creation timestamps
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) {
		s.now = now
	}
}

// NewTodoService creates a new todo service with the given repository
func NewTodoService(repo repository.TodoRepository, log zerolog.Logger, opts ...Option) *TodoService {
	s := &TodoService{
		repo: repo,
		log:  log.With().Str("component", "todo_service").Logger(),
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create creates a new todo
func (s *TodoService) Create(ctx context.Context, req model.CreateTodoRequest) (model.TodoView, error) {
	s.log.Info().Str("title", req.Title).Msg("creating todo")

	todo, err := s.repo.Add(ctx, model.Todo{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return model.TodoView{}, err
	}

	s.log.Info().Int64("id", todo.ID).Msg("created todo")
	return toView(todo), nil
}

// GetByID returns a todo by ID, or nil if it does not exist
func (s *TodoService) GetByID(ctx context.Context, id int64) (*model.TodoView, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil || todo == nil {
		return nil, err
	}

	view := toView(*todo)
	return &view, nil
}

// GetAll returns all todos, newest first
func (s *TodoService) GetAll(ctx context.Context) ([]model.TodoView, error) {
	return toViews(s.repo.GetAll(ctx))
}

// GetCompleted returns completed todos, newest first
func (s *TodoService) GetCompleted(ctx context.Context) ([]model.TodoView, error) {
	return toViews(s.repo.GetCompleted(ctx))
}

// GetPending returns pending todos, newest first
func (s *TodoService) GetPending(ctx context.Context) ([]model.TodoView, error) {
	return toViews(s.repo.GetPending(ctx))
}

// Update replaces the mutable fields of an existing todo. It returns nil
// when there is no todo with the given ID.
func (s *TodoService) Update(ctx context.Context, id int64, req model.UpdateTodoRequest) (*model.TodoView, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		s.log.Warn().Int64("id", id).Msg("todo not found for update")
		return nil, nil
	}

	// id and created at are kept from the stored todo
	existing.Title = req.Title
	existing.Description = req.Description
	existing.IsCompleted = req.IsCompleted

	updated, err := s.repo.Update(ctx, *existing)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("id", id).Msg("updated todo")
	view := toView(updated)
	return &view, nil
}

// Delete deletes a todo and reports whether it existed
func (s *TodoService) Delete(ctx context.Context, id int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		s.log.Warn().Int64("id", id).Msg("todo not found for deletion")
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		s.log.Info().Int64("id", id).Msg("deleted todo")
	} else {
		s.log.Warn().Int64("id", id).Msg("todo vanished before deletion")
	}

	return deleted, nil
}

func toView(todo model.Todo) model.TodoView {
	return model.TodoView{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		IsCompleted: todo.IsCompleted,
		CreatedAt:   todo.CreatedAt,
	}
}

func toViews(todos []model.Todo, err error) ([]model.TodoView, error) {
	if err != nil {
		return nil, err
	}

	views := make([]model.TodoView, 0, len(todos))
	for _, todo := range todos {
		views = append(views, toView(todo))
	}

	return views, nil
}
