package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/cirocosta/todoapi/internal/model"
)

// TimeLayout is the text encoding of CreatedAt. It is fixed-width UTC so
// that ordering the column as text orders it by instant.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	selectColumns = `SELECT Id, Title, Description, IsCompleted, CreatedAt FROM Todos`
	orderNewest   = ` ORDER BY CreatedAt DESC, Id DESC`

	insertTodo = `INSERT INTO Todos (Title, Description, IsCompleted, CreatedAt)
		VALUES (?, ?, ?, ?) RETURNING Id`
	selectTodoByID     = selectColumns + ` WHERE Id = ?`
	selectAllTodos     = selectColumns + orderNewest
	selectTodosByState = selectColumns + ` WHERE IsCompleted = ?` + orderNewest
	updateTodo         = `UPDATE Todos SET Title = ?, Description = ?, IsCompleted = ? WHERE Id = ?`
	deleteTodo         = `DELETE FROM Todos WHERE Id = ?`
	countTodoByID      = `SELECT COUNT(1) FROM Todos WHERE Id = ?`
)

// SQLiteTodoRepository implements TodoRepository on top of the Todos table.
// Every operation runs a single parameterized statement on a connection
// acquired for that operation alone.
type SQLiteTodoRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

var _ TodoRepository = (*SQLiteTodoRepository)(nil)

// NewSQLiteTodoRepository creates a repository over an opened store
func NewSQLiteTodoRepository(db *gorm.DB, log zerolog.Logger) *SQLiteTodoRepository {
	return &SQLiteTodoRepository{
		db:  db,
		log: log.With().Str("component", "todo_repository").Logger(),
	}
}

// Add inserts a new todo
func (r *SQLiteTodoRepository) Add(ctx context.Context, todo model.Todo) (model.Todo, error) {
	err := r.withConn(ctx, func(conn *gorm.DB) error {
		return conn.Raw(insertTodo,
			todo.Title,
			todo.Description,
			boolToInt(todo.IsCompleted),
			formatTime(todo.CreatedAt),
		).Row().Scan(&todo.ID)
	})
	if err != nil {
		return model.Todo{}, r.fail(&StorageError{Op: "add", Title: todo.Title, Err: err})
	}

	return todo, nil
}

// GetByID returns a todo by ID
func (r *SQLiteTodoRepository) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	var todos []model.Todo
	err := r.withConn(ctx, func(conn *gorm.DB) error {
		var err error
		todos, err = queryTodos(conn, selectTodoByID, id)
		return err
	})
	if err != nil {
		return nil, r.fail(&StorageError{Op: "get", ID: id, Err: err})
	}

	if len(todos) == 0 {
		return nil, nil
	}
	return &todos[0], nil
}

// GetAll returns all todos
func (r *SQLiteTodoRepository) GetAll(ctx context.Context) ([]model.Todo, error) {
	return r.list(ctx, "get_all", selectAllTodos)
}

// GetCompleted returns completed todos
func (r *SQLiteTodoRepository) GetCompleted(ctx context.Context) ([]model.Todo, error) {
	return r.list(ctx, "get_completed", selectTodosByState, 1)
}

// GetPending returns pending todos
func (r *SQLiteTodoRepository) GetPending(ctx context.Context) ([]model.Todo, error) {
	return r.list(ctx, "get_pending", selectTodosByState, 0)
}

// Update overwrites the mutable fields of a todo
func (r *SQLiteTodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	err := r.withConn(ctx, func(conn *gorm.DB) error {
		return conn.Exec(updateTodo,
			todo.Title,
			todo.Description,
			boolToInt(todo.IsCompleted),
			todo.ID,
		).Error
	})
	if err != nil {
		return model.Todo{}, r.fail(&StorageError{Op: "update", ID: todo.ID, Err: err})
	}

	return todo, nil
}

// Delete removes a todo
func (r *SQLiteTodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.withConn(ctx, func(conn *gorm.DB) error {
		res := conn.Exec(deleteTodo, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, r.fail(&StorageError{Op: "delete", ID: id, Err: err})
	}

	return affected > 0, nil
}

// Exists checks whether a todo exists without loading it
func (r *SQLiteTodoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.withConn(ctx, func(conn *gorm.DB) error {
		return conn.Raw(countTodoByID, id).Row().Scan(&count)
	})
	if err != nil {
		return false, r.fail(&StorageError{Op: "exists", ID: id, Err: err})
	}

	return count > 0, nil
}

func (r *SQLiteTodoRepository) list(ctx context.Context, op, query string, args ...any) ([]model.Todo, error) {
	var todos []model.Todo
	err := r.withConn(ctx, func(conn *gorm.DB) error {
		var err error
		todos, err = queryTodos(conn, query, args...)
		return err
	})
	if err != nil {
		return nil, r.fail(&StorageError{Op: op, Err: err})
	}

	return todos, nil
}

// withConn runs fn on a dedicated connection that is returned to the pool
// when fn returns, whatever the outcome.
func (r *SQLiteTodoRepository) withConn(ctx context.Context, fn func(conn *gorm.DB) error) error {
	return r.db.WithContext(ctx).Connection(fn)
}

// fail logs a store fault with its context and returns it
func (r *SQLiteTodoRepository) fail(serr *StorageError) error {
	serr.Err = errors.WithStack(serr.Err)

	event := r.log.Error().Stack().Err(serr.Err).Str("op", serr.Op)
	if serr.ID != 0 {
		event = event.Int64("id", serr.ID)
	}
	if serr.Title != "" {
		event = event.Str("title", serr.Title)
	}
	event.Msg("todo store operation failed")

	return serr
}

func queryTodos(conn *gorm.DB, query string, args ...any) ([]model.Todo, error) {
	rows, err := conn.Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

func scanTodo(rows *sql.Rows) (model.Todo, error) {
	var (
		todo        model.Todo
		description sql.NullString
		completed   int64
		createdAt   string
	)

	if err := rows.Scan(&todo.ID, &todo.Title, &description, &completed, &createdAt); err != nil {
		return model.Todo{}, err
	}

	ts, err := parseTime(createdAt)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %d: %w", todo.ID, err)
	}

	if description.Valid {
		todo.Description = &description.String
	}
	todo.IsCompleted = completed == 1
	todo.CreatedAt = ts

	return todo, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// parseTime accepts TimeLayout and any other RFC 3339 encoding
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created at %q: %w", s, err)
	}
	return t, nil
}
