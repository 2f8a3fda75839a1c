// package model contains the data models for the todo application
package model

import (
	"time"
)

// Todo is the persisted todo entity
type Todo struct {
	ID          int64
	Title       string
	Description *string
	IsCompleted bool
	CreatedAt   time.Time
}

// CreateTodoRequest is used when creating a new todo item
type CreateTodoRequest struct {
	Title       string  `json:"title" validate:"notblank,max=200" doc:"Title of the todo item" example:"Buy milk"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000" doc:"Detailed description of the todo item" example:"2%, one gallon"`
	IsCompleted bool    `json:"isCompleted,omitempty" doc:"Whether the todo item is already completed" example:"false"`
}

// UpdateTodoRequest replaces all mutable fields of an existing todo item
type UpdateTodoRequest struct {
	Title       string  `json:"title" validate:"notblank,max=200" doc:"Title of the todo item" example:"Buy milk"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000" doc:"Detailed description of the todo item" example:"2%"`
	IsCompleted bool    `json:"isCompleted" doc:"Whether the todo item is completed" example:"true"`
}

// TodoView is the externally visible projection of a todo item
type TodoView struct {
	ID          int64     `json:"id" doc:"Store-assigned identifier of the todo item" example:"1"`
	Title       string    `json:"title" doc:"Title of the todo item" example:"Buy milk"`
	Description *string   `json:"description" doc:"Detailed description of the todo item" example:"2%"`
	IsCompleted bool      `json:"isCompleted" doc:"Whether the todo item is completed" example:"false"`
	CreatedAt   time.Time `json:"createdAt" doc:"When the todo item was created" example:"2024-01-01T12:00:00Z"`
}

// DeleteResponse confirms a successful deletion
type DeleteResponse struct {
	Message string `json:"message" doc:"Confirmation message" example:"Todo deleted successfully"`
}

// HealthResponse reports the availability of the service
type HealthResponse struct {
	Status string `json:"status" doc:"Service status" example:"ok" enum:"ok,unavailable"`
}
