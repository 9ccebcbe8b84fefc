package repository

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

// TodoRepository stores todo lists.
type TodoRepository interface {
	// List returns todos matching f ordered by updated_at DESC.
	List(ctx context.Context, f model.TodoFilter, limit, offset int) ([]model.Todo, error)
	// Count returns the number of todos matching f.
	Count(ctx context.Context, f model.TodoFilter) (int, error)
	// GetByID loads a todo by ID.
	GetByID(ctx context.Context, id int64) (*model.Todo, error)
	// Save inserts (ID == 0) or updates the todo.
	Save(ctx context.Context, t *model.Todo) error
	// Delete removes the todo unless items still reference it.
	Delete(ctx context.Context, id int64) error
}

// TodoItemRepository stores todo items.
type TodoItemRepository interface {
	// List returns items matching f ordered by updated_at DESC.
	List(ctx context.Context, f model.TodoItemFilter, limit, offset int) ([]model.TodoItem, error)
	// Count returns the number of items matching f.
	Count(ctx context.Context, f model.TodoItemFilter) (int, error)
	// CountByTodo returns how many items reference the todo.
	CountByTodo(ctx context.Context, todoID int64) (int, error)
	// GetByID loads an item by ID.
	GetByID(ctx context.Context, id int64) (*model.TodoItem, error)
	// Save inserts (ID == 0) or updates the item.
	Save(ctx context.Context, it *model.TodoItem) error
	// Delete removes the item.
	Delete(ctx context.Context, id int64) error
}
