package postgres

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

// TodoItemRepo implements TodoItemRepository using PostgreSQL.
type TodoItemRepo struct{ db *DB }

// NewTodoItemRepo constructs a todo item repository.
func NewTodoItemRepo(db *DB) *TodoItemRepo { return &TodoItemRepo{db: db} }

// List returns items matching f, most recently updated first.
func (r *TodoItemRepo) List(ctx context.Context, f model.TodoItemFilter, limit, offset int) ([]model.TodoItem, error) {
	const q = `
SELECT id, title, slug, is_done, todo_id, created_at, updated_at
FROM todo_items
WHERE ($1::bigint = 0 OR todo_id = $1)
ORDER BY updated_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, q, f.TodoID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TodoItem{}
	for rows.Next() {
		var it model.TodoItem
		if err = rows.Scan(&it.ID, &it.Title, &it.Slug, &it.IsDone, &it.TodoID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Count returns the number of items matching f.
func (r *TodoItemRepo) Count(ctx context.Context, f model.TodoItemFilter) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM todo_items WHERE ($1::bigint = 0 OR todo_id = $1)`, f.TodoID)
}

// CountByTodo returns how many items reference the todo.
func (r *TodoItemRepo) CountByTodo(ctx context.Context, todoID int64) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM todo_items WHERE todo_id=$1`, todoID)
}

// GetByID returns a single item.
func (r *TodoItemRepo) GetByID(ctx context.Context, id int64) (*model.TodoItem, error) {
	const q = `SELECT id, title, slug, is_done, todo_id, created_at, updated_at FROM todo_items WHERE id=$1`
	var it model.TodoItem
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&it.ID, &it.Title, &it.Slug, &it.IsDone, &it.TodoID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, readErr(err)
	}
	return &it, nil
}

// Save inserts or updates an item. Items never move between todos.
func (r *TodoItemRepo) Save(ctx context.Context, it *model.TodoItem) error {
	if it.ID == 0 {
		const ins = `
INSERT INTO todo_items (title, slug, is_done, todo_id) VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at`
		err := r.db.Pool.QueryRow(ctx, ins, it.Title, it.Slug, it.IsDone, it.TodoID).
			Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
		return writeErr(err, "title", "todo_id")
	}
	const upd = `
UPDATE todo_items SET title=$2, slug=$3, is_done=$4, updated_at=now()
WHERE id=$1
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, upd, it.ID, it.Title, it.Slug, it.IsDone).Scan(&it.CreatedAt, &it.UpdatedAt)
	return writeErr(err, "title", "todo_id")
}

// Delete removes an item.
func (r *TodoItemRepo) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, `DELETE FROM todo_items WHERE id=$1`, "", id)
}
