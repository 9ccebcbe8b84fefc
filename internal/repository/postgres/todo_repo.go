package postgres

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

// TodoRepo implements TodoRepository using PostgreSQL.
type TodoRepo struct{ db *DB }

// NewTodoRepo constructs a todo repository.
func NewTodoRepo(db *DB) *TodoRepo { return &TodoRepo{db: db} }

// List returns todos matching f, most recently updated first.
func (r *TodoRepo) List(ctx context.Context, f model.TodoFilter, limit, offset int) ([]model.Todo, error) {
	const q = `
SELECT id, title, slug, user_id, created_at, updated_at
FROM todos
WHERE ($1::bigint = 0 OR user_id = $1)
ORDER BY updated_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, q, f.UserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err = rows.Scan(&t.ID, &t.Title, &t.Slug, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the number of todos matching f.
func (r *TodoRepo) Count(ctx context.Context, f model.TodoFilter) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM todos WHERE ($1::bigint = 0 OR user_id = $1)`, f.UserID)
}

// GetByID returns a single todo.
func (r *TodoRepo) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	const q = `SELECT id, title, slug, user_id, created_at, updated_at FROM todos WHERE id=$1`
	var t model.Todo
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&t.ID, &t.Title, &t.Slug, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, readErr(err)
	}
	return &t, nil
}

// Save inserts or updates a todo.
func (r *TodoRepo) Save(ctx context.Context, t *model.Todo) error {
	if t.ID == 0 {
		const ins = `
INSERT INTO todos (title, slug, user_id) VALUES ($1, $2, $3)
RETURNING id, created_at, updated_at`
		err := r.db.Pool.QueryRow(ctx, ins, t.Title, t.Slug, t.UserID).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
		return writeErr(err, "title", "user_id")
	}
	const upd = `
UPDATE todos SET title=$2, slug=$3, updated_at=now()
WHERE id=$1
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, upd, t.ID, t.Title, t.Slug).Scan(&t.CreatedAt, &t.UpdatedAt)
	return writeErr(err, "title", "user_id")
}

// Delete removes a todo that has no items.
func (r *TodoRepo) Delete(ctx context.Context, id int64) error {
	const del = `
DELETE FROM todos
WHERE id=$1 AND NOT EXISTS (SELECT 1 FROM todo_items WHERE todo_id=$1)`
	const exists = `SELECT EXISTS(SELECT 1 FROM todos WHERE id=$1)`
	return deleteRow(ctx, r.db, del, exists, id)
}
