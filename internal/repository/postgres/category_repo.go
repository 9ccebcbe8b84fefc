package postgres

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

// CategoryRepo implements CategoryRepository using PostgreSQL.
type CategoryRepo struct{ db *DB }

// NewCategoryRepo constructs a category repository.
func NewCategoryRepo(db *DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns a window of categories, most recently updated first.
func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]model.Category, error) {
	const q = `
SELECT id, title, slug, created_at, updated_at
FROM categories
ORDER BY updated_at DESC, id DESC
LIMIT $1 OFFSET $2`
	rows, err := r.db.Pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err = rows.Scan(&c.ID, &c.Title, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the total number of categories.
func (r *CategoryRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM categories`)
}

// GetByID returns a single category.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	const q = `SELECT id, title, slug, created_at, updated_at FROM categories WHERE id=$1`
	var c model.Category
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Title, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, readErr(err)
	}
	return &c, nil
}

// Save inserts or updates a category; CreatedAt is only ever set by the insert.
func (r *CategoryRepo) Save(ctx context.Context, c *model.Category) error {
	if c.ID == 0 {
		const ins = `
INSERT INTO categories (title, slug) VALUES ($1, $2)
RETURNING id, created_at, updated_at`
		err := r.db.Pool.QueryRow(ctx, ins, c.Title, c.Slug).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		return writeErr(err, "title", "")
	}
	const upd = `
UPDATE categories SET title=$2, slug=$3, updated_at=now()
WHERE id=$1
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, upd, c.ID, c.Title, c.Slug).Scan(&c.CreatedAt, &c.UpdatedAt)
	return writeErr(err, "title", "")
}

// Delete removes a category that no note references.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	const del = `
DELETE FROM categories
WHERE id=$1 AND NOT EXISTS (SELECT 1 FROM notes WHERE category_id=$1)`
	const exists = `SELECT EXISTS(SELECT 1 FROM categories WHERE id=$1)`
	return deleteRow(ctx, r.db, del, exists, id)
}
