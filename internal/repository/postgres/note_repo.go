package postgres

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

// NoteRepo implements NoteRepository using PostgreSQL.
type NoteRepo struct{ db *DB }

// NewNoteRepo constructs a note repository.
func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

const noteColumns = `id, title, content, slug, category_id, user_id, created_at, updated_at`

// List returns notes matching f, most recently updated first.
// Zero filter fields are not applied.
func (r *NoteRepo) List(ctx context.Context, f model.NoteFilter, limit, offset int) ([]model.Note, error) {
	const q = `
SELECT ` + noteColumns + `
FROM notes
WHERE ($1::bigint = 0 OR user_id = $1) AND ($2::bigint = 0 OR category_id = $2)
ORDER BY updated_at DESC, id DESC
LIMIT $3 OFFSET $4`
	rows, err := r.db.Pool.Query(ctx, q, f.UserID, f.CategoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err = rows.Scan(&n.ID, &n.Title, &n.Content, &n.Slug, &n.CategoryID, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Count returns the number of notes matching f.
func (r *NoteRepo) Count(ctx context.Context, f model.NoteFilter) (int, error) {
	const q = `
SELECT COUNT(*) FROM notes
WHERE ($1::bigint = 0 OR user_id = $1) AND ($2::bigint = 0 OR category_id = $2)`
	return countRows(ctx, r.db, q, f.UserID, f.CategoryID)
}

// CountByCategory returns how many notes reference the category.
func (r *NoteRepo) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM notes WHERE category_id=$1`, categoryID)
}

// GetByID returns a single note.
func (r *NoteRepo) GetByID(ctx context.Context, id int64) (*model.Note, error) {
	const q = `SELECT ` + noteColumns + ` FROM notes WHERE id=$1`
	var n model.Note
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&n.ID, &n.Title, &n.Content, &n.Slug, &n.CategoryID, &n.UserID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, readErr(err)
	}
	return &n, nil
}

// Save inserts or updates a note. The owner is fixed at insert time.
func (r *NoteRepo) Save(ctx context.Context, n *model.Note) error {
	if n.ID == 0 {
		const ins = `
INSERT INTO notes (title, content, slug, category_id, user_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`
		err := r.db.Pool.QueryRow(ctx, ins, n.Title, n.Content, n.Slug, n.CategoryID, n.UserID).
			Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
		return writeErr(err, "title", "category_id")
	}
	const upd = `
UPDATE notes SET title=$2, content=$3, slug=$4, category_id=$5, updated_at=now()
WHERE id=$1
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, upd, n.ID, n.Title, n.Content, n.Slug, n.CategoryID).
		Scan(&n.CreatedAt, &n.UpdatedAt)
	return writeErr(err, "title", "category_id")
}

// Delete removes a note.
func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, `DELETE FROM notes WHERE id=$1`, "", id)
}
