package repository

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

// CategoryRepository stores note categories.
type CategoryRepository interface {
	// List returns categories ordered by updated_at DESC.
	List(ctx context.Context, limit, offset int) ([]model.Category, error)
	// Count returns the number of categories.
	Count(ctx context.Context) (int, error)
	// GetByID loads a category by ID.
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	// Save inserts (ID == 0) or updates the category.
	Save(ctx context.Context, c *model.Category) error
	// Delete removes the category unless notes still reference it.
	Delete(ctx context.Context, id int64) error
}

// NoteRepository stores notes.
type NoteRepository interface {
	// List returns notes matching f ordered by updated_at DESC.
	List(ctx context.Context, f model.NoteFilter, limit, offset int) ([]model.Note, error)
	// Count returns the number of notes matching f.
	Count(ctx context.Context, f model.NoteFilter) (int, error)
	// CountByCategory returns how many notes reference the category.
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
	// GetByID loads a note by ID.
	GetByID(ctx context.Context, id int64) (*model.Note, error)
	// Save inserts (ID == 0) or updates the note.
	Save(ctx context.Context, n *model.Note) error
	// Delete removes the note.
	Delete(ctx context.Context, id int64) error
}
