package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
)

// NoteService manages notes. Ownership checks belong to the caller.
type NoteService interface {
	// List returns one page of notes owned by ownerID (all notes when 0).
	List(ctx context.Context, page int, ownerID int64) (model.Page[model.Note], error)
	// Get loads a note.
	Get(ctx context.Context, id int64) (*model.Note, error)
	// Save validates the note, resolves its category and stores it.
	Save(ctx context.Context, n *model.Note) error
	// Delete removes a note.
	Delete(ctx context.Context, id int64) error
}

type NoteServiceImpl struct {
	notes      repository.NoteRepository
	categories repository.CategoryRepository
}

// NewNoteService constructs NoteService.
func NewNoteService(notes repository.NoteRepository, categories repository.CategoryRepository) *NoteServiceImpl {
	return &NoteServiceImpl{notes: notes, categories: categories}
}

func (s *NoteServiceImpl) List(ctx context.Context, page int, ownerID int64) (model.Page[model.Note], error) {
	f := model.NoteFilter{UserID: ownerID}
	return paginate(ctx, page,
		func(ctx context.Context) (int, error) { return s.notes.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]model.Note, error) {
			return s.notes.List(ctx, f, limit, offset)
		})
}

func (s *NoteServiceImpl) Get(ctx context.Context, id int64) (*model.Note, error) {
	return s.notes.GetByID(ctx, id)
}

// Save requires a resolvable category and a set owner.
func (s *NoteServiceImpl) Save(ctx context.Context, n *model.Note) error {
	if err := model.ValidateTitle(n.Title); err != nil {
		return err
	}
	if strings.TrimSpace(n.Content) == "" {
		return errs.OnField("content", fmt.Errorf("%w: must not be blank", errs.ErrValidation))
	}
	if n.UserID == 0 {
		return errs.OnField("user_id", fmt.Errorf("%w: owner is required", errs.ErrValidation))
	}
	if _, err := s.categories.GetByID(ctx, n.CategoryID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.OnField("category_id", errs.ErrNotFound)
		}
		return err
	}
	n.Slug = model.Slugify(n.Title)
	return s.notes.Save(ctx, n)
}

func (s *NoteServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.notes.Delete(ctx, id)
}
