package service

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
)

// CategoryService manages the global category list.
type CategoryService interface {
	// List returns one page of categories, most recently updated first.
	List(ctx context.Context, page int) (model.Page[model.Category], error)
	// Notes returns one page of the viewer's notes filed under the category.
	Notes(ctx context.Context, page int, categoryID, viewerID int64) (model.Page[model.Note], error)
	// Get loads a category.
	Get(ctx context.Context, id int64) (*model.Category, error)
	// Save validates, derives the slug and stores the category.
	Save(ctx context.Context, c *model.Category) error
	// Delete removes a category that has no notes.
	Delete(ctx context.Context, id int64) error
	// CanBeDeleted reports whether no note references the category.
	CanBeDeleted(ctx context.Context, id int64) (bool, error)
}

type CategoryServiceImpl struct {
	categories repository.CategoryRepository
	notes      repository.NoteRepository
}

// NewCategoryService constructs CategoryService.
func NewCategoryService(categories repository.CategoryRepository, notes repository.NoteRepository) *CategoryServiceImpl {
	return &CategoryServiceImpl{categories: categories, notes: notes}
}

func (s *CategoryServiceImpl) List(ctx context.Context, page int) (model.Page[model.Category], error) {
	return paginate(ctx, page, s.categories.Count, s.categories.List)
}

func (s *CategoryServiceImpl) Notes(ctx context.Context, page int, categoryID, viewerID int64) (model.Page[model.Note], error) {
	f := model.NoteFilter{UserID: viewerID, CategoryID: categoryID}
	return paginate(ctx, page,
		func(ctx context.Context) (int, error) { return s.notes.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]model.Note, error) {
			return s.notes.List(ctx, f, limit, offset)
		})
}

func (s *CategoryServiceImpl) Get(ctx context.Context, id int64) (*model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CategoryServiceImpl) Save(ctx context.Context, c *model.Category) error {
	if err := model.ValidateTitle(c.Title); err != nil {
		return err
	}
	c.Slug = model.Slugify(c.Title)
	return s.categories.Save(ctx, c)
}

func (s *CategoryServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

func (s *CategoryServiceImpl) CanBeDeleted(ctx context.Context, id int64) (bool, error) {
	n, err := s.notes.CountByCategory(ctx, id)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
