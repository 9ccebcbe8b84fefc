package service

import (
	"context"
	"fmt"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
)

// TodoService manages todo lists.
type TodoService interface {
	// List returns one page of todos owned by ownerID (all todos when 0).
	List(ctx context.Context, page int, ownerID int64) (model.Page[model.Todo], error)
	// Items returns one page of the todo's items.
	Items(ctx context.Context, page int, todoID int64) (model.Page[model.TodoItem], error)
	// Get loads a todo.
	Get(ctx context.Context, id int64) (*model.Todo, error)
	// Save validates, derives the slug and stores the todo.
	Save(ctx context.Context, t *model.Todo) error
	// Delete removes a todo that has no items.
	Delete(ctx context.Context, id int64) error
	// CanBeDeleted reports whether the todo has no items.
	CanBeDeleted(ctx context.Context, id int64) (bool, error)
}

type TodoServiceImpl struct {
	todos repository.TodoRepository
	items repository.TodoItemRepository
}

// NewTodoService constructs TodoService.
func NewTodoService(todos repository.TodoRepository, items repository.TodoItemRepository) *TodoServiceImpl {
	return &TodoServiceImpl{todos: todos, items: items}
}

func (s *TodoServiceImpl) List(ctx context.Context, page int, ownerID int64) (model.Page[model.Todo], error) {
	f := model.TodoFilter{UserID: ownerID}
	return paginate(ctx, page,
		func(ctx context.Context) (int, error) { return s.todos.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]model.Todo, error) {
			return s.todos.List(ctx, f, limit, offset)
		})
}

func (s *TodoServiceImpl) Items(ctx context.Context, page int, todoID int64) (model.Page[model.TodoItem], error) {
	f := model.TodoItemFilter{TodoID: todoID}
	return paginate(ctx, page,
		func(ctx context.Context) (int, error) { return s.items.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]model.TodoItem, error) {
			return s.items.List(ctx, f, limit, offset)
		})
}

func (s *TodoServiceImpl) Get(ctx context.Context, id int64) (*model.Todo, error) {
	return s.todos.GetByID(ctx, id)
}

func (s *TodoServiceImpl) Save(ctx context.Context, t *model.Todo) error {
	if err := model.ValidateTitle(t.Title); err != nil {
		return err
	}
	if t.UserID == 0 {
		return errs.OnField("user_id", fmt.Errorf("%w: owner is required", errs.ErrValidation))
	}
	t.Slug = model.Slugify(t.Title)
	return s.todos.Save(ctx, t)
}

func (s *TodoServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.todos.Delete(ctx, id)
}

func (s *TodoServiceImpl) CanBeDeleted(ctx context.Context, id int64) (bool, error) {
	n, err := s.items.CountByTodo(ctx, id)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
