package service

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
)

// TodoItemService manages entries of todo lists.
type TodoItemService interface {
	// List returns one page of all items.
	List(ctx context.Context, page int) (model.Page[model.TodoItem], error)
	// Get loads an item.
	Get(ctx context.Context, id int64) (*model.TodoItem, error)
	// Save validates, derives the slug and stores the item.
	Save(ctx context.Context, it *model.TodoItem) error
	// Delete removes an item.
	Delete(ctx context.Context, id int64) error
	// Create attaches a new item to an existing todo. ErrNotFound if the todo is missing.
	Create(ctx context.Context, it *model.TodoItem, todoID int64) error
	// Parent loads the todo an item belongs to.
	Parent(ctx context.Context, it *model.TodoItem) (*model.Todo, error)
}

type TodoItemServiceImpl struct {
	items repository.TodoItemRepository
	todos repository.TodoRepository
}

// NewTodoItemService constructs TodoItemService.
func NewTodoItemService(items repository.TodoItemRepository, todos repository.TodoRepository) *TodoItemServiceImpl {
	return &TodoItemServiceImpl{items: items, todos: todos}
}

func (s *TodoItemServiceImpl) List(ctx context.Context, page int) (model.Page[model.TodoItem], error) {
	f := model.TodoItemFilter{}
	return paginate(ctx, page,
		func(ctx context.Context) (int, error) { return s.items.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]model.TodoItem, error) {
			return s.items.List(ctx, f, limit, offset)
		})
}

func (s *TodoItemServiceImpl) Get(ctx context.Context, id int64) (*model.TodoItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *TodoItemServiceImpl) Save(ctx context.Context, it *model.TodoItem) error {
	if err := model.ValidateTitle(it.Title); err != nil {
		return err
	}
	it.Slug = model.Slugify(it.Title)
	return s.items.Save(ctx, it)
}

func (s *TodoItemServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.items.Delete(ctx, id)
}

// Create resolves the todo before anything is written.
func (s *TodoItemServiceImpl) Create(ctx context.Context, it *model.TodoItem, todoID int64) error {
	todo, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		return err
	}
	it.ID = 0
	it.TodoID = todo.ID
	return s.Save(ctx, it)
}

func (s *TodoItemServiceImpl) Parent(ctx context.Context, it *model.TodoItem) (*model.Todo, error) {
	return s.todos.GetByID(ctx, it.TodoID)
}
