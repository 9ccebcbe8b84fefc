package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/limiter"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
)

// memStore is an in-memory database shared by the fake repositories. It
// enforces unique titles/emails, foreign keys and the parent deletion guard.
type memStore struct {
	mu     sync.Mutex
	clock  time.Time
	nextID int64

	users      map[int64]model.User
	categories map[int64]model.Category
	notes      map[int64]model.Note
	todos      map[int64]model.Todo
	items      map[int64]model.TodoItem

	listCalls int
	countErr  error
}

func newMemStore() *memStore {
	return &memStore{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[int64]model.User{},
		categories: map[int64]model.Category{},
		notes:      map[int64]model.Note{},
		todos:      map[int64]model.Todo{},
		items:      map[int64]model.TodoItem{},
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// window orders by updated desc, id desc and cuts [offset, offset+limit).
func window[T any](all []T, key func(T) (time.Time, int64), limit, offset int) []T {
	sort.Slice(all, func(i, j int) bool {
		ui, ii := key(all[i])
		uj, ij := key(all[j])
		if !ui.Equal(uj) {
			return ui.After(uj)
		}
		return ii > ij
	})
	if offset >= len(all) {
		return []T{}
	}
	end := min(offset+limit, len(all))
	return all[offset:end]
}

type memCategories struct{ *memStore }
type memNotes struct{ *memStore }
type memTodos struct{ *memStore }
type memItems struct{ *memStore }
type memUsers struct{ *memStore }

var (
	_ repository.CategoryRepository = memCategories{}
	_ repository.NoteRepository     = memNotes{}
	_ repository.TodoRepository     = memTodos{}
	_ repository.TodoItemRepository = memItems{}
	_ repository.UserRepository     = memUsers{}
)

/************ categories ************/

func (r memCategories) List(_ context.Context, limit, offset int) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var all []model.Category
	for _, c := range r.categories {
		all = append(all, c)
	}
	return window(all, func(c model.Category) (time.Time, int64) { return c.UpdatedAt, c.ID }, limit, offset), nil
}

func (r memCategories) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return len(r.categories), nil
}

func (r memCategories) GetByID(_ context.Context, id int64) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}

func (r memCategories) Save(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.categories {
		if o.Title == c.Title && o.ID != c.ID {
			return errs.OnField("title", errs.ErrAlreadyExists)
		}
	}
	now := r.tick()
	if c.ID == 0 {
		c.ID, c.CreatedAt = r.id(), now
	} else if old, ok := r.categories[c.ID]; ok {
		c.CreatedAt = old.CreatedAt
	} else {
		return errs.ErrNotFound
	}
	c.UpdatedAt = now
	r.categories[c.ID] = *c
	return nil
}

func (r memCategories) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return errs.ErrNotFound
	}
	for _, n := range r.notes {
		if n.CategoryID == id {
			return errs.ErrHasDependents
		}
	}
	delete(r.categories, id)
	return nil
}

/************ notes ************/

func noteMatches(n model.Note, f model.NoteFilter) bool {
	return (f.UserID == 0 || n.UserID == f.UserID) && (f.CategoryID == 0 || n.CategoryID == f.CategoryID)
}

func (r memNotes) List(_ context.Context, f model.NoteFilter, limit, offset int) ([]model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var all []model.Note
	for _, n := range r.notes {
		if noteMatches(n, f) {
			all = append(all, n)
		}
	}
	return window(all, func(n model.Note) (time.Time, int64) { return n.UpdatedAt, n.ID }, limit, offset), nil
}

func (r memNotes) Count(_ context.Context, f model.NoteFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	n := 0
	for _, note := range r.notes {
		if noteMatches(note, f) {
			n++
		}
	}
	return n, nil
}

func (r memNotes) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	return r.Count(ctx, model.NoteFilter{CategoryID: categoryID})
}

func (r memNotes) GetByID(_ context.Context, id int64) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &n, nil
}

func (r memNotes) Save(_ context.Context, n *model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.notes {
		if o.Title == n.Title && o.ID != n.ID {
			return errs.OnField("title", errs.ErrAlreadyExists)
		}
	}
	if _, ok := r.categories[n.CategoryID]; !ok {
		return errs.OnField("category_id", errs.ErrNotFound)
	}
	now := r.tick()
	if n.ID == 0 {
		n.ID, n.CreatedAt = r.id(), now
	} else if old, ok := r.notes[n.ID]; ok {
		n.CreatedAt, n.UserID = old.CreatedAt, old.UserID
	} else {
		return errs.ErrNotFound
	}
	n.UpdatedAt = now
	r.notes[n.ID] = *n
	return nil
}

func (r memNotes) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

/************ todos ************/

func (r memTodos) List(_ context.Context, f model.TodoFilter, limit, offset int) ([]model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var all []model.Todo
	for _, t := range r.todos {
		if f.UserID == 0 || t.UserID == f.UserID {
			all = append(all, t)
		}
	}
	return window(all, func(t model.Todo) (time.Time, int64) { return t.UpdatedAt, t.ID }, limit, offset), nil
}

func (r memTodos) Count(_ context.Context, f model.TodoFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.todos {
		if f.UserID == 0 || t.UserID == f.UserID {
			n++
		}
	}
	return n, nil
}

func (r memTodos) GetByID(_ context.Context, id int64) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &t, nil
}

func (r memTodos) Save(_ context.Context, t *model.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.todos {
		if o.Title == t.Title && o.ID != t.ID {
			return errs.OnField("title", errs.ErrAlreadyExists)
		}
	}
	now := r.tick()
	if t.ID == 0 {
		t.ID, t.CreatedAt = r.id(), now
	} else if old, ok := r.todos[t.ID]; ok {
		t.CreatedAt, t.UserID = old.CreatedAt, old.UserID
	} else {
		return errs.ErrNotFound
	}
	t.UpdatedAt = now
	r.todos[t.ID] = *t
	return nil
}

func (r memTodos) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return errs.ErrNotFound
	}
	for _, it := range r.items {
		if it.TodoID == id {
			return errs.ErrHasDependents
		}
	}
	delete(r.todos, id)
	return nil
}

/************ todo items ************/

func (r memItems) List(_ context.Context, f model.TodoItemFilter, limit, offset int) ([]model.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var all []model.TodoItem
	for _, it := range r.items {
		if f.TodoID == 0 || it.TodoID == f.TodoID {
			all = append(all, it)
		}
	}
	return window(all, func(it model.TodoItem) (time.Time, int64) { return it.UpdatedAt, it.ID }, limit, offset), nil
}

func (r memItems) Count(_ context.Context, f model.TodoItemFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if f.TodoID == 0 || it.TodoID == f.TodoID {
			n++
		}
	}
	return n, nil
}

func (r memItems) CountByTodo(ctx context.Context, todoID int64) (int, error) {
	return r.Count(ctx, model.TodoItemFilter{TodoID: todoID})
}

func (r memItems) GetByID(_ context.Context, id int64) (*model.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &it, nil
}

func (r memItems) Save(_ context.Context, it *model.TodoItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[it.TodoID]; !ok {
		return errs.OnField("todo_id", errs.ErrNotFound)
	}
	now := r.tick()
	if it.ID == 0 {
		it.ID, it.CreatedAt = r.id(), now
	} else if old, ok := r.items[it.ID]; ok {
		it.CreatedAt, it.TodoID = old.CreatedAt, old.TodoID
	} else {
		return errs.ErrNotFound
	}
	it.UpdatedAt = now
	r.items[it.ID] = *it
	return nil
}

func (r memItems) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

/************ users ************/

func (r memUsers) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.users {
		if o.Email == u.Email {
			return errs.OnField("email", errs.ErrAlreadyExists)
		}
	}
	now := r.tick()
	u.ID, u.CreatedAt, u.UpdatedAt = r.id(), now, now
	cpy := *u
	cpy.Roles = append([]string(nil), u.Roles...)
	r.users[u.ID] = cpy
	return nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	u.Roles = append([]string(nil), u.Roles...)
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.Roles = append([]string(nil), u.Roles...)
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r memUsers) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.users[u.ID]
	if !ok {
		return errs.ErrNotFound
	}
	old.FirstName, old.LastName = u.FirstName, u.LastName
	old.Roles = append([]string(nil), u.Roles...)
	old.UpdatedAt = r.tick()
	u.UpdatedAt = old.UpdatedAt
	r.users[u.ID] = old
	return nil
}

/************ limiter / revoker ************/

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}

type fakeRevoker struct {
	revoked map[string]time.Time
	err     error
}

var _ TokenRevoker = (*fakeRevoker)(nil)

func (f *fakeRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[jti] = until
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

var errBoom = errors.New("boom")
