package httpapi

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/notekeeper/internal/authz"
	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/service"
)

var (
	alice = &model.User{ID: 1, FirstName: "Alice", Email: "alice@example.com", Roles: []string{model.RoleUser}}
	bob   = &model.User{ID: 2, FirstName: "Bob", Email: "bob@example.com", Roles: []string{model.RoleUser}}
	root  = &model.User{ID: 3, FirstName: "Root", Email: "root@example.com", Roles: []string{model.RoleUser, model.RoleAdmin}}
)

// fakeAuth resolves fixed bearer tokens to users.
type fakeAuth struct {
	mu        sync.Mutex
	tokens    map[string]*model.User
	users     map[int64]*model.User
	loginErr  error
	loginIP   string
	loggedOut []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		tokens: map[string]*model.User{"alice": alice, "bob": bob, "root": root},
		users:  map[int64]*model.User{1: clone(alice), 2: clone(bob), 3: clone(root)},
	}
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func (f *fakeAuth) Register(_ context.Context, in service.Registration) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == in.Email {
			return nil, errs.OnField("email", errs.ErrAlreadyExists)
		}
	}
	if len(in.Password) < service.PasswordMinLen {
		return nil, errs.OnField("password", errs.ErrValidation)
	}
	u := &model.User{ID: int64(len(f.users) + 1), FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Roles: []string{model.RoleUser}}
	f.users[u.ID] = u
	return clone(u), nil
}

func (f *fakeAuth) LoginWithIP(_ context.Context, email, _ string, ip string) (model.Tokens, model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginIP = ip
	if f.loginErr != nil {
		return model.Tokens{}, model.User{}, f.loginErr
	}
	for tok, u := range f.tokens {
		if u.Email == email {
			return model.Tokens{AccessToken: tok, ExpiresAt: time.Now().Add(time.Hour)}, *u, nil
		}
	}
	return model.Tokens{}, model.User{}, errs.ErrUnauthorized
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (authz.Principal, jwt.RegisteredClaims, error) {
	u, ok := f.tokens[token]
	if !ok {
		return authz.Principal{}, jwt.RegisteredClaims{}, errs.ErrUnauthorized
	}
	return authz.FromUser(u), jwt.RegisteredClaims{ID: "jti-" + token}, nil
}

func (f *fakeAuth) Logout(_ context.Context, claims jwt.RegisteredClaims) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, claims.ID)
	return nil
}

func (f *fakeAuth) Profile(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return clone(u), nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, id int64, first, last string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	u.FirstName, u.LastName = first, last
	return clone(u), nil
}

func (f *fakeAuth) EnsureAdmin(context.Context, service.Registration) (*model.User, error) {
	return clone(root), nil
}

// fakeStore backs every content service with maps.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	cats   map[int64]*model.Category
	notes  map[int64]*model.Note
	todos  map[int64]*model.Todo
	items  map[int64]*model.TodoItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID: 100,
		cats:   map[int64]*model.Category{},
		notes:  map[int64]*model.Note{},
		todos:  map[int64]*model.Todo{},
		items:  map[int64]*model.TodoItem{},
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func pageOf[T any](page int, all []T) model.Page[T] {
	p := model.Page[T]{Page: page, PerPage: service.PageSize, Total: len(all)}
	start := (page - 1) * service.PageSize
	if start < len(all) {
		end := min(start+service.PageSize, len(all))
		p.Items = all[start:end]
	}
	return p
}

func sortedValues[T any](m map[int64]*T, keep func(*T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m[id])
	}
	return out
}

type fakeCategories struct{ s *fakeStore }

func (f fakeCategories) List(_ context.Context, page int) (model.Page[model.Category], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return pageOf(page, sortedValues(f.s.cats, func(*model.Category) bool { return true })), nil
}

func (f fakeCategories) Notes(_ context.Context, page int, categoryID, viewerID int64) (model.Page[model.Note], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return pageOf(page, sortedValues(f.s.notes, func(n *model.Note) bool {
		return n.CategoryID == categoryID && n.UserID == viewerID
	})), nil
}

func (f fakeCategories) Get(_ context.Context, id int64) (*model.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.cats[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return clone(c), nil
}

func (f fakeCategories) Save(_ context.Context, c *model.Category) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := model.ValidateTitle(c.Title); err != nil {
		return err
	}
	if c.ID == 0 {
		c.ID = f.s.id()
	}
	c.Slug = model.Slugify(c.Title)
	f.s.cats[c.ID] = clone(c)
	return nil
}

func (f fakeCategories) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.cats, id)
	return nil
}

func (f fakeCategories) CanBeDeleted(_ context.Context, id int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, n := range f.s.notes {
		if n.CategoryID == id {
			return false, nil
		}
	}
	return true, nil
}

type fakeNotes struct{ s *fakeStore }

func (f fakeNotes) List(_ context.Context, page int, ownerID int64) (model.Page[model.Note], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return pageOf(page, sortedValues(f.s.notes, func(n *model.Note) bool { return n.UserID == ownerID })), nil
}

func (f fakeNotes) Get(_ context.Context, id int64) (*model.Note, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	n, ok := f.s.notes[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return clone(n), nil
}

func (f fakeNotes) Save(_ context.Context, n *model.Note) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := model.ValidateTitle(n.Title); err != nil {
		return err
	}
	if _, ok := f.s.cats[n.CategoryID]; !ok {
		return errs.OnField("category_id", errs.ErrNotFound)
	}
	if n.ID == 0 {
		n.ID = f.s.id()
	}
	n.Slug = model.Slugify(n.Title)
	f.s.notes[n.ID] = clone(n)
	return nil
}

func (f fakeNotes) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.notes[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.s.notes, id)
	return nil
}

type fakeTodos struct{ s *fakeStore }

func (f fakeTodos) List(_ context.Context, page int, ownerID int64) (model.Page[model.Todo], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return pageOf(page, sortedValues(f.s.todos, func(t *model.Todo) bool { return t.UserID == ownerID })), nil
}

func (f fakeTodos) Items(_ context.Context, page int, todoID int64) (model.Page[model.TodoItem], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return pageOf(page, sortedValues(f.s.items, func(it *model.TodoItem) bool { return it.TodoID == todoID })), nil
}

func (f fakeTodos) Get(_ context.Context, id int64) (*model.Todo, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.todos[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return clone(t), nil
}

func (f fakeTodos) Save(_ context.Context, t *model.Todo) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := model.ValidateTitle(t.Title); err != nil {
		return err
	}
	if t.ID == 0 {
		t.ID = f.s.id()
	}
	t.Slug = model.Slugify(t.Title)
	f.s.todos[t.ID] = clone(t)
	return nil
}

func (f fakeTodos) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.todos, id)
	return nil
}

func (f fakeTodos) CanBeDeleted(_ context.Context, id int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, it := range f.s.items {
		if it.TodoID == id {
			return false, nil
		}
	}
	return true, nil
}

type fakeItems struct{ s *fakeStore }

func (f fakeItems) List(_ context.Context, page int) (model.Page[model.TodoItem], error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return pageOf(page, sortedValues(f.s.items, func(*model.TodoItem) bool { return true })), nil
}

func (f fakeItems) Get(_ context.Context, id int64) (*model.TodoItem, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	it, ok := f.s.items[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return clone(it), nil
}

func (f fakeItems) Save(_ context.Context, it *model.TodoItem) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := model.ValidateTitle(it.Title); err != nil {
		return err
	}
	if _, ok := f.s.todos[it.TodoID]; !ok {
		return errs.OnField("todo_id", errs.ErrNotFound)
	}
	if it.ID == 0 {
		it.ID = f.s.id()
	}
	it.Slug = model.Slugify(it.Title)
	f.s.items[it.ID] = clone(it)
	return nil
}

func (f fakeItems) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.items, id)
	return nil
}

func (f fakeItems) Create(ctx context.Context, it *model.TodoItem, todoID int64) error {
	it.ID, it.TodoID = 0, todoID
	return f.Save(ctx, it)
}

func (f fakeItems) Parent(_ context.Context, it *model.TodoItem) (*model.Todo, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.todos[it.TodoID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return clone(t), nil
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
