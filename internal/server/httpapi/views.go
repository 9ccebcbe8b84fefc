package httpapi

import (
	"time"

	"github.com/and161185/notekeeper/internal/model"
)

type userView struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserView(u *model.User) userView {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userView{
		ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email,
		Roles: roles, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

type categoryView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryView(c model.Category) categoryView {
	return categoryView{ID: c.ID, Title: c.Title, Slug: c.Slug, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

type noteView struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Slug       string    `json:"slug"`
	CategoryID int64     `json:"category_id"`
	UserID     int64     `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toNoteView(n model.Note) noteView {
	return noteView{
		ID: n.ID, Title: n.Title, Content: n.Content, Slug: n.Slug,
		CategoryID: n.CategoryID, UserID: n.UserID, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt,
	}
}

type todoView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTodoView(t model.Todo) todoView {
	return todoView{ID: t.ID, Title: t.Title, Slug: t.Slug, UserID: t.UserID, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

type todoItemView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	IsDone    bool      `json:"is_done"`
	TodoID    int64     `json:"todo_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTodoItemView(it model.TodoItem) todoItemView {
	return todoItemView{
		ID: it.ID, Title: it.Title, Slug: it.Slug, IsDone: it.IsDone,
		TodoID: it.TodoID, CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt,
	}
}

type pageView[V any] struct {
	Items      []V  `json:"items"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

func toPageView[E, V any](p model.Page[E], conv func(E) V) pageView[V] {
	items := make([]V, 0, len(p.Items))
	for _, e := range p.Items {
		items = append(items, conv(e))
	}
	return pageView[V]{
		Items: items, Page: p.Page, PerPage: p.PerPage, Total: p.Total,
		TotalPages: p.TotalPages(), HasNext: p.HasNext(),
	}
}
