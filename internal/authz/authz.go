// Package authz decides whether a principal may act on an owned resource.
//
// Every owned resource resolves to the ID of the user that owns it. Notes and
// todos carry the owner directly, todo items inherit it from their todo, and
// a user owns their own profile. Access is granted only to the owner.
package authz

import (
	"slices"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
)

// Capability is an action checked against a resource.
type Capability string

const (
	View   Capability = "VIEW"
	Edit   Capability = "EDIT"
	Delete Capability = "DELETE"
)

// Kind names the resource type a voter is responsible for.
type Kind string

const (
	KindNote     Kind = "note"
	KindTodo     Kind = "todo"
	KindTodoItem Kind = "todo_item"
	KindUser     Kind = "user"
)

// supported lists the capabilities each kind answers. Anything else is denied.
var supported = map[Kind][]Capability{
	KindNote:     {View, Edit, Delete},
	KindTodo:     {View, Edit, Delete},
	KindTodoItem: {View, Edit, Delete},
	KindUser:     {View, Edit},
}

// Principal is the acting user. The zero value is anonymous.
type Principal struct {
	UserID int64
	Roles  []string
}

// FromUser builds a principal for an authenticated user.
func FromUser(u *model.User) Principal {
	if u == nil {
		return Principal{}
	}
	return Principal{UserID: u.ID, Roles: u.Roles}
}

// Anonymous reports whether no user is authenticated.
func (p Principal) Anonymous() bool { return p.UserID == 0 }

// HasRole reports whether p holds role; authenticated principals always hold ROLE_USER.
func (p Principal) HasRole(role string) bool {
	if p.Anonymous() {
		return false
	}
	if role == model.RoleUser {
		return true
	}
	return slices.Contains(p.Roles, role)
}

// Resource is an owned target of an authorization check.
type Resource struct {
	kind  Kind
	owner func() int64
}

// Kind returns the resource kind.
func (r Resource) Kind() Kind { return r.kind }

// NoteResource wraps a note; its owner is the note's user.
func NoteResource(n *model.Note) Resource {
	return Resource{kind: KindNote, owner: func() int64 {
		if n == nil {
			return 0
		}
		return n.UserID
	}}
}

// TodoResource wraps a todo; its owner is the todo's user.
func TodoResource(t *model.Todo) Resource {
	return Resource{kind: KindTodo, owner: func() int64 {
		if t == nil {
			return 0
		}
		return t.UserID
	}}
}

// TodoItemResource wraps an item together with its todo. The item is owned by
// whoever owns the todo; a parent that does not match the item owns nothing.
func TodoItemResource(it *model.TodoItem, parent *model.Todo) Resource {
	return Resource{kind: KindTodoItem, owner: func() int64 {
		if it == nil || parent == nil || parent.ID != it.TodoID {
			return 0
		}
		return parent.UserID
	}}
}

// UserResource wraps a user profile, owned by that user.
func UserResource(u *model.User) Resource {
	return Resource{kind: KindUser, owner: func() int64 {
		if u == nil {
			return 0
		}
		return u.ID
	}}
}

// Can reports whether p may perform c on r.
func Can(p Principal, c Capability, r Resource) bool {
	if p.Anonymous() || r.owner == nil {
		return false
	}
	if !slices.Contains(supported[r.kind], c) {
		return false
	}
	owner := r.owner()
	return owner != 0 && owner == p.UserID
}

// Check is Can expressed as an error: ErrUnauthorized for anonymous callers,
// ErrForbidden for everyone else who is denied.
func Check(p Principal, c Capability, r Resource) error {
	if p.Anonymous() {
		return errs.ErrUnauthorized
	}
	if !Can(p, c, r) {
		return errs.ErrForbidden
	}
	return nil
}

// RequireRole fails unless p is authenticated and holds role.
func RequireRole(p Principal, role string) error {
	if p.Anonymous() {
		return errs.ErrUnauthorized
	}
	if !p.HasRole(role) {
		return errs.ErrForbidden
	}
	return nil
}
