// Package model defines domain entities used by services and repositories.
package model

import (
	"slices"
	"time"
)

// Roles a user can hold.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Tokens collects an issued access token.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// User is an account. Users are never deleted.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string // unique
	Roles        []string
	PasswordHash string // encoded argon2id, see internal/crypto
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user holds role. Every stored user implicitly holds RoleUser.
func (u *User) HasRole(role string) bool {
	if role == RoleUser {
		return true
	}
	return slices.Contains(u.Roles, role)
}

// Category groups notes. Categories are global, not owned.
type Category struct {
	ID        int64
	Title     string // unique
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note belongs to exactly one category and one user (its owner).
type Note struct {
	ID         int64
	Title      string // unique
	Content    string
	Slug       string
	CategoryID int64 // FK -> categories.id
	UserID     int64 // FK -> users.id
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Todo is a to-do list owned by a user.
type Todo struct {
	ID        int64
	Title     string // unique
	Slug      string
	UserID    int64 // FK -> users.id
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoItem is an entry of a todo list. It has no owner of its own.
type TodoItem struct {
	ID        int64
	Title     string
	Slug      string
	IsDone    bool
	TodoID    int64 // FK -> todos.id
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteFilter narrows note listings. Zero fields do not constrain.
type NoteFilter struct {
	UserID     int64
	CategoryID int64
}

// TodoFilter narrows todo listings.
type TodoFilter struct {
	UserID int64
}

// TodoItemFilter narrows todo item listings.
type TodoItemFilter struct {
	TodoID int64
}
