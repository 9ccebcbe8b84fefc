package postgres

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (first_name, last_name, email, roles, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, q, u.FirstName, u.LastName, u.Email, u.Roles, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return writeErr(err, "email", "")
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `
SELECT id, first_name, last_name, email, roles, password_hash, created_at, updated_at
FROM users WHERE id=$1`
	return r.scanOne(ctx, q, id)
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, first_name, last_name, email, roles, password_hash, created_at, updated_at
FROM users WHERE email=$1`
	return r.scanOne(ctx, q, email)
}

// Update stores names and roles.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	const q = `
UPDATE users SET first_name=$2, last_name=$3, roles=$4, updated_at=now()
WHERE id=$1
RETURNING updated_at`
	err := r.db.Pool.QueryRow(ctx, q, u.ID, u.FirstName, u.LastName, u.Roles).Scan(&u.UpdatedAt)
	return writeErr(err, "email", "")
}

func (r *UserRepo) scanOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.Pool.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Roles, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, readErr(err)
	}
	return &u, nil
}
