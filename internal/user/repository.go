package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// userFields is the column list every query returns, in scanUser order
const userFields = `id, name, email, wishlist, created_at`

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u := &User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Wishlist, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// findOne runs a single-row query; a missing row yields (nil, nil)
func (r *Repository) findOne(ctx context.Context, action, query string, args ...any) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", action, err)
	}
	return u, nil
}

// Create inserts a new user; a taken email surfaces as ErrEmailAlreadyInUse
func (r *Repository) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, wishlist) VALUES ($1, $2, $3) RETURNING `+userFields,
		req.Name, req.Email, req.Wishlist,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, "get user", `SELECT `+userFields+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by their email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "get user by email", `SELECT `+userFields+` FROM users WHERE email = $1`, email)
}

// List returns one page of users, newest first, and the total count
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userFields+` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// Update sets the fields present in req; nil fields keep their stored value
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	return r.findOne(ctx, "update user", `
		UPDATE users
		SET name = COALESCE($2, name),
		    wishlist = COALESCE($3, wishlist)
		WHERE id = $1
		RETURNING `+userFields,
		id, req.Name, req.Wishlist,
	)
}

// Delete removes a user
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Exists reports whether a user with the given ID exists
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
