package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, name, role, password_hash, is_active, last_login_at, created_at, updated_at`

// UserRepository handles database operations for back-office users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns all users ordered by name.
func (r *UserRepository) List(ctx context.Context) ([]*User, error) {
	var users []*User
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID finds a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := getOne(ctx, r.db, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail finds a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := getOne(ctx, r.db, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return nil, fmt.Errorf("user %q: %w", email, err)
	}
	return &user, nil
}

// Create inserts a user and fills in its ID and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	query := `INSERT INTO users (email, name, role, password_hash, is_active, created_at, updated_at)
		VALUES (:email, :name, :role, :password_hash, :is_active, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

// Update saves changes to an existing user, including the password hash.
func (r *UserRepository) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now().UTC()
	query := `UPDATE users SET email = :email, name = :name, role = :role, password_hash = :password_hash,
		is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if err := namedExecOne(ctx, r.db, query, user); err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return nil
}

// TouchLogin records a successful sign-in.
func (r *UserRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	if err := execOne(ctx, r.db, `UPDATE users SET last_login_at = ? WHERE id = ?`, at.UTC(), id); err != nil {
		return fmt.Errorf("failed to record login for user %d: %w", id, err)
	}
	return nil
}

// Delete removes a user by ID.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

// CountActiveAdmins counts enabled users holding the admin role.
func (r *UserRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE role = ? AND is_active = ?`, RoleAdmin, true); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
