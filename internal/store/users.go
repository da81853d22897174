// ABOUTME: User account store methods for listing, role changes, and credential resets
// ABOUTME: Password hashes are stored verbatim; hashing happens at the boundary

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateUser creates a new account. The ID is generated if empty and the role
// defaults to User. Returns ErrNameExists if the name is already taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (id, name, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		string(user.Role),
		user.PasswordHash,
		user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrNameExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Info("created user", "id", user.ID, "name", user.Name, "role", user.Role)
	return nil
}

// GetUser retrieves an account by ID.
// Returns ErrUserNotFound if the account doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByName retrieves an account by its unique name.
// Returns ErrUserNotFound if the account doesn't exist.
func (s *SQLiteStore) GetUserByName(ctx context.Context, name string) (*User, error) {
	return s.getUser(ctx, "name", name)
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, role, password_hash, created_at
		FROM users
		WHERE %s = ?
	`, column)

	var user User
	var role, createdAt string

	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&role,
		&user.PasswordHash,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user.Role = Role(role)
	user.CreatedAt = parseTime(createdAt, "created_at", user.ID)
	return &user, nil
}

// ListUsers returns all accounts ordered by creation time.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	query := `
		SELECT id, name, role, password_hash, created_at
		FROM users
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		var user User
		var role, createdAt string
		if err := rows.Scan(&user.ID, &user.Name, &role, &user.PasswordHash, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		user.Role = Role(role)
		user.CreatedAt = parseTime(createdAt, "created_at", user.ID)
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

// DeleteUser removes an account by ID. This operation is idempotent -
// deleting a non-existent account succeeds silently.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Info("deleted user", "id", id)
	return nil
}

// SetUserRole updates an account's role and returns the updated account.
// The role must already be validated by the caller; the schema enforces the
// closed set as a backstop. Returns ErrUserNotFound if the account doesn't exist.
func (s *SQLiteStore) SetUserRole(ctx context.Context, id string, role Role) (*User, error) {
	result, err := s.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", string(role), id)
	if err != nil {
		return nil, fmt.Errorf("updating user role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	s.logger.Info("updated user role", "id", id, "role", role)
	return s.GetUser(ctx, id)
}

// SetUserPassword replaces an account's credential hash.
// Returns ErrUserNotFound if the account doesn't exist.
func (s *SQLiteStore) SetUserPassword(ctx context.Context, id, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	s.logger.Info("reset user password", "id", id)
	return nil
}

// CountUsers returns the total number of accounts.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}
