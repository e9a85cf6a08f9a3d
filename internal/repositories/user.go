package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

const userColumns = `id, sequence, email, display_name, password_hash, role, banned, created_at, updated_at`

// UserRepository persists [models.User] accounts.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence.
//
// Returns [shared.ErrEmailTaken] when another account already uses the email (case-insensitive).
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "users")
	if err != nil {
		return err
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO users (id, sequence, email, display_name, password_hash, role, banned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		id, sequence, user.Email, user.DisplayName, user.PasswordHash, string(user.Role), user.Banned, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", shared.ErrEmailTaken, user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}

	user.ID = id
	user.Sequence = sequence
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}
	return user, err
}

// GetByEmail retrieves a user by email, ignoring case and surrounding whitespace
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, email)
	}
	return user, err
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE users
		SET email = ?, display_name = ?, password_hash = ?, role = ?, banned = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.DisplayName, user.PasswordHash, string(user.Role), user.Banned, now, user.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", shared.ErrEmailTaken, user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := expectAffected(result, shared.ErrUserNotFound, user.ID); err != nil {
		return err
	}

	user.UpdatedAt = now
	return nil
}

// SetBanned flips the banned flag of a user.
func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET banned = ?, updated_at = ? WHERE id = ?`, banned, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectAffected(result, shared.ErrUserNotFound, id)
}

// Delete removes a user and, through cascading foreign keys, their meal plans
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectAffected(result, shared.ErrUserNotFound, id)
}

// List retrieves all users matching the given criteria.
//
// Supported criteria: "email" (string), "role" ([models.Role]) and "banned" (bool).
func (r *UserRepository) List(ctx context.Context, criteria map[string]any) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1 = 1`
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	if role, ok := criteria["role"].(models.Role); ok && role != "" {
		query += " AND role = ?"
		args = append(args, string(role))
	}

	if banned, ok := criteria["banned"].(bool); ok {
		query += " AND banned = ?"
		args = append(args, banned)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// Count returns the number of accounts with the given role, or all accounts when role is empty.
func (r *UserRepository) Count(ctx context.Context, role models.Role) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	args := []any{}
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, string(role))
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// rowScanner is satisfied by [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user models.User
		role string
	)

	err := row.Scan(
		&user.ID, &user.Sequence, &user.Email, &user.DisplayName, &user.PasswordHash,
		&role, &user.Banned, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Role = models.Role(role)
	return &user, nil
}

// expectAffected turns a zero-row write into a wrapped not-found error.
func expectAffected(result sql.Result, notFound error, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
