package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

// UserStore is the account persistence used by [Service].
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context, role models.Role) (int, error)
}

// Service registers and authenticates accounts.
type Service struct {
	users  UserStore
	logger *log.Logger
}

// NewService creates a [Service] backed by users.
func NewService(users UserStore, logger *log.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Register creates an account with the user role.
//
// Returns [shared.ErrEmailTaken] when the email is in use (case-insensitive) and
// [shared.ErrWeakPassword] when the password does not meet the policy.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (*models.User, error) {
	return s.create(ctx, email, displayName, password, models.RoleUser)
}

func (s *Service) create(ctx context.Context, email, displayName, password string, role models.Role) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrInvalidInput)
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	user := models.NewUser(email, displayName)
	user.PasswordHash = hash
	user.Role = role

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("registered account", "user", user.ID, "role", user.Role)
	return user, nil
}

// Login verifies credentials.
//
// Unknown emails and wrong passwords both yield [shared.ErrInvalidCredentials]; banned accounts yield
// [shared.ErrBanned].
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	if user.Banned {
		s.logger.Warn("banned account attempted login", "user", user.ID)
		return nil, shared.ErrBanned
	}

	return user, nil
}

// CurrentUser loads the account of the signed-in user in ctx.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	id := UserID(ctx)
	if id == "" {
		return nil, shared.ErrNotAuthenticated
	}

	user, err := s.users.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrNotAuthenticated
	}
	return user, err
}

// SeedAdmin creates the configured admin account unless an admin already exists.
//
// Reports whether an account was created.
func (s *Service) SeedAdmin(ctx context.Context, cfg shared.AdminConfig) (bool, error) {
	count, err := s.users.Count(ctx, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if cfg.Email == "" || cfg.Password == "" {
		return false, fmt.Errorf("%w: admin email and password are required", shared.ErrMissingConfig)
	}

	if _, err := s.create(ctx, cfg.Email, cfg.DisplayName, cfg.Password, models.RoleAdmin); err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}
	return true, nil
}
