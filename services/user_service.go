package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
)

// UserService interface defines account management business logic
type UserService interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Create(ctx context.Context, form *models.UserForm) (*models.User, error)
	Update(ctx context.Context, id int, form *models.UserForm) (*models.User, error)
	Deactivate(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type userService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetAll retrieves all accounts
func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

// GetByID retrieves an account by ID
func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID %d", ErrValidation, id)
	}
	return s.userRepo.GetByID(ctx, id)
}

// Create creates a new account with a hashed password
func (s *userService) Create(ctx context.Context, form *models.UserForm) (*models.User, error) {
	if errs := form.Validate(true); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, ", "))
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(form.Username),
		Email:        strings.TrimSpace(form.Email),
		PasswordHash: hash,
		Role:         form.Role,
		Active:       form.Active,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsUniqueConstraint(err) {
			return nil, fmt.Errorf("%w: username or email already in use", ErrConflict)
		}
		return nil, err
	}

	return user, nil
}

// Update updates an account. An empty form password keeps the current
// one. Demoting or deactivating the last active admin is refused.
func (s *userService) Update(ctx context.Context, id int, form *models.UserForm) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID %d", ErrValidation, id)
	}
	if errs := form.Validate(false); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, ", "))
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	losesAdmin := user.Role == models.RoleAdmin && user.Active &&
		(form.Role != models.RoleAdmin || !form.Active)
	if losesAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return nil, err
		}
	}

	user.Username = strings.TrimSpace(form.Username)
	user.Email = strings.TrimSpace(form.Email)
	user.Role = form.Role
	user.Active = form.Active
	if form.Password != "" {
		hash, err := HashPassword(form.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repositories.IsUniqueConstraint(err) {
			return nil, fmt.Errorf("%w: username or email already in use", ErrConflict)
		}
		return nil, err
	}

	return user, nil
}

// Deactivate soft-deactivates an account
func (s *userService) Deactivate(ctx context.Context, id int) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.Active {
		return fmt.Errorf("%w: user is already inactive", ErrConflict)
	}

	if user.Role == models.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	user.Active = false
	return s.userRepo.Update(ctx, user)
}

// Delete permanently deletes an account
func (s *userService) Delete(ctx context.Context, id int) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleAdmin && user.Active {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	return s.userRepo.Delete(ctx, id)
}

func (s *userService) ensureNotLastAdmin(ctx context.Context) error {
	count, err := s.userRepo.CountActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count active admins: %w", err)
	}
	if count <= 1 {
		return fmt.Errorf("%w: at least one active admin must remain", ErrConflict)
	}
	return nil
}
