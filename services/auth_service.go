package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
)

// AuthService interface defines authentication business logic
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	AuthenticateSSO(ctx context.Context, email string) (*models.User, error)
	EnsureDefaultAdmin(ctx context.Context, username, email, password string) error
}

type authService struct {
	userRepo  repositories.UserRepository
	eventRepo repositories.SecurityEventRepository
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, eventRepo repositories.SecurityEventRepository) AuthService {
	return &authService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
	}
}

// HashPassword hashes a cleartext password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a cleartext password against a bcrypt hash
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// Authenticate verifies a username/password pair. Every failure records
// a failed_login security event and returns ErrInvalidCredentials
// without leaking which half was wrong.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.recordFailedLogin(ctx, username, "unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Active {
		s.recordFailedLogin(ctx, username, "inactive account")
		return nil, ErrInvalidCredentials
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.recordFailedLogin(ctx, username, "wrong password")
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("Failed to update last login for %s: %v", username, err)
	}

	return user, nil
}

// AuthenticateSSO maps a verified SSO email claim onto a local account.
// The account must exist and be active; its local role applies.
func (s *authService) AuthenticateSSO(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.recordFailedLogin(ctx, email, "SSO email has no local account")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Active {
		s.recordFailedLogin(ctx, user.Username, "inactive account via SSO")
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.Username, err)
	}

	return user, nil
}

// EnsureDefaultAdmin creates the bootstrap admin account when no active
// admin exists yet. Called once at startup.
func (s *authService) EnsureDefaultAdmin(ctx context.Context, username, email, password string) error {
	count, err := s.userRepo.CountActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	log.Printf("Created default admin account %q", username)
	return nil
}

func (s *authService) recordFailedLogin(ctx context.Context, source, reason string) {
	event := &models.SecurityEvent{
		EventType:   models.EventFailedLogin,
		Severity:    models.SeverityMedium,
		Source:      source,
		Description: "Failed login attempt: " + reason,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Printf("Failed to record failed login event: %v", err)
	}
}
