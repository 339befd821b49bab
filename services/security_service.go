package services

import (
	"context"
	"fmt"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
)

// SecurityService interface defines security event business logic
type SecurityService interface {
	List(ctx context.Context, filter models.SecurityEventFilter) ([]models.SecurityEvent, error)
	GetByID(ctx context.Context, id int) (*models.SecurityEvent, error)
	Resolve(ctx context.Context, id int, resolvedBy string) (*models.SecurityEvent, error)
}

type securityService struct {
	eventRepo repositories.SecurityEventRepository
}

// NewSecurityService creates a new security service
func NewSecurityService(eventRepo repositories.SecurityEventRepository) SecurityService {
	return &securityService{eventRepo: eventRepo}
}

// List retrieves security events matching the filter
func (s *securityService) List(ctx context.Context, filter models.SecurityEventFilter) ([]models.SecurityEvent, error) {
	return s.eventRepo.List(ctx, filter)
}

// GetByID retrieves a security event by ID
func (s *securityService) GetByID(ctx context.Context, id int) (*models.SecurityEvent, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid event ID %d", ErrValidation, id)
	}
	return s.eventRepo.GetByID(ctx, id)
}

// Resolve marks an event resolved by the given user. Resolving an
// already-resolved event is a conflict, not a repeat success.
func (s *securityService) Resolve(ctx context.Context, id int, resolvedBy string) (*models.SecurityEvent, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Resolved {
		return nil, fmt.Errorf("%w: event %d is already resolved", ErrConflict, id)
	}

	if err := s.eventRepo.Resolve(ctx, id, resolvedBy); err != nil {
		return nil, err
	}

	return s.eventRepo.GetByID(ctx, id)
}

// ActivityService exposes the activity log to the dashboard
type ActivityService interface {
	List(ctx context.Context, limit int) ([]models.ActivityLogEntry, error)
}

type activityService struct {
	activityRepo repositories.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo repositories.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

// List retrieves the most recent activity log entries
func (s *activityService) List(ctx context.Context, limit int) ([]models.ActivityLogEntry, error) {
	return s.activityRepo.List(ctx, limit)
}
