package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
)

// DistrictService interface defines district management business logic
type DistrictService interface {
	GetAll(ctx context.Context) ([]models.District, error)
	GetByID(ctx context.Context, id int) (*models.District, error)
	Create(ctx context.Context, form *models.DistrictForm) (*models.District, error)
	Update(ctx context.Context, id int, form *models.DistrictForm) (*models.District, error)
	Delete(ctx context.Context, id int) error
	Summary(ctx context.Context) (*models.MetricsSummary, error)
	Snapshot(ctx context.Context) (*models.LiveSnapshot, error)
}

type districtService struct {
	districtRepo repositories.DistrictRepository
	deviceRepo   repositories.DeviceRepository
}

// NewDistrictService creates a new district service
func NewDistrictService(districtRepo repositories.DistrictRepository, deviceRepo repositories.DeviceRepository) DistrictService {
	return &districtService{
		districtRepo: districtRepo,
		deviceRepo:   deviceRepo,
	}
}

// GetAll retrieves all districts
func (s *districtService) GetAll(ctx context.Context) ([]models.District, error) {
	return s.districtRepo.GetAll(ctx)
}

// GetByID retrieves a district by ID
func (s *districtService) GetByID(ctx context.Context, id int) (*models.District, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid district ID %d", ErrValidation, id)
	}
	return s.districtRepo.GetByID(ctx, id)
}

// Create creates a new district
func (s *districtService) Create(ctx context.Context, form *models.DistrictForm) (*models.District, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, ", "))
	}

	district := &models.District{
		Name:           strings.TrimSpace(form.Name),
		TotalHotspots:  form.TotalHotspots,
		ActiveHotspots: form.ActiveHotspots,
	}
	district.Status = district.DeriveStatus()

	if err := s.districtRepo.Create(ctx, district); err != nil {
		if repositories.IsUniqueConstraint(err) {
			return nil, fmt.Errorf("%w: district %q already exists", ErrConflict, district.Name)
		}
		return nil, err
	}

	return district, nil
}

// Update updates a district's name and hotspot inventory
func (s *districtService) Update(ctx context.Context, id int, form *models.DistrictForm) (*models.District, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid district ID %d", ErrValidation, id)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, ", "))
	}

	district, err := s.districtRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	district.Name = strings.TrimSpace(form.Name)
	district.TotalHotspots = form.TotalHotspots
	district.ActiveHotspots = form.ActiveHotspots
	district.Status = district.DeriveStatus()

	if err := s.districtRepo.Update(ctx, district); err != nil {
		if repositories.IsUniqueConstraint(err) {
			return nil, fmt.Errorf("%w: district %q already exists", ErrConflict, district.Name)
		}
		return nil, err
	}

	return district, nil
}

// Delete deletes a district. Districts that still have devices are
// refused; move or delete the devices first.
func (s *districtService) Delete(ctx context.Context, id int) error {
	if _, err := s.districtRepo.GetByID(ctx, id); err != nil {
		return err
	}

	devices, err := s.deviceRepo.GetByDistrict(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check district devices: %w", err)
	}
	if len(devices) > 0 {
		return fmt.Errorf("%w: district still has %d device(s)", ErrConflict, len(devices))
	}

	if err := s.districtRepo.Delete(ctx, id); err != nil {
		if repositories.IsForeignKeyConstraint(err) {
			return fmt.Errorf("%w: district is still referenced", ErrConflict)
		}
		return err
	}
	return nil
}

// Summary aggregates dashboard-wide counters
func (s *districtService) Summary(ctx context.Context) (*models.MetricsSummary, error) {
	return s.districtRepo.Summary(ctx)
}

// Snapshot assembles the payload pushed over the WebSocket feed
func (s *districtService) Snapshot(ctx context.Context) (*models.LiveSnapshot, error) {
	districts, err := s.districtRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.districtRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}

	return &models.LiveSnapshot{
		Districts: districts,
		Summary:   *summary,
	}, nil
}
