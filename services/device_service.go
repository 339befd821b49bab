package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
)

// DeviceService interface defines device management business logic
type DeviceService interface {
	GetAll(ctx context.Context) ([]models.Device, error)
	GetByID(ctx context.Context, id int) (*models.Device, error)
	GetConnections(ctx context.Context, deviceID, limit int) ([]models.ConnectionLogEntry, error)
	Create(ctx context.Context, form *models.DeviceForm) (*models.Device, error)
	Update(ctx context.Context, id int, form *models.DeviceForm) (*models.Device, error)
	Delete(ctx context.Context, id int) error
}

type deviceService struct {
	deviceRepo     repositories.DeviceRepository
	districtRepo   repositories.DistrictRepository
	connectionRepo repositories.ConnectionLogRepository
}

// NewDeviceService creates a new device service
func NewDeviceService(
	deviceRepo repositories.DeviceRepository,
	districtRepo repositories.DistrictRepository,
	connectionRepo repositories.ConnectionLogRepository,
) DeviceService {
	return &deviceService{
		deviceRepo:     deviceRepo,
		districtRepo:   districtRepo,
		connectionRepo: connectionRepo,
	}
}

// GetAll retrieves all devices
func (s *deviceService) GetAll(ctx context.Context) ([]models.Device, error) {
	return s.deviceRepo.GetAll(ctx)
}

// GetByID retrieves a device by ID
func (s *deviceService) GetByID(ctx context.Context, id int) (*models.Device, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid device ID %d", ErrValidation, id)
	}
	return s.deviceRepo.GetByID(ctx, id)
}

// GetConnections retrieves recent connection log entries for a device
func (s *deviceService) GetConnections(ctx context.Context, deviceID, limit int) ([]models.ConnectionLogEntry, error) {
	if _, err := s.GetByID(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.connectionRepo.GetByDevice(ctx, deviceID, limit)
}

// Create creates a new device in an existing district
func (s *deviceService) Create(ctx context.Context, form *models.DeviceForm) (*models.Device, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, ", "))
	}

	if _, err := s.districtRepo.GetByID(ctx, form.DistrictID); err != nil {
		return nil, err
	}

	device := &models.Device{
		Identifier: strings.ToUpper(strings.TrimSpace(form.Identifier)),
		Name:       strings.TrimSpace(form.Name),
		DeviceType: form.DeviceType,
		DistrictID: form.DistrictID,
		Active:     form.Active,
	}

	if err := s.deviceRepo.Create(ctx, device); err != nil {
		if repositories.IsUniqueConstraint(err) {
			return nil, fmt.Errorf("%w: device %q already exists", ErrConflict, device.Identifier)
		}
		return nil, err
	}

	return device, nil
}

// Update updates an existing device
func (s *deviceService) Update(ctx context.Context, id int, form *models.DeviceForm) (*models.Device, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid device ID %d", ErrValidation, id)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, ", "))
	}

	device, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.districtRepo.GetByID(ctx, form.DistrictID); err != nil {
		return nil, err
	}

	device.Identifier = strings.ToUpper(strings.TrimSpace(form.Identifier))
	device.Name = strings.TrimSpace(form.Name)
	device.DeviceType = form.DeviceType
	device.DistrictID = form.DistrictID
	device.Active = form.Active

	if err := s.deviceRepo.Update(ctx, device); err != nil {
		if repositories.IsUniqueConstraint(err) {
			return nil, fmt.Errorf("%w: device %q already exists", ErrConflict, device.Identifier)
		}
		return nil, err
	}

	return device, nil
}

// Delete deletes a device and its connection history
func (s *deviceService) Delete(ctx context.Context, id int) error {
	if _, err := s.deviceRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.deviceRepo.Delete(ctx, id)
}
