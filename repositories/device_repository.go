package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/districtnet/wifi-dashboard/models"
)

// DeviceRepository interface defines device database operations
type DeviceRepository interface {
	GetAll(ctx context.Context) ([]models.Device, error)
	GetByID(ctx context.Context, id int) (*models.Device, error)
	GetByDistrict(ctx context.Context, districtID int) ([]models.Device, error)
	GetActive(ctx context.Context) ([]models.Device, error)
	Create(ctx context.Context, device *models.Device) error
	Update(ctx context.Context, device *models.Device) error
	RecordUsage(ctx context.Context, id int, dataMB float64) error
	Delete(ctx context.Context, id int) error
}

type deviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *sql.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

const deviceColumns = "id, identifier, name, device_type, district_id, data_used_mb, sessions_count, active, last_seen"

func scanDevice(s interface{ Scan(...interface{}) error }) (*models.Device, error) {
	var d models.Device
	var lastSeen sql.NullTime

	err := s.Scan(
		&d.ID,
		&d.Identifier,
		&d.Name,
		&d.DeviceType,
		&d.DistrictID,
		&d.DataUsedMB,
		&d.SessionsCount,
		&d.Active,
		&lastSeen,
	)
	if err != nil {
		return nil, err
	}

	if lastSeen.Valid {
		d.LastSeen = &lastSeen.Time
	}
	return &d, nil
}

func (r *deviceRepository) queryDevices(ctx context.Context, query string, args ...interface{}) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, *d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating devices: %w", err)
	}

	return devices, nil
}

// GetAll retrieves all devices
func (r *deviceRepository) GetAll(ctx context.Context) ([]models.Device, error) {
	return r.queryDevices(ctx, "SELECT "+deviceColumns+" FROM devices ORDER BY identifier ASC")
}

// GetByDistrict retrieves devices belonging to one district
func (r *deviceRepository) GetByDistrict(ctx context.Context, districtID int) ([]models.Device, error) {
	return r.queryDevices(ctx, "SELECT "+deviceColumns+" FROM devices WHERE district_id = ? ORDER BY identifier ASC", districtID)
}

// GetActive retrieves devices the simulator can touch
func (r *deviceRepository) GetActive(ctx context.Context) ([]models.Device, error) {
	return r.queryDevices(ctx, "SELECT "+deviceColumns+" FROM devices WHERE active = 1 ORDER BY id ASC")
}

// GetByID retrieves a device by ID
func (r *deviceRepository) GetByID(ctx context.Context, id int) (*models.Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE id = ?"

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("device with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return d, nil
}

// Create creates a new device
func (r *deviceRepository) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (identifier, name, device_type, district_id, data_used_mb, sessions_count, active, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var lastSeen interface{}
	if device.LastSeen != nil {
		lastSeen = *device.LastSeen
	}

	result, err := r.db.ExecContext(ctx, query,
		device.Identifier,
		device.Name,
		device.DeviceType,
		device.DistrictID,
		device.DataUsedMB,
		device.SessionsCount,
		device.Active,
		lastSeen,
	)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	device.ID = int(id)
	return nil
}

// Update updates an existing device
func (r *deviceRepository) Update(ctx context.Context, device *models.Device) error {
	query := `
		UPDATE devices
		SET identifier = ?, name = ?, device_type = ?, district_id = ?, active = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		device.Identifier,
		device.Name,
		device.DeviceType,
		device.DistrictID,
		device.Active,
		device.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("device with ID %d: %w", device.ID, ErrNotFound)
	}

	return nil
}

// RecordUsage bumps a device's usage counters after a simulated session
func (r *deviceRepository) RecordUsage(ctx context.Context, id int, dataMB float64) error {
	query := `
		UPDATE devices
		SET data_used_mb = data_used_mb + ?, sessions_count = sessions_count + 1, last_seen = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, dataMB, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to record device usage: %w", err)
	}
	return nil
}

// Delete deletes a device by ID
func (r *deviceRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("device with ID %d: %w", id, ErrNotFound)
	}

	return nil
}
