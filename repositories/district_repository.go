package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/districtnet/wifi-dashboard/models"
)

// DistrictRepository interface defines district database operations
type DistrictRepository interface {
	GetAll(ctx context.Context) ([]models.District, error)
	GetByID(ctx context.Context, id int) (*models.District, error)
	Create(ctx context.Context, district *models.District) error
	Update(ctx context.Context, district *models.District) error
	UpdateMetrics(ctx context.Context, district *models.District) error
	Delete(ctx context.Context, id int) error
	Summary(ctx context.Context) (*models.MetricsSummary, error)
}

type districtRepository struct {
	db *sql.DB
}

// NewDistrictRepository creates a new district repository
func NewDistrictRepository(db *sql.DB) DistrictRepository {
	return &districtRepository{db: db}
}

const districtColumns = "id, name, total_hotspots, active_hotspots, connected_devices, bandwidth_mbps, utilization_pct, status, updated_at"

func scanDistrict(s interface{ Scan(...interface{}) error }) (*models.District, error) {
	var d models.District
	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.TotalHotspots,
		&d.ActiveHotspots,
		&d.ConnectedDevices,
		&d.BandwidthMbps,
		&d.UtilizationPct,
		&d.Status,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetAll retrieves all districts
func (r *districtRepository) GetAll(ctx context.Context) ([]models.District, error) {
	query := "SELECT " + districtColumns + " FROM districts ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query districts: %w", err)
	}
	defer rows.Close()

	var districts []models.District
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan district: %w", err)
		}
		districts = append(districts, *d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating districts: %w", err)
	}

	return districts, nil
}

// GetByID retrieves a district by ID
func (r *districtRepository) GetByID(ctx context.Context, id int) (*models.District, error) {
	query := "SELECT " + districtColumns + " FROM districts WHERE id = ?"

	d, err := scanDistrict(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("district with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get district: %w", err)
	}

	return d, nil
}

// Create creates a new district
func (r *districtRepository) Create(ctx context.Context, district *models.District) error {
	query := `
		INSERT INTO districts (name, total_hotspots, active_hotspots, connected_devices, bandwidth_mbps, utilization_pct, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	district.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		district.Name,
		district.TotalHotspots,
		district.ActiveHotspots,
		district.ConnectedDevices,
		district.BandwidthMbps,
		district.UtilizationPct,
		district.Status,
		district.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create district: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	district.ID = int(id)
	return nil
}

// Update updates a district's name and hotspot inventory
func (r *districtRepository) Update(ctx context.Context, district *models.District) error {
	query := `
		UPDATE districts
		SET name = ?, total_hotspots = ?, active_hotspots = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	district.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		district.Name,
		district.TotalHotspots,
		district.ActiveHotspots,
		district.Status,
		district.UpdatedAt,
		district.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update district: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("district with ID %d: %w", district.ID, ErrNotFound)
	}

	return nil
}

// UpdateMetrics persists a simulator tick for one district
func (r *districtRepository) UpdateMetrics(ctx context.Context, district *models.District) error {
	query := `
		UPDATE districts
		SET active_hotspots = ?, connected_devices = ?, bandwidth_mbps = ?, utilization_pct = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	district.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		district.ActiveHotspots,
		district.ConnectedDevices,
		district.BandwidthMbps,
		district.UtilizationPct,
		district.Status,
		district.UpdatedAt,
		district.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update district metrics: %w", err)
	}
	return nil
}

// Delete deletes a district by ID. Fails with a foreign key error when
// devices still reference it.
func (r *districtRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM districts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete district: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("district with ID %d: %w", id, ErrNotFound)
	}

	return nil
}

// Summary aggregates system-wide counters across all districts
func (r *districtRepository) Summary(ctx context.Context) (*models.MetricsSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total_hotspots), 0),
		       COALESCE(SUM(active_hotspots), 0),
		       COALESCE(SUM(connected_devices), 0),
		       COALESCE(SUM(bandwidth_mbps), 0)
		FROM districts
	`

	var summary models.MetricsSummary
	err := r.db.QueryRowContext(ctx, query).Scan(
		&summary.Districts,
		&summary.TotalHotspots,
		&summary.ActiveHotspots,
		&summary.ConnectedDevices,
		&summary.TotalBandwidth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate district summary: %w", err)
	}

	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM security_events WHERE resolved = 0").Scan(&summary.UnresolvedEvents)
	if err != nil {
		return nil, fmt.Errorf("failed to count unresolved events: %w", err)
	}

	return &summary, nil
}
