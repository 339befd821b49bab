package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/districtnet/wifi-dashboard/models"
)

// ConnectionLogRepository handles device connection log persistence
type ConnectionLogRepository interface {
	Create(ctx context.Context, entry *models.ConnectionLogEntry) error
	GetByDevice(ctx context.Context, deviceID, limit int) ([]models.ConnectionLogEntry, error)
}

type connectionLogRepository struct {
	db *sql.DB
}

// NewConnectionLogRepository creates a new connection log repository
func NewConnectionLogRepository(db *sql.DB) ConnectionLogRepository {
	return &connectionLogRepository{db: db}
}

// Create inserts a new connection log entry
func (r *connectionLogRepository) Create(ctx context.Context, entry *models.ConnectionLogEntry) error {
	query := `
		INSERT INTO connection_log (device_id, district_id, event, signal_dbm, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		entry.DeviceID,
		entry.DistrictID,
		entry.Event,
		entry.SignalDBM,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create connection log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	entry.ID = id
	return nil
}

// GetByDevice retrieves the most recent connection log entries for a device
func (r *connectionLogRepository) GetByDevice(ctx context.Context, deviceID, limit int) ([]models.ConnectionLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, device_id, district_id, event, signal_dbm, timestamp
		FROM connection_log
		WHERE device_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection log: %w", err)
	}
	defer rows.Close()

	var entries []models.ConnectionLogEntry
	for rows.Next() {
		var entry models.ConnectionLogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.DeviceID,
			&entry.DistrictID,
			&entry.Event,
			&entry.SignalDBM,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection log entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connection log: %w", err)
	}

	return entries, nil
}
