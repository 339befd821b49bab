package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/districtnet/wifi-dashboard/models"
)

// ActivityRepository handles activity log persistence
type ActivityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLogEntry) error
	List(ctx context.Context, limit int) ([]models.ActivityLogEntry, error)
}

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create inserts a new activity log entry
func (r *activityRepository) Create(ctx context.Context, entry *models.ActivityLogEntry) error {
	query := `
		INSERT INTO activity_log (timestamp, username, method, path, form_data, user_agent, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.Timestamp,
		entry.Username,
		entry.Method,
		entry.Path,
		entry.FormData,
		entry.UserAgent,
		entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log entry: %w", err)
	}

	return nil
}

// List retrieves the most recent activity log entries
func (r *activityRepository) List(ctx context.Context, limit int) ([]models.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, timestamp, username, method, path, form_data, user_agent, ip_address
		FROM activity_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityLogEntry
	for rows.Next() {
		var entry models.ActivityLogEntry
		var formData, userAgent, ipAddress sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.Username,
			&entry.Method,
			&entry.Path,
			&formData,
			&userAgent,
			&ipAddress,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log entry: %w", err)
		}

		entry.FormData = formData.String
		entry.UserAgent = userAgent.String
		entry.IPAddress = ipAddress.String
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity log: %w", err)
	}

	return entries, nil
}
