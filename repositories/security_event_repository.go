package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/districtnet/wifi-dashboard/models"
)

// SecurityEventRepository handles security event persistence
type SecurityEventRepository interface {
	Create(ctx context.Context, event *models.SecurityEvent) error
	GetByID(ctx context.Context, id int) (*models.SecurityEvent, error)
	List(ctx context.Context, filter models.SecurityEventFilter) ([]models.SecurityEvent, error)
	Resolve(ctx context.Context, id int, resolvedBy string) error
	CountUnresolved(ctx context.Context) (int, error)
}

type securityEventRepository struct {
	db *sql.DB
}

// NewSecurityEventRepository creates a new security event repository
func NewSecurityEventRepository(db *sql.DB) SecurityEventRepository {
	return &securityEventRepository{db: db}
}

const securityEventColumns = "id, event_type, severity, district_id, source, description, resolved, resolved_by, resolved_at, created_at"

func scanSecurityEvent(s interface{ Scan(...interface{}) error }) (*models.SecurityEvent, error) {
	var event models.SecurityEvent
	var districtID sql.NullInt64
	var source, description, resolvedBy sql.NullString
	var resolvedAt sql.NullTime

	err := s.Scan(
		&event.ID,
		&event.EventType,
		&event.Severity,
		&districtID,
		&source,
		&description,
		&event.Resolved,
		&resolvedBy,
		&resolvedAt,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if districtID.Valid {
		id := int(districtID.Int64)
		event.DistrictID = &id
	}
	event.Source = source.String
	event.Description = description.String
	event.ResolvedBy = resolvedBy.String
	if resolvedAt.Valid {
		event.ResolvedAt = &resolvedAt.Time
	}

	return &event, nil
}

// Create inserts a new security event
func (r *securityEventRepository) Create(ctx context.Context, event *models.SecurityEvent) error {
	query := `
		INSERT INTO security_events (event_type, severity, district_id, source, description, resolved, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var districtID interface{}
	if event.DistrictID != nil {
		districtID = *event.DistrictID
	}

	result, err := r.db.ExecContext(ctx, query,
		event.EventType,
		event.Severity,
		districtID,
		event.Source,
		event.Description,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create security event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	event.ID = int(id)
	return nil
}

// GetByID retrieves a security event by ID
func (r *securityEventRepository) GetByID(ctx context.Context, id int) (*models.SecurityEvent, error) {
	query := "SELECT " + securityEventColumns + " FROM security_events WHERE id = ?"

	event, err := scanSecurityEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("security event with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security event: %w", err)
	}

	return event, nil
}

// List retrieves security events matching the filter, newest first
func (r *securityEventRepository) List(ctx context.Context, filter models.SecurityEventFilter) ([]models.SecurityEvent, error) {
	var conditions []string
	var args []interface{}

	if filter.Resolved != nil {
		conditions = append(conditions, "resolved = ?")
		args = append(args, *filter.Resolved)
	}
	if filter.Severity != "" {
		conditions = append(conditions, "severity = ?")
		args = append(args, filter.Severity)
	}

	query := "SELECT " + securityEventColumns + " FROM security_events"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query security events: %w", err)
	}
	defer rows.Close()

	var events []models.SecurityEvent
	for rows.Next() {
		event, err := scanSecurityEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security event: %w", err)
		}
		events = append(events, *event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security events: %w", err)
	}

	return events, nil
}

// Resolve marks a security event resolved. Returns ErrNotFound when the
// event does not exist or is already resolved, so the service layer can
// distinguish the conflict.
func (r *securityEventRepository) Resolve(ctx context.Context, id int, resolvedBy string) error {
	query := `
		UPDATE security_events
		SET resolved = 1, resolved_by = ?, resolved_at = ?
		WHERE id = ? AND resolved = 0
	`

	result, err := r.db.ExecContext(ctx, query, resolvedBy, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve security event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("unresolved security event with ID %d: %w", id, ErrNotFound)
	}

	return nil
}

// CountUnresolved returns the number of unresolved security events
func (r *securityEventRepository) CountUnresolved(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM security_events WHERE resolved = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unresolved events: %w", err)
	}
	return count, nil
}
