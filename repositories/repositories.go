package repositories

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Users         UserRepository
	Districts     DistrictRepository
	Devices       DeviceRepository
	Connections   ConnectionLogRepository
	SecurityEvent SecurityEventRepository
	Activity      ActivityRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Districts:     NewDistrictRepository(db),
		Devices:       NewDeviceRepository(db),
		Connections:   NewConnectionLogRepository(db),
		SecurityEvent: NewSecurityEventRepository(db),
		Activity:      NewActivityRepository(db),
	}
}

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// IsUniqueConstraint reports whether the error is a SQLite UNIQUE
// constraint violation, so handlers can answer 409 instead of 500.
func IsUniqueConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyConstraint reports whether the error is a SQLite foreign
// key violation (e.g. deleting a district that still has devices).
func IsForeignKeyConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
