package models

import "time"

// Connection events.
const (
	ConnectionEventConnect    = "connect"
	ConnectionEventDisconnect = "disconnect"
)

// ConnectionLogEntry records a simulated device joining or leaving a
// district hotspot.
type ConnectionLogEntry struct {
	ID         int64     `json:"id"`
	DeviceID   int       `json:"device_id"`
	DistrictID int       `json:"district_id"`
	Event      string    `json:"event"`
	SignalDBM  int       `json:"signal_dbm"`
	Timestamp  time.Time `json:"timestamp"`
}
