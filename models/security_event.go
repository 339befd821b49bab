package models

import "time"

// Security event types.
const (
	EventFailedLogin       = "failed_login"
	EventSuspiciousTraffic = "suspicious_traffic"
	EventRogueHotspot      = "rogue_hotspot"
	EventAuthLockout       = "auth_lockout"
)

// Severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SecurityEvent represents a logged notable action (failed login,
// suspicious pattern) with a resolution flag.
type SecurityEvent struct {
	ID          int        `json:"id"`
	EventType   string     `json:"event_type"`
	Severity    string     `json:"severity"`
	DistrictID  *int       `json:"district_id,omitempty"`
	Source      string     `json:"source"`
	Description string     `json:"description"`
	Resolved    bool       `json:"resolved"`
	ResolvedBy  string     `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SecurityEventFilter narrows security event listings.
type SecurityEventFilter struct {
	Resolved *bool
	Severity string
	Limit    int
}
