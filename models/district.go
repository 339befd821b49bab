package models

import (
	"strings"
	"time"
)

// District statuses derived from the simulated metrics.
const (
	DistrictStatusHealthy  = "healthy"
	DistrictStatusDegraded = "degraded"
	DistrictStatusOffline  = "offline"
)

// District represents a simulated grouping of hotspots with shared
// utilization metrics.
type District struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	TotalHotspots    int       `json:"total_hotspots"`
	ActiveHotspots   int       `json:"active_hotspots"`
	ConnectedDevices int       `json:"connected_devices"`
	BandwidthMbps    float64   `json:"bandwidth_mbps"`
	UtilizationPct   int       `json:"utilization_pct"`
	Status           string    `json:"status"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DeriveStatus computes the district status from its metrics:
// offline when no hotspots answer, degraded when fewer than half do
// or utilization runs hot, healthy otherwise.
func (d *District) DeriveStatus() string {
	if d.ActiveHotspots == 0 {
		return DistrictStatusOffline
	}
	if d.TotalHotspots > 0 && d.ActiveHotspots*2 < d.TotalHotspots {
		return DistrictStatusDegraded
	}
	if d.UtilizationPct >= 85 {
		return DistrictStatusDegraded
	}
	return DistrictStatusHealthy
}

// DistrictForm represents form data for creating/updating districts
type DistrictForm struct {
	Name           string `json:"name"`
	TotalHotspots  int    `json:"total_hotspots"`
	ActiveHotspots int    `json:"active_hotspots"`
}

// Validate validates the district form data
func (f *DistrictForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Name) == "" {
		errors = append(errors, "Name is required")
	}
	if len(f.Name) > 100 {
		errors = append(errors, "Name must be less than 100 characters")
	}
	if f.TotalHotspots < 0 {
		errors = append(errors, "Total hotspots cannot be negative")
	}
	if f.ActiveHotspots < 0 {
		errors = append(errors, "Active hotspots cannot be negative")
	}
	if f.ActiveHotspots > f.TotalHotspots {
		errors = append(errors, "Active hotspots cannot exceed total hotspots")
	}

	return errors
}

// MetricsSummary aggregates dashboard-wide counters for the summary
// endpoint and the initial WebSocket payload.
type MetricsSummary struct {
	Districts        int     `json:"districts"`
	TotalHotspots    int     `json:"total_hotspots"`
	ActiveHotspots   int     `json:"active_hotspots"`
	ConnectedDevices int     `json:"connected_devices"`
	TotalBandwidth   float64 `json:"total_bandwidth_mbps"`
	UnresolvedEvents int     `json:"unresolved_events"`
}
