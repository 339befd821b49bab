package models

import (
	"strings"
	"time"
)

// Device classifications.
const (
	DeviceTypeLaptop = "laptop"
	DeviceTypeTablet = "tablet"
	DeviceTypePhone  = "phone"
	DeviceTypeIoT    = "iot"
	DeviceTypeOther  = "other"
)

var deviceTypes = map[string]bool{
	DeviceTypeLaptop: true,
	DeviceTypeTablet: true,
	DeviceTypePhone:  true,
	DeviceTypeIoT:    true,
	DeviceTypeOther:  true,
}

// Device represents a simulated client device tracked per district
type Device struct {
	ID            int        `json:"id"`
	Identifier    string     `json:"identifier"`
	Name          string     `json:"name"`
	DeviceType    string     `json:"device_type"`
	DistrictID    int        `json:"district_id"`
	DataUsedMB    float64    `json:"data_used_mb"`
	SessionsCount int        `json:"sessions_count"`
	Active        bool       `json:"active"`
	LastSeen      *time.Time `json:"last_seen,omitempty"`
}

// DeviceForm represents form data for creating/updating devices
type DeviceForm struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	DeviceType string `json:"device_type"`
	DistrictID int    `json:"district_id"`
	Active     bool   `json:"active"`
}

// Validate validates the device form data
func (f *DeviceForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Identifier) == "" {
		errors = append(errors, "Identifier is required")
	}
	if len(f.Identifier) > 64 {
		errors = append(errors, "Identifier must be less than 64 characters")
	}
	if strings.TrimSpace(f.Name) == "" {
		errors = append(errors, "Name is required")
	}
	if !deviceTypes[f.DeviceType] {
		errors = append(errors, "Device type must be laptop, tablet, phone, iot or other")
	}
	if f.DistrictID <= 0 {
		errors = append(errors, "District is required")
	}

	return errors
}
