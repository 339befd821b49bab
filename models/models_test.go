package models

import (
	"testing"
)

func TestUserFormValidation(t *testing.T) {
	validForm := UserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret",
		Role:     RoleViewer,
	}
	if errs := validForm.Validate(true); len(errs) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errs)
	}

	invalidForm := UserForm{
		Username: "",
		Email:    "not-an-email",
		Password: "short",
		Role:     "superuser",
	}
	if errs := invalidForm.Validate(true); len(errs) != 4 {
		t.Errorf("Expected 4 errors for invalid form, got: %v", errs)
	}

	// Updates may omit the password
	updateForm := UserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Role:     RoleAdmin,
	}
	if errs := updateForm.Validate(false); len(errs) != 0 {
		t.Errorf("Expected no errors for update without password, got: %v", errs)
	}
}

func TestDistrictFormValidation(t *testing.T) {
	validForm := DistrictForm{
		Name:           "North Ridge",
		TotalHotspots:  10,
		ActiveHotspots: 8,
	}
	if errs := validForm.Validate(); len(errs) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errs)
	}

	invalidForm := DistrictForm{
		Name:           "",
		TotalHotspots:  5,
		ActiveHotspots: 9,
	}
	if errs := invalidForm.Validate(); len(errs) != 2 {
		t.Errorf("Expected 2 errors for invalid form, got: %v", errs)
	}
}

func TestDeviceFormValidation(t *testing.T) {
	validForm := DeviceForm{
		Identifier: "AC:DE:48:00:11:22",
		Name:       "Library kiosk",
		DeviceType: DeviceTypeIoT,
		DistrictID: 1,
	}
	if errs := validForm.Validate(); len(errs) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errs)
	}

	invalidForm := DeviceForm{
		Identifier: "",
		Name:       "",
		DeviceType: "router",
		DistrictID: 0,
	}
	if errs := invalidForm.Validate(); len(errs) != 4 {
		t.Errorf("Expected 4 errors for invalid form, got: %v", errs)
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		district District
		want     string
	}{
		{"no active hotspots", District{TotalHotspots: 10, ActiveHotspots: 0}, DistrictStatusOffline},
		{"less than half active", District{TotalHotspots: 10, ActiveHotspots: 4}, DistrictStatusDegraded},
		{"hot utilization", District{TotalHotspots: 10, ActiveHotspots: 9, UtilizationPct: 90}, DistrictStatusDegraded},
		{"healthy", District{TotalHotspots: 10, ActiveHotspots: 8, UtilizationPct: 40}, DistrictStatusHealthy},
	}

	for _, tc := range cases {
		if got := tc.district.DeriveStatus(); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	if !RoleAtLeast(RoleAdmin, RoleViewer) {
		t.Error("admin should satisfy viewer minimum")
	}
	if RoleAtLeast(RoleViewer, RoleUser) {
		t.Error("viewer should not satisfy user minimum")
	}
	if RoleAtLeast("unknown", RoleViewer) {
		t.Error("unknown role should never satisfy a minimum")
	}
}
