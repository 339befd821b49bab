package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/districtnet/wifi-dashboard/database"
	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
)

func setupTestRepos(t *testing.T) *repositories.Repositories {
	dbPath := "test_" + time.Now().Format("20060102150405.000") + ".db"

	t.Cleanup(func() {
		database.CloseDB()
		os.Remove(dbPath)
	})

	require.NoError(t, database.InitializeDatabase(dbPath), "failed to initialize test database")

	return repositories.NewRepositories(database.GetDB())
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewUserService(repos.Users)
	ctx := context.Background()

	form := &models.UserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret",
		Role:     models.RoleUser,
		Active:   true,
	}

	user, err := svc.Create(ctx, form)
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", user.PasswordHash, "password must never be stored in the clear")
	assert.True(t, CheckPassword(user.PasswordHash, "supersecret"))
	assert.False(t, CheckPassword(user.PasswordHash, "wrongpassword"))
}

func TestUserServiceCreateValidation(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewUserService(repos.Users)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.UserForm{Username: "", Email: "bad", Password: "x", Role: "nope"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserServiceCreateDuplicate(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewUserService(repos.Users)
	ctx := context.Background()

	form := &models.UserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret",
		Role:     models.RoleUser,
		Active:   true,
	}
	_, err := svc.Create(ctx, form)
	require.NoError(t, err)

	form.Email = "other@example.com" // same username
	_, err = svc.Create(ctx, form)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserServiceLastAdminProtection(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewUserService(repos.Users)
	ctx := context.Background()

	admin, err := svc.Create(ctx, &models.UserForm{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "supersecret",
		Role:     models.RoleAdmin,
		Active:   true,
	})
	require.NoError(t, err)

	// Demoting the only active admin is refused
	_, err = svc.Update(ctx, admin.ID, &models.UserForm{
		Username: "admin",
		Email:    "admin@example.com",
		Role:     models.RoleViewer,
		Active:   true,
	})
	assert.ErrorIs(t, err, ErrConflict)

	// So is deactivating or deleting them
	assert.ErrorIs(t, svc.Deactivate(ctx, admin.ID), ErrConflict)
	assert.ErrorIs(t, svc.Delete(ctx, admin.ID), ErrConflict)

	// With a second admin the demotion goes through
	_, err = svc.Create(ctx, &models.UserForm{
		Username: "admin2",
		Email:    "admin2@example.com",
		Password: "supersecret",
		Role:     models.RoleAdmin,
		Active:   true,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, admin.ID, &models.UserForm{
		Username: "admin",
		Email:    "admin@example.com",
		Role:     models.RoleViewer,
		Active:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, updated.Role)
}

func TestUserServiceUpdateKeepsPassword(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewUserService(repos.Users)
	ctx := context.Background()

	user, err := svc.Create(ctx, &models.UserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret",
		Role:     models.RoleUser,
		Active:   true,
	})
	require.NoError(t, err)

	// Empty password on update keeps the existing hash
	updated, err := svc.Update(ctx, user.ID, &models.UserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Role:     models.RoleUser,
		Active:   true,
	})
	require.NoError(t, err)
	assert.True(t, CheckPassword(updated.PasswordHash, "supersecret"))
}

func TestAuthServiceAuthenticate(t *testing.T) {
	repos := setupTestRepos(t)
	users := NewUserService(repos.Users)
	auth := NewAuthService(repos.Users, repos.SecurityEvent)
	ctx := context.Background()

	_, err := users.Create(ctx, &models.UserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecret",
		Role:     models.RoleUser,
		Active:   true,
	})
	require.NoError(t, err)

	// Valid credentials
	user, err := auth.Authenticate(ctx, "jdoe", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)

	stamped, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stamped.LastLogin)

	// Wrong password
	_, err = auth.Authenticate(ctx, "jdoe", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown username gets the same error
	_, err = auth.Authenticate(ctx, "ghost", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Both failures were recorded as security events
	events, err := repos.SecurityEvent.List(ctx, models.SecurityEventFilter{})
	require.NoError(t, err)
	failedLogins := 0
	for _, e := range events {
		if e.EventType == models.EventFailedLogin {
			failedLogins++
		}
	}
	assert.Equal(t, 2, failedLogins)
}

func TestAuthServiceInactiveAccount(t *testing.T) {
	repos := setupTestRepos(t)
	users := NewUserService(repos.Users)
	auth := NewAuthService(repos.Users, repos.SecurityEvent)
	ctx := context.Background()

	_, err := users.Create(ctx, &models.UserForm{
		Username: "former",
		Email:    "former@example.com",
		Password: "supersecret",
		Role:     models.RoleUser,
		Active:   false,
	})
	require.NoError(t, err)

	_, err = auth.Authenticate(ctx, "former", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceAuthenticateSSO(t *testing.T) {
	repos := setupTestRepos(t)
	users := NewUserService(repos.Users)
	auth := NewAuthService(repos.Users, repos.SecurityEvent)
	ctx := context.Background()

	_, err := users.Create(ctx, &models.UserForm{
		Username: "jdoe",
		Email:    "jdoe@district.example",
		Password: "supersecret",
		Role:     models.RoleViewer,
		Active:   true,
	})
	require.NoError(t, err)

	user, err := auth.AuthenticateSSO(ctx, "jdoe@district.example")
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, user.Role)

	_, err = auth.AuthenticateSSO(ctx, "stranger@district.example")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.AuthenticateSSO(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceEnsureDefaultAdmin(t *testing.T) {
	repos := setupTestRepos(t)
	auth := NewAuthService(repos.Users, repos.SecurityEvent)
	ctx := context.Background()

	require.NoError(t, auth.EnsureDefaultAdmin(ctx, "admin", "admin@district.local", "changeme123"))

	admin, err := repos.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, CheckPassword(admin.PasswordHash, "changeme123"))

	// Second call is a no-op while an active admin exists
	require.NoError(t, auth.EnsureDefaultAdmin(ctx, "admin", "admin@district.local", "changeme123"))

	all, err := repos.Users.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDistrictServiceCRUD(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewDistrictService(repos.Districts, repos.Devices)
	ctx := context.Background()

	district, err := svc.Create(ctx, &models.DistrictForm{
		Name:           "Test Valley",
		TotalHotspots:  10,
		ActiveHotspots: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DistrictStatusHealthy, district.Status)

	// active > total is a validation error
	_, err = svc.Create(ctx, &models.DistrictForm{Name: "Bad", TotalHotspots: 2, ActiveHotspots: 5})
	assert.ErrorIs(t, err, ErrValidation)

	// Duplicate name is a conflict
	_, err = svc.Create(ctx, &models.DistrictForm{Name: "Test Valley", TotalHotspots: 1, ActiveHotspots: 1})
	assert.ErrorIs(t, err, ErrConflict)

	// Update rederives the status
	updated, err := svc.Update(ctx, district.ID, &models.DistrictForm{
		Name:           "Test Valley",
		TotalHotspots:  10,
		ActiveHotspots: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DistrictStatusOffline, updated.Status)

	require.NoError(t, svc.Delete(ctx, district.ID))

	_, err = svc.GetByID(ctx, district.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDistrictServiceDeleteWithDevices(t *testing.T) {
	repos := setupTestRepos(t)
	districts := NewDistrictService(repos.Districts, repos.Devices)
	devices := NewDeviceService(repos.Devices, repos.Districts, repos.Connections)
	ctx := context.Background()

	district, err := districts.Create(ctx, &models.DistrictForm{
		Name:           "Occupied",
		TotalHotspots:  4,
		ActiveHotspots: 4,
	})
	require.NoError(t, err)

	_, err = devices.Create(ctx, &models.DeviceForm{
		Identifier: "aa:bb:cc:dd:ee:ff",
		Name:       "Cafeteria display",
		DeviceType: models.DeviceTypeOther,
		DistrictID: district.ID,
		Active:     true,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, districts.Delete(ctx, district.ID), ErrConflict)
}

func TestDeviceServiceCreate(t *testing.T) {
	repos := setupTestRepos(t)
	districts := NewDistrictService(repos.Districts, repos.Devices)
	devices := NewDeviceService(repos.Devices, repos.Districts, repos.Connections)
	ctx := context.Background()

	district, err := districts.Create(ctx, &models.DistrictForm{
		Name:           "Device Test",
		TotalHotspots:  4,
		ActiveHotspots: 4,
	})
	require.NoError(t, err)

	device, err := devices.Create(ctx, &models.DeviceForm{
		Identifier: "aa:bb:cc:dd:ee:01",
		Name:       "Lab laptop",
		DeviceType: models.DeviceTypeLaptop,
		DistrictID: district.ID,
		Active:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", device.Identifier, "identifiers are normalized to upper case")

	// Unknown district is not found
	_, err = devices.Create(ctx, &models.DeviceForm{
		Identifier: "aa:bb:cc:dd:ee:02",
		Name:       "Orphan",
		DeviceType: models.DeviceTypePhone,
		DistrictID: 99999,
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSecurityServiceResolve(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewSecurityService(repos.SecurityEvent)
	ctx := context.Background()

	event := &models.SecurityEvent{
		EventType:   models.EventSuspiciousTraffic,
		Severity:    models.SeverityHigh,
		Description: "Unusual upload volume from guest VLAN",
	}
	require.NoError(t, repos.SecurityEvent.Create(ctx, event))

	resolved, err := svc.Resolve(ctx, event.ID, "admin")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, "admin", resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedAt)

	// Resolving twice is a conflict
	_, err = svc.Resolve(ctx, event.ID, "admin")
	assert.ErrorIs(t, err, ErrConflict)

	// Resolving a missing event is not found
	_, err = svc.Resolve(ctx, 99999, "admin")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
