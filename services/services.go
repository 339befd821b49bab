package services

import (
	"errors"

	"github.com/districtnet/wifi-dashboard/repositories"
)

// Sentinel errors the controllers map onto HTTP statuses.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Services holds all service instances
type Services struct {
	Auth      AuthService
	Users     UserService
	Districts DistrictService
	Devices   DeviceService
	Security  SecurityService
	Activity  ActivityService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories) *Services {
	return &Services{
		Auth:      NewAuthService(repos.Users, repos.SecurityEvent),
		Users:     NewUserService(repos.Users),
		Districts: NewDistrictService(repos.Districts, repos.Devices),
		Devices:   NewDeviceService(repos.Devices, repos.Districts, repos.Connections),
		Security:  NewSecurityService(repos.SecurityEvent),
		Activity:  NewActivityService(repos.Activity),
	}
}
