// Package services contains server-side business logic on top of the
// repositories. DeviceService wraps the device registry with the checks and
// defaults applied when a device registers or reconnects.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/devicekeeper/internal/common"
	"github.com/dmitrijs2005/devicekeeper/internal/cryptox"
	"github.com/dmitrijs2005/devicekeeper/internal/logging"
	"github.com/dmitrijs2005/devicekeeper/internal/server/models"
	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

type DeviceService struct {
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
	logger      logging.Logger
	now         func() time.Time
}

// NewDeviceService constructs a DeviceService over the manager's registry.
func NewDeviceService(m repomanager.RepositoryManager, l logging.Logger) *DeviceService {
	return &DeviceService{
		repomanager: m,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      l.With("module", "device_service"),
		now:         time.Now,
	}
}

func (s *DeviceService) timestamp() string {
	return s.now().UTC().Format(common.TimestampLayout)
}

func (s *DeviceService) check(d *models.Device) error {
	if d == nil {
		return fmt.Errorf("%w: device is nil", common.ErrorValidation)
	}
	if err := s.validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	return nil
}

// Register stores d unless a device with the same name already exists and
// returns the stored row. A missing encryption key is generated and a
// missing last-connection time is set to now.
func (s *DeviceService) Register(ctx context.Context, d *models.Device) (*models.Device, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: device is nil", common.ErrorValidation)
	}

	device := *d
	if device.EncryptionKey == "" {
		key, err := cryptox.NewDeviceKey()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		device.EncryptionKey = key
	}
	if device.LastConnection == "" {
		device.LastConnection = s.timestamp()
	}
	if err := s.check(&device); err != nil {
		return nil, err
	}

	repo := s.repomanager.Devices()
	if err := repo.AddDevice(ctx, &device); err != nil {
		return nil, err
	}

	stored, err := repo.GetDevice(ctx, device.Name)
	if err != nil {
		return nil, err
	}
	if stored.EncryptionKey != device.EncryptionKey {
		s.logger.Warn(ctx, "device already registered", "name", device.Name)
	} else {
		s.logger.Info(ctx, "device registered", "name", device.Name, "owner", device.UserAssociated)
	}
	return stored, nil
}

// Reconnect records a new address for a known device and refreshes its
// last-connection time.
func (s *DeviceService) Reconnect(ctx context.Context, name, ip, port string) (*models.Device, error) {
	repo := s.repomanager.Devices()

	device, err := repo.GetDevice(ctx, name)
	if err != nil {
		return nil, err
	}

	device.IP = ip
	device.ServerPort = port
	device.LastConnection = s.timestamp()
	if err := s.check(device); err != nil {
		return nil, err
	}
	if err := repo.EditDevice(ctx, device); err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "device reconnected", "name", name, "ip", ip, "port", port)
	return device, nil
}

// Update overwrites every field of the named device except the name.
func (s *DeviceService) Update(ctx context.Context, d *models.Device) error {
	if err := s.check(d); err != nil {
		return err
	}
	return s.repomanager.Devices().EditDevice(ctx, d)
}

func (s *DeviceService) Get(ctx context.Context, name string) (*models.Device, error) {
	return s.repomanager.Devices().GetDevice(ctx, name)
}

// List returns the devices of owner, or all devices when owner is empty.
func (s *DeviceService) List(ctx context.Context, owner string) ([]*models.Device, error) {
	return s.repomanager.Devices().ListDevicesByOwner(ctx, owner)
}

func (s *DeviceService) Remove(ctx context.Context, name string) error {
	if err := s.repomanager.Devices().RemoveDevice(ctx, name); err != nil {
		return err
	}
	s.logger.Info(ctx, "device removed", "name", name)
	return nil
}

// EncryptionKey returns the key of the named device. Unknown devices and
// devices without a key yield ErrorNotFound.
func (s *DeviceService) EncryptionKey(ctx context.Context, name string) (string, error) {
	key, err := s.repomanager.Devices().GetEncryptionKey(ctx, name)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("%w: no key for device %q", common.ErrorNotFound, name)
	}
	return key, nil
}

// IsNotFound reports whether err means the device does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}
