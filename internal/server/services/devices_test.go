package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/devicekeeper/internal/common"
	"github.com/dmitrijs2005/devicekeeper/internal/logging"
	"github.com/dmitrijs2005/devicekeeper/internal/server/models"
	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("EET", 2*3600))

func newDeviceService(t *testing.T) *DeviceService {
	t.Helper()
	s := NewDeviceService(repomanager.NewMemoryRepositoryManager(), logging.Nop)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestRegister_FillsKeyAndTimestamp(t *testing.T) {
	s := newDeviceService(t)
	ctx := context.Background()

	got, err := s.Register(ctx, &models.Device{Name: "rpi-1", IP: "10.0.0.5", ServerPort: "5900"})
	require.NoError(t, err)

	assert.Equal(t, "rpi-1", got.Name)
	assert.Len(t, got.EncryptionKey, 32)
	assert.Equal(t, "2026-03-04T03:06:07Z", got.LastConnection)

	key, err := s.EncryptionKey(ctx, "rpi-1")
	require.NoError(t, err)
	assert.Equal(t, got.EncryptionKey, key)
}

func TestRegister_KeepsSuppliedValues(t *testing.T) {
	s := newDeviceService(t)

	in := &models.Device{
		Name:           "rpi-1",
		IP:             "10.0.0.5",
		LastConnection: "2020-01-01T00:00:00Z",
		EncryptionKey:  "0123456789abcdef0123456789abcdef",
	}
	got, err := s.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, *in, *got)
}

func TestRegister_DuplicateReturnsStoredRow(t *testing.T) {
	s := newDeviceService(t)
	ctx := context.Background()

	first, err := s.Register(ctx, &models.Device{Name: "rpi-1", IP: "10.0.0.5"})
	require.NoError(t, err)

	second, err := s.Register(ctx, &models.Device{Name: "rpi-1", IP: "192.168.1.1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "10.0.0.5", second.IP)
}

func TestRegister_DoesNotMutateInput(t *testing.T) {
	s := newDeviceService(t)

	in := &models.Device{Name: "rpi-1", IP: "10.0.0.5"}
	_, err := s.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, in.EncryptionKey)
	assert.Empty(t, in.LastConnection)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		device *models.Device
	}{
		{"nil", nil},
		{"missing name", &models.Device{IP: "10.0.0.5"}},
		{"missing ip", &models.Device{Name: "rpi-1"}},
		{"name too long", &models.Device{Name: string(make([]byte, 51)), IP: "10.0.0.5"}},
		{"port not numeric", &models.Device{Name: "rpi-1", IP: "10.0.0.5", ServerPort: "vnc"}},
		{"owner not an email", &models.Device{Name: "rpi-1", IP: "10.0.0.5", UserAssociated: "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newDeviceService(t)
			_, err := s.Register(context.Background(), tt.device)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestReconnect_UpdatesAddress(t *testing.T) {
	s := newDeviceService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, &models.Device{Name: "rpi-1", IP: "10.0.0.5", LastConnection: "2020-01-01T00:00:00Z"})
	require.NoError(t, err)

	got, err := s.Reconnect(ctx, "rpi-1", "10.0.0.9", "5901")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9", got.IP)
	assert.Equal(t, "5901", got.ServerPort)
	assert.Equal(t, "2026-03-04T03:06:07Z", got.LastConnection)
	assert.Equal(t, reg.EncryptionKey, got.EncryptionKey)

	stored, err := s.Get(ctx, "rpi-1")
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestReconnect_UnknownDevice(t *testing.T) {
	s := newDeviceService(t)

	_, err := s.Reconnect(context.Background(), "ghost", "10.0.0.9", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.True(t, IsNotFound(err))
}

func TestUpdate(t *testing.T) {
	s := newDeviceService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, &models.Device{Name: "rpi-1", IP: "10.0.0.5"})
	require.NoError(t, err)

	reg.UserAssociated = "alice@example.com"
	require.NoError(t, s.Update(ctx, reg))

	got, err := s.Get(ctx, "rpi-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.UserAssociated)

	assert.ErrorIs(t, s.Update(ctx, &models.Device{Name: "rpi-1"}), common.ErrorValidation)
}

func TestListAndRemove(t *testing.T) {
	s := newDeviceService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, &models.Device{Name: "b", IP: "1", UserAssociated: "alice@example.com"})
	require.NoError(t, err)
	_, err = s.Register(ctx, &models.Device{Name: "a", IP: "2", UserAssociated: "bob@example.com"})
	require.NoError(t, err)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)

	mine, err := s.List(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "b", mine[0].Name)

	require.NoError(t, s.Remove(ctx, "b"))
	require.NoError(t, s.Remove(ctx, "b"))

	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestEncryptionKey_Unknown(t *testing.T) {
	s := newDeviceService(t)

	_, err := s.EncryptionKey(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
