package devices

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/devicekeeper/internal/common"
	"github.com/dmitrijs2005/devicekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract checks the behavior every Repository shares. The
// owners alice@x.com and bob@x.com must be acceptable to newRepo's store.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		repo := newRepo(t)
		d := &models.Device{
			Name: "dev1", IP: "10.0.0.5", ServerPort: "8443",
			LastConnection: "2026-10-18T10:00:00Z", EncryptionKey: "K123", UserAssociated: "alice@x.com",
		}
		require.NoError(t, repo.AddDevice(ctx, d))

		got, err := repo.GetDevice(ctx, "dev1")
		require.NoError(t, err)
		assert.Equal(t, d, got)
	})

	t.Run("duplicate insert is ignored", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "dev1", IP: "10.0.0.5", EncryptionKey: "K1"}))
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "dev1", IP: "10.9.9.9", EncryptionKey: "K2"}))

		all, err := repo.ListDevices(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "10.0.0.5", all[0].IP)
		assert.Equal(t, "K1", all[0].EncryptionKey)
	})

	t.Run("edit keeps name and overwrites the rest", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.AddDevice(ctx, &models.Device{
			Name: "dev1", IP: "10.0.0.5", ServerPort: "8443", EncryptionKey: "K1", UserAssociated: "alice@x.com",
		}))

		edited := &models.Device{Name: "dev1", IP: "10.0.0.6", LastConnection: "2026-10-18T12:00:00Z", UserAssociated: "bob@x.com"}
		require.NoError(t, repo.EditDevice(ctx, edited))

		got, err := repo.GetDevice(ctx, "dev1")
		require.NoError(t, err)
		assert.Equal(t, edited, got)

		require.NoError(t, repo.EditDevice(ctx, &models.Device{Name: "ghost", IP: "1.1.1.1"}))
		_, err = repo.GetDevice(ctx, "ghost")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "dev1", IP: "10.0.0.5"}))

		require.NoError(t, repo.RemoveDevice(ctx, "dev1"))
		_, err := repo.GetDevice(ctx, "dev1")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		assert.NoError(t, repo.RemoveDevice(ctx, "dev1"))
	})

	t.Run("filter by owner", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "a1", IP: "10.0.0.1", UserAssociated: "alice@x.com"}))
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "a2", IP: "10.0.0.2", UserAssociated: "alice@x.com"}))
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "b1", IP: "10.0.0.3", UserAssociated: "bob@x.com"}))
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "n1", IP: "10.0.0.4"}))

		all, err := repo.ListDevices(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		unfiltered, err := repo.ListDevicesByOwner(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, all, unfiltered)

		var want []*models.Device
		for _, d := range all {
			if d.UserAssociated == "alice@x.com" {
				want = append(want, d)
			}
		}
		alice, err := repo.ListDevicesByOwner(ctx, "alice@x.com")
		require.NoError(t, err)
		assert.Equal(t, want, alice)
	})

	t.Run("encryption key", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "keyed", IP: "10.0.0.1", EncryptionKey: "K123"}))
		require.NoError(t, repo.AddDevice(ctx, &models.Device{Name: "bare", IP: "10.0.0.2"}))

		for name, want := range map[string]string{"keyed": "K123", "bare": "", "ghost": ""} {
			got, err := repo.GetEncryptionKey(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, want, got, name)
		}
	})

	t.Run("owner scenario", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.AddDevice(ctx, &models.Device{
			Name: "dev1", IP: "10.0.0.5", ServerPort: "8443", UserAssociated: "alice@x.com",
		}))

		alice, err := repo.ListDevicesByOwner(ctx, "alice@x.com")
		require.NoError(t, err)
		require.Len(t, alice, 1)
		assert.Equal(t, "dev1", alice[0].Name)

		bob, err := repo.ListDevicesByOwner(ctx, "bob@x.com")
		require.NoError(t, err)
		assert.Empty(t, bob)
	})
}
