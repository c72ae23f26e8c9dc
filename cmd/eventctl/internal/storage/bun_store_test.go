package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/db/bunx"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := bunx.NewDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	group, err := Migrate(ctx, db)
	require.NoError(t, err)
	require.NotZero(t, group.ID)
	return db
}

func TestBunStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewBunStore(setupTestDB(t))

	_, err := store.Get(ctx, sdk.KeyTenantID)
	assert.ErrorIs(t, err, sdk.ErrNotFound)

	require.NoError(t, store.Set(ctx, sdk.KeyTenantID, "tenant-1"))
	value, err := store.Get(ctx, sdk.KeyTenantID)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", value)

	t.Run("upsert overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, sdk.KeyTenantID, "tenant-2"))
		value, err := store.Get(ctx, sdk.KeyTenantID)
		require.NoError(t, err)
		assert.Equal(t, "tenant-2", value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sdk.KeyTenantID))
		require.NoError(t, store.Delete(ctx, sdk.KeyTenantID))
		_, err := store.Get(ctx, sdk.KeyTenantID)
		assert.ErrorIs(t, err, sdk.ErrNotFound)
	})

	t.Run("empty value is kept", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, sdk.KeyTickets, ""))
		value, err := store.Get(ctx, sdk.KeyTickets)
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("key validation", func(t *testing.T) {
		assert.Error(t, store.Set(ctx, "", "x"))
		assert.Error(t, store.Set(ctx, strings.Repeat("k", 200), "x"))
	})
}

func TestBunStore_BacksTenantCache(t *testing.T) {
	ctx := context.Background()
	cache := sdk.NewTenantCache(NewBunStore(setupTestDB(t)))

	require.NoError(t, cache.Save(ctx, sdk.TenantIdentity{SubdomainName: "acme", TenantID: "abc"}))
	identity, err := cache.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", identity.TenantID)
	assert.Equal(t, "acme", identity.SubdomainName)
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	group, err := Migrate(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, group.ID, "nothing left to apply")

	ms, err := MigrationStatus(ctx, db)
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	for _, m := range ms {
		assert.NotZero(t, m.GroupID, m.Name)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closer, err := Open(ctx, Options{Driver: DriverMemory})
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &sdk.MemoryStorage{}, store)
	})

	t.Run("file", func(t *testing.T) {
		store, closer, err := Open(ctx, Options{Driver: DriverFile, Path: t.TempDir() + "/storage.json"})
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &FileStore{}, store)
	})

	t.Run("sql migrates on open", func(t *testing.T) {
		store, closer, err := Open(ctx, Options{Driver: DriverSQL, DSN: ":memory:"})
		require.NoError(t, err)
		defer closer.Close()
		require.NoError(t, store.Set(ctx, sdk.KeyAdminTheme, "dark"))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := Open(ctx, Options{Driver: "redis"})
		assert.Error(t, err)
	})
}

func TestParseDriver(t *testing.T) {
	d, err := ParseDriver("")
	require.NoError(t, err)
	assert.Equal(t, DriverFile, d)

	d, err = ParseDriver("SQL")
	require.NoError(t, err)
	assert.Equal(t, DriverSQL, d)

	_, err = ParseDriver("etcd")
	assert.Error(t, err)
}
