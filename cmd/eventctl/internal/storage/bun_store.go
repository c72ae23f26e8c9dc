package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/db/models"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/migrations"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// BunStore implements sdk.Storage on a SQL table through Bun. Concurrent
// writers are serialised by the database.
type BunStore struct {
	db *bun.DB
}

var _ sdk.Storage = (*BunStore)(nil)

// NewBunStore wraps an already migrated database.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Get(ctx context.Context, key string) (string, error) {
	entry := &models.StorageEntry{Key: key}
	err := s.db.NewSelect().
		Model(entry).
		WherePK().
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sdk.ErrNotFound
		}
		return "", fmt.Errorf("query storage key %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *BunStore) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	entry := &models.StorageEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	_, err := s.db.NewInsert().
		Model(entry).
		On("CONFLICT (storage_key) DO UPDATE").
		Set("storage_value = EXCLUDED.storage_value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert storage key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BunStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model(&models.StorageEntry{Key: key}).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete storage key %s: %w", key, err)
	}
	return nil
}

// Migrate applies pending schema migrations under the migration lock and
// returns the applied group (ID 0 when nothing was pending).
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize migrator: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return group, nil
}

// MigrationStatus lists every migration and whether it has been applied.
func MigrationStatus(ctx context.Context, db *bun.DB) (migrate.MigrationSlice, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize migrator: %w", err)
	}
	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}
	return ms, nil
}
