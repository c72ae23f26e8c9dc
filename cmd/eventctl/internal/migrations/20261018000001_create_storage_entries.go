package migrations

import (
	"context"
	"fmt"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20261018000001, down_20261018000001)
}

// up_20261018000001 creates the storage_entries table
func up_20261018000001(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*models.StorageEntry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create storage_entries table: %w", err)
	}

	if IsPostgreSQL(db) {
		_, err = db.NewCreateIndex().
			Model((*models.StorageEntry)(nil)).
			Index("idx_storage_entries_updated_at").
			IfNotExists().
			Column("updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to index storage_entries: %w", err)
		}
	}

	return nil
}

// down_20261018000001 drops the storage_entries table
func down_20261018000001(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().
		Model((*models.StorageEntry)(nil)).
		IfExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop storage_entries table: %w", err)
	}
	return nil
}
