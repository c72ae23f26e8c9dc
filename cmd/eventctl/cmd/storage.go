package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/db/bunx"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/storage"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Manage the local storage backend",
	Long:  `Commands for managing the SQL storage backend (storage.driver = sql).`,
}

var storageMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending storage migrations",
	Long:  `Applies all pending migrations to the database named by storage.dsn, with locking to prevent concurrent migrations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		if cfg.Config.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is not set; migrations only apply to the sql driver")
		}

		db, err := bunx.NewDB(cmd.Context(), cfg.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		group, err := storage.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}

		if group.ID == 0 {
			pterm.Info.Println("No new migrations to apply")
		} else {
			pterm.Success.Printfln("Applied migration group %d", group.ID)
		}
		return nil
	},
}

var storageStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show storage migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		if cfg.Config.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is not set; migrations only apply to the sql driver")
		}

		db, err := bunx.NewDB(cmd.Context(), cfg.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		ms, err := storage.MigrationStatus(cmd.Context(), db)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tSTATUS")
		for _, m := range ms {
			status := "pending"
			if m.GroupID > 0 {
				status = fmt.Sprintf("applied (group %d)", m.GroupID)
			}
			fmt.Fprintf(w, "%s\t%s\n", m.Name, status)
		}
		return w.Flush()
	},
}

func init() {
	storageCmd.AddCommand(storageMigrateCmd)
	storageCmd.AddCommand(storageStatusCmd)
}
