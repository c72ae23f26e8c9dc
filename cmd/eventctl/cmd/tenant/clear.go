package tenant

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the cached tenant identity",
	Long:  `Removes the cached tenant so the next command resolves it again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.Tenants().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear tenant cache: %w", err)
		}
		pterm.Success.Println("Tenant cache cleared")
		return nil
	},
}
