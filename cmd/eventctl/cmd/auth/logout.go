package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var (
	logoutRole string
	logoutAll  bool
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign a role out",
	Long:  `Forgets the stored session of one role (--role) or of every role (--all).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		roles := sdk.Roles
		if !logoutAll {
			role, err := sdk.ParseRole(logoutRole)
			if err != nil {
				return err
			}
			roles = []sdk.Role{role}
		}

		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		for _, role := range roles {
			if err := client.SignOut(cmd.Context(), role); err != nil {
				return fmt.Errorf("failed to sign out %s: %w", role, err)
			}
			pterm.Success.Printfln("Signed out of %s", role)
		}
		return nil
	},
}

func init() {
	logoutCmd.Flags().StringVar(&logoutRole, "role", string(sdk.RoleBuyer), "Role to sign out: admin, host, staff or buyer")
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Sign out of every role")
}
